package storage

import (
	"context"
	"errors"

	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ElectionStorage owns the election lifecycle records. The voting core only
// reads them; creation and closing happen through the admin endpoints.
type ElectionStorage interface {
	Get(ctx context.Context, id int) (*Election, error)
	GetAll(ctx context.Context) ([]*Election, error)
	GetCurrent(ctx context.Context) (*Election, error)
	Create(ctx context.Context, e *Election) error
	Update(ctx context.Context, e *Election) error
}

type DynamoElectionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoElectionStorage) Get(ctx context.Context, id int) (*Election, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal key for ID %d: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var election Election
	if err := attributevalue.UnmarshalMap(out.Item, &election); err != nil {
		logging.Log.Errorf("ELECTION: failed to unmarshal election: %v", err)
		return nil, err
	}
	return &election, nil
}

func (s *DynamoElectionStorage) GetAll(ctx context.Context) ([]*Election, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: scan failed: %v", err)
		return nil, err
	}

	var elections []*Election
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &elections); err != nil {
		logging.Log.Errorf("ELECTION: failed to unmarshal list: %v", err)
		return nil, err
	}
	return elections, nil
}

// GetCurrent returns the single ongoing election, falling back to the most
// recently ended closed one so results stay viewable between cycles.
func (s *DynamoElectionStorage) GetCurrent(ctx context.Context) (*Election, error) {
	elections, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return PickCurrentElection(elections)
}

func (s *DynamoElectionStorage) Create(ctx context.Context, e *Election) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal election: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("ELECTION: item with ID %d already exists", e.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("ELECTION: failed to create election: %v", err)
		return err
	}
	return nil
}

func (s *DynamoElectionStorage) Update(ctx context.Context, e *Election) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal updated election: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to update election: %v", err)
		return err
	}
	return nil
}

// PickCurrentElection applies the current-election rule to a full listing:
// the ongoing election wins, otherwise the latest closed one by period end.
func PickCurrentElection(elections []*Election) (*Election, error) {
	var latestClosed *Election
	for _, e := range elections {
		switch e.Status {
		case ElectionStatusOngoing:
			return e, nil
		case ElectionStatusClosed:
			if latestClosed == nil || e.PeriodEnd > latestClosed.PeriodEnd {
				latestClosed = e
			}
		}
	}
	if latestClosed != nil {
		return latestClosed, nil
	}
	return nil, ErrNotFound
}
