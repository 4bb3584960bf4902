package storage

import (
	"context"

	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VoterStorage is the registry of eligible voters. Count feeds the
// participation-rate denominator.
type VoterStorage interface {
	Get(ctx context.Context, code string) (*Voter, error)
	GetAll(ctx context.Context) ([]*Voter, error)
	Put(ctx context.Context, voter *Voter) error
	Delete(ctx context.Context, code string) error
	Count(ctx context.Context) (int, error)
}

type DynamoVoterStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoVoterStorage) Get(ctx context.Context, code string) (*Voter, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": code})
	if err != nil {
		logging.Log.Errorf("VOTER: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("VOTER: GetItem failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var voter Voter
	if err := attributevalue.UnmarshalMap(out.Item, &voter); err != nil {
		logging.Log.Errorf("VOTER: failed to unmarshal voter: %v", err)
		return nil, err
	}
	return &voter, nil
}

func (s *DynamoVoterStorage) GetAll(ctx context.Context) ([]*Voter, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("VOTER: scan failed: %v", err)
		return nil, err
	}

	var voters []*Voter
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &voters); err != nil {
		logging.Log.Errorf("VOTER: failed to unmarshal list: %v", err)
		return nil, err
	}
	return voters, nil
}

func (s *DynamoVoterStorage) Put(ctx context.Context, voter *Voter) error {
	item, err := attributevalue.MarshalMap(voter)
	if err != nil {
		logging.Log.Errorf("VOTER: failed to marshal voter: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("VOTER: failed to store voter: %v", err)
		return err
	}
	return nil
}

func (s *DynamoVoterStorage) Delete(ctx context.Context, code string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": code})
	if err != nil {
		logging.Log.Errorf("VOTER: failed to marshal delete key: %v", err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("VOTER: failed to delete voter %s: %v", code, err)
		return err
	}
	return nil
}

func (s *DynamoVoterStorage) Count(ctx context.Context) (int, error) {
	var total int
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			Select:            types.SelectCount,
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("VOTER: count scan failed: %v", err)
			return 0, err
		}
		total += int(out.Count)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}

	return total, nil
}
