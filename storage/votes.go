package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VoteStorage is the vote ledger. Create is the single write path and the
// final arbiter of the one-vote-per-position-per-period invariant.
type VoteStorage interface {
	Create(ctx context.Context, vote *Vote) error
	GetAll(ctx context.Context) ([]*Vote, error)
	GetByVoter(ctx context.Context, voterID string, periodStart, periodEnd int64) ([]*Vote, error)
	CountByPosition(ctx context.Context, positionID int, periodStart, periodEnd int64) (map[int]int, error)
	DistinctVoterCount(ctx context.Context, periodStart, periodEnd int64) (int, error)
}

// VoteRetractor is implemented only by ledgers that support removing a cast
// vote. The production ledger does not: accepted votes are immutable.
type VoteRetractor interface {
	Delete(ctx context.Context, voterID string, positionID int, periodStart, periodEnd int64) error
}

type DynamoVoteStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoVoteStorage) Create(ctx context.Context, vote *Vote) error {
	vote.SortKey = VoteSortKey(vote.PositionID, vote.PeriodStart, vote.PeriodEnd)

	item, err := attributevalue.MarshalMap(vote)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to marshal vote: %v", err)
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("VOTE: duplicate vote by %s for position %d", vote.VoterID, vote.PositionID)
			return ErrVoteAlreadyExists
		}
		logging.Log.Errorf("VOTE: failed to create vote: %v", err)
		return err
	}
	return nil
}

func (s *DynamoVoteStorage) GetAll(ctx context.Context) ([]*Vote, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("VOTE: scan failed: %v", err)
		return nil, err
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal vote list: %v", err)
		return nil, err
	}
	return votes, nil
}

func (s *DynamoVoteStorage) GetByVoter(ctx context.Context, voterID string, periodStart, periodEnd int64) ([]*Vote, error) {
	var all []*Vote
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		output, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              &s.TableName,
			KeyConditionExpression: aws.String("PK = :voter"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":voter": &types.AttributeValueMemberS{Value: voterID},
			},
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("VOTE: failed to query votes for voter %s: %v", voterID, err)
			return nil, err
		}

		var page []*Vote
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			logging.Log.Errorf("VOTE: failed to unmarshal votes for voter %s: %v", voterID, err)
			return nil, err
		}
		all = append(all, page...)

		if output.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = output.LastEvaluatedKey
	}

	votes := make([]*Vote, 0, len(all))
	for _, v := range all {
		if v.PeriodStart == periodStart && v.PeriodEnd == periodEnd {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (s *DynamoVoteStorage) CountByPosition(ctx context.Context, positionID int, periodStart, periodEnd int64) (map[int]int, error) {
	votes, err := s.scanPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, v := range votes {
		if v.PositionID == positionID {
			counts[v.CandidateID]++
		}
	}
	return counts, nil
}

func (s *DynamoVoteStorage) DistinctVoterCount(ctx context.Context, periodStart, periodEnd int64) (int, error) {
	votes, err := s.scanPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		return 0, err
	}

	voters := make(map[string]struct{})
	for _, v := range votes {
		voters[v.VoterID] = struct{}{}
	}
	return len(voters), nil
}

func (s *DynamoVoteStorage) scanPeriod(ctx context.Context, periodStart, periodEnd int64) ([]*Vote, error) {
	var votes []*Vote
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: lastEvaluatedKey,
			FilterExpression:  aws.String("PeriodStart = :ps AND PeriodEnd = :pe"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":ps": &types.AttributeValueMemberN{Value: strconv.FormatInt(periodStart, 10)},
				":pe": &types.AttributeValueMemberN{Value: strconv.FormatInt(periodEnd, 10)},
			},
		})
		if err != nil {
			logging.Log.Errorf("VOTE: period scan failed: %v", err)
			return nil, err
		}

		var page []*Vote
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("VOTE: failed to unmarshal period scan page: %v", err)
			return nil, err
		}
		votes = append(votes, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}

	return votes, nil
}
