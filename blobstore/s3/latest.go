package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/genarena/blobstore"
)

// DDBClient is the interface for DynamoDB operations. *dynamodb.Client
// satisfies it; tests substitute a mock.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentCommit is returned when another writer committed the same
// version first.
var ErrConcurrentCommit = errors.New("concurrent snapshot commit detected")

// LatestStore tracks the most recent snapshot of an arena in DynamoDB.
//
// S3 has no compare-and-swap, so a bare object store cannot atomically answer
// "which snapshot is current" with multiple writers. LatestStore keeps a
// monotonically increasing version per arena in DynamoDB and publishes new
// versions with conditional writes, so concurrent writers fail cleanly
// instead of silently overwriting each other.
//
// Table schema:
//   - Partition key: arena_id (string)
//   - Sort key: version (number), monotonically increasing
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name genarena-snapshots \
//	  --attribute-definitions AttributeName=arena_id,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=arena_id,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type LatestStore struct {
	ddb     DDBClient
	table   string
	arenaID string
}

// NewLatestStore creates a LatestStore. arenaID is the partition key value
// identifying one logical arena (e.g. the S3 prefix its snapshots live under).
func NewLatestStore(ddb DDBClient, table, arenaID string) *LatestStore {
	return &LatestStore{
		ddb:     ddb,
		table:   table,
		arenaID: arenaID,
	}
}

// Commit publishes snapshotName as the next version. It returns the committed
// version number, or ErrConcurrentCommit when another writer claimed the same
// version first (the caller should re-read Latest and retry).
func (l *LatestStore) Commit(ctx context.Context, snapshotName string) (uint64, error) {
	current, _, err := l.Latest(ctx)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return 0, err
	}
	next := current + 1

	_, err = l.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item: map[string]types.AttributeValue{
			"arena_id": &types.AttributeValueMemberS{Value: l.arenaID},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: snapshotName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, ErrConcurrentCommit
		}
		return 0, fmt.Errorf("failed to commit snapshot version: %w", err)
	}
	return next, nil
}

// Latest returns the highest committed version and its snapshot name.
// It returns blobstore.ErrNotFound when nothing has been committed yet.
func (l *LatestStore) Latest(ctx context.Context) (uint64, string, error) {
	resp, err := l.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(l.table),
		KeyConditionExpression: aws.String("arena_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: l.arenaID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query snapshot versions: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", blobstore.ErrNotFound
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB item")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number %q: %w", versionAttr.Value, err)
	}
	nameAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid snapshot attribute in DynamoDB item")
	}
	return version, nameAttr.Value, nil
}
