package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"scamscope/internal/models"
	"scamscope/internal/tracing"
)

const ChecksTableName = "scamscope-checks"

// ErrCheckNotFound is returned when a check id has no record
var ErrCheckNotFound = errors.New("check not found")

//go:generate mockgen -destination=../mocks/mock_check_repository.go -package=mocks . CheckRepositoryInterface

// CheckRepositoryInterface persists check records and backs the
// recent-checks listing
type CheckRepositoryInterface interface {
	CreateCheck(ctx context.Context, check *models.Check) error
	GetCheck(ctx context.Context, id string) (*models.Check, error)
	UpdateCheck(ctx context.Context, check *models.Check) error
	ListRecent(ctx context.Context, limit int) ([]*models.Check, error)
}

type CheckRepository struct {
	ddb *dynamodb.DynamoDB
	mc  MetricsCollector
}

// NewCheckRepository creates a new CheckRepository with the given metrics collector
func NewCheckRepository(ddb *dynamodb.DynamoDB, mc MetricsCollector) *CheckRepository {
	if mc == nil {
		mc = NoOpMetricsCollector{}
	}

	return &CheckRepository{
		ddb: ddb,
		mc:  mc,
	}
}

// CreateCheck stores a new check record
func (r *CheckRepository) CreateCheck(ctx context.Context, check *models.Check) (err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "create_check", ChecksTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("create_check", ChecksTableName, start, err)
		span.Close(err)
	}()

	entity := &CheckEntity{}
	if err = entity.FromModel(check); err != nil {
		return err
	}

	item, err := dynamodbattribute.MarshalMap(entity)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(ChecksTableName),
		Item:      item,
	}

	_, err = r.ddb.PutItem(input)
	return err
}

// GetCheck fetches a check by id
func (r *CheckRepository) GetCheck(ctx context.Context, id string) (check *models.Check, err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "get_check", ChecksTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("get_check", ChecksTableName, start, err)
		span.Close(err)
	}()

	input := &dynamodb.GetItemInput{
		TableName: aws.String(ChecksTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"partition_key": {
				S: aws.String(checksPartition),
			},
			"id": {
				S: aws.String(id),
			},
		},
	}

	result, err := r.ddb.GetItem(input)
	if err != nil {
		return nil, err
	}

	if result.Item == nil {
		return nil, ErrCheckNotFound
	}

	var entity CheckEntity
	if err = dynamodbattribute.UnmarshalMap(result.Item, &entity); err != nil {
		return nil, err
	}

	return entity.ToModel()
}

// UpdateCheck overwrites a check record with its current state
func (r *CheckRepository) UpdateCheck(ctx context.Context, check *models.Check) (err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "update_check", ChecksTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("update_check", ChecksTableName, start, err)
		span.Close(err)
	}()

	check.UpdatedAt = time.Now().UTC()

	entity := &CheckEntity{}
	if err = entity.FromModel(check); err != nil {
		return err
	}

	item, err := dynamodbattribute.MarshalMap(entity)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(ChecksTableName),
		Item:      item,
	}

	_, err = r.ddb.PutItem(input)
	return err
}

// ListRecent queries the newest checks, most recent first. The ULID range
// key makes the query come back in creation order.
func (r *CheckRepository) ListRecent(ctx context.Context, limit int) (checks []*models.Check, err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "list_recent_checks", ChecksTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("list_recent_checks", ChecksTableName, start, err)
		span.Close(err)
	}()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(ChecksTableName),
		KeyConditionExpression: aws.String("partition_key = :partition_key"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":partition_key": {
				S: aws.String(checksPartition),
			},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int64(int64(limit)),
	}

	result, err := r.ddb.Query(input)
	if err != nil {
		return nil, err
	}

	checks = make([]*models.Check, 0, len(result.Items))
	for _, item := range result.Items {
		var entity CheckEntity
		if err = dynamodbattribute.UnmarshalMap(item, &entity); err != nil {
			return nil, err
		}

		check, err := entity.ToModel()
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	return checks, nil
}
