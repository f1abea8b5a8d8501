package repository

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"scamscope/internal/models"
	"scamscope/internal/tracing"
)

const SubmissionsTableName = "scamscope-reports"

//go:generate mockgen -destination=../mocks/mock_submission_repository.go -package=mocks . SubmissionRepositoryInterface

// SubmissionRepositoryInterface persists user-submitted scam reports
type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, report *models.ScamReport) error
	ListRecent(ctx context.Context, limit int) ([]*models.ScamReport, error)
	Delete(ctx context.Context, id string) error
}

type SubmissionRepository struct {
	ddb *dynamodb.DynamoDB
	mc  MetricsCollector
}

// NewSubmissionRepository creates a new SubmissionRepository with the given metrics collector
func NewSubmissionRepository(ddb *dynamodb.DynamoDB, mc MetricsCollector) *SubmissionRepository {
	if mc == nil {
		mc = NoOpMetricsCollector{}
	}

	return &SubmissionRepository{
		ddb: ddb,
		mc:  mc,
	}
}

// Create stores a new scam-report submission
func (r *SubmissionRepository) Create(ctx context.Context, report *models.ScamReport) (err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "create_submission", SubmissionsTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("create_submission", SubmissionsTableName, start, err)
		span.Close(err)
	}()

	entity := &SubmissionEntity{}
	entity.FromModel(report)

	item, err := dynamodbattribute.MarshalMap(entity)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(SubmissionsTableName),
		Item:      item,
	}

	_, err = r.ddb.PutItem(input)
	return err
}

// ListRecent queries the newest submissions, most recent first
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) (reports []*models.ScamReport, err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "list_recent_submissions", SubmissionsTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("list_recent_submissions", SubmissionsTableName, start, err)
		span.Close(err)
	}()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(SubmissionsTableName),
		KeyConditionExpression: aws.String("partition_key = :partition_key"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":partition_key": {
				S: aws.String(submissionsPartition),
			},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int64(int64(limit)),
	}

	result, err := r.ddb.Query(input)
	if err != nil {
		return nil, err
	}

	reports = make([]*models.ScamReport, 0, len(result.Items))
	for _, item := range result.Items {
		var entity SubmissionEntity
		if err = dynamodbattribute.UnmarshalMap(item, &entity); err != nil {
			return nil, err
		}
		reports = append(reports, entity.ToModel())
	}

	return reports, nil
}

// Delete removes a submission by id (admin only)
func (r *SubmissionRepository) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "delete_submission", SubmissionsTableName)

	defer func() {
		r.mc.RecordDatabaseOperation("delete_submission", SubmissionsTableName, start, err)
		span.Close(err)
	}()

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(SubmissionsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"partition_key": {
				S: aws.String(submissionsPartition),
			},
			"id": {
				S: aws.String(id),
			},
		},
	}

	_, err = r.ddb.DeleteItem(input)
	return err
}
