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

const CacheTableName = "scamscope-report-cache"

//go:generate mockgen -destination=../mocks/mock_cache_repository.go -package=mocks . CacheRepositoryInterface

// CacheRepositoryInterface stores analysis reports keyed by canonical
// domain. Get returns (nil, nil) on a cache miss; freshness is the
// caller's concern.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, domain string) (*models.CachedReport, error)
	Put(ctx context.Context, cached *models.CachedReport) error
}

type CacheRepository struct {
	ddb *dynamodb.DynamoDB
	mc  MetricsCollector
}

// NewCacheRepository creates a new CacheRepository with the given metrics collector
func NewCacheRepository(ddb *dynamodb.DynamoDB, mc MetricsCollector) *CacheRepository {
	if mc == nil {
		mc = NoOpMetricsCollector{}
	}

	return &CacheRepository{
		ddb: ddb,
		mc:  mc,
	}
}

// Get fetches the cached report for a domain, or (nil, nil) when absent
func (c *CacheRepository) Get(ctx context.Context, domain string) (cached *models.CachedReport, err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "get_cached_report", CacheTableName)

	defer func() {
		c.mc.RecordDatabaseOperation("get_cached_report", CacheTableName, start, err)
		span.Close(err)
	}()

	input := &dynamodb.GetItemInput{
		TableName: aws.String(CacheTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"domain": {
				S: aws.String(domain),
			},
		},
	}

	result, err := c.ddb.GetItem(input)
	if err != nil {
		return nil, err
	}

	if result.Item == nil {
		return nil, nil
	}

	var entity CachedReportEntity
	if err = dynamodbattribute.UnmarshalMap(result.Item, &entity); err != nil {
		return nil, err
	}

	return entity.ToModel()
}

// Put upserts the cached report for a domain, overwriting any prior entry
func (c *CacheRepository) Put(ctx context.Context, cached *models.CachedReport) (err error) {
	start := time.Now()
	_, span := tracing.CreateDatabaseSpan(ctx, "put_cached_report", CacheTableName)

	defer func() {
		c.mc.RecordDatabaseOperation("put_cached_report", CacheTableName, start, err)
		span.Close(err)
	}()

	entity := &CachedReportEntity{}
	if err = entity.FromModel(cached); err != nil {
		return err
	}

	item, err := dynamodbattribute.MarshalMap(entity)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(CacheTableName),
		Item:      item,
	}

	_, err = c.ddb.PutItem(input)
	return err
}
