package repository

import (
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"scamscope/internal/config"
)

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg config.DynamoDBConfig) (*dynamodb.DynamoDB, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewCredentials(&credentials.StaticProvider{
			Value: credentials.Value{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}),
	})
	if err != nil {
		return nil, err
	}

	client := dynamodb.New(sess)
	return client, nil
}

// SeedTables creates the DynamoDB tables when they do not exist yet
func SeedTables(client *dynamodb.DynamoDB) error {
	if err := createTableIfNotExists(client, &dynamodb.CreateTableInput{
		TableName: aws.String(CacheTableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String("domain"), KeyType: aws.String("HASH")},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String("domain"), AttributeType: aws.String("S")},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}); err != nil {
		return err
	}

	if err := createTableIfNotExists(client, &dynamodb.CreateTableInput{
		TableName: aws.String(ChecksTableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String("partition_key"), KeyType: aws.String("HASH")},
			{AttributeName: aws.String("id"), KeyType: aws.String("RANGE")},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String("partition_key"), AttributeType: aws.String("S")},
			{AttributeName: aws.String("id"), AttributeType: aws.String("S")},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}); err != nil {
		return err
	}

	return createTableIfNotExists(client, &dynamodb.CreateTableInput{
		TableName: aws.String(SubmissionsTableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String("partition_key"), KeyType: aws.String("HASH")},
			{AttributeName: aws.String("id"), KeyType: aws.String("RANGE")},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String("partition_key"), AttributeType: aws.String("S")},
			{AttributeName: aws.String("id"), AttributeType: aws.String("S")},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	})
}

func createTableIfNotExists(client *dynamodb.DynamoDB, input *dynamodb.CreateTableInput) error {
	_, err := client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: input.TableName,
	})
	if err == nil {
		return nil // Table already exists
	}

	_, err = client.CreateTable(input)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot create preexisting table") {
			return nil
		}
		return err
	}

	slog.Info("Created DynamoDB table", "table", aws.StringValue(input.TableName))
	return nil
}
