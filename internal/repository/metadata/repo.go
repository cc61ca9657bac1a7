package metadata

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// categoryIndex is the GSI keyed on the category attribute.
const categoryIndex = "category-index"

// api is the consumer interface over the DynamoDB client (ISP).
type api interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Repo stores document metadata in a DynamoDB table keyed by document id.
type Repo struct {
	client api
	table  string
}

func New(client api, table string) *Repo {
	return &Repo{client: client, table: table}
}

// Put creates or replaces a document record.
func (r *Repo) Put(ctx context.Context, doc document.Document) error {
	item, err := attributevalue.MarshalMap(toRecord(&doc))
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID(), err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id string) (document.Document, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return document.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return document.Document{}, domain.ErrDocumentNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return document.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return rec.toDocument(), nil
}

// Delete removes a document record. Deleting a missing id is not an error
// at the table level, so existence is checked first.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// ListByCategory queries the category GSI.
func (r *Repo) ListByCategory(ctx context.Context, category string, limit int) ([]document.Document, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(categoryIndex),
		KeyConditionExpression: aws.String("category = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: category},
		},
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("query category %s: %w", category, err)
	}

	docs := make([]document.Document, 0, len(out.Items))
	for _, item := range out.Items {
		var rec record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal category %s item: %w", category, err)
		}
		docs = append(docs, rec.toDocument())
	}
	return docs, nil
}
