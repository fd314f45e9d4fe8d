package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"FixtureSync/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI DynamoStore 用到的 DynamoDB 客户端方法（便于测试替换）
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// dynamoDocument 表中一条记录即一份 MatchData，分区键为 doc_id
type dynamoDocument struct {
	DocID string `dynamodbav:"doc_id"`
	model.MatchData
}

// DynamoStore 把整份 MatchData 作为一条 item 保存在 DynamoDB
type DynamoStore struct {
	client DynamoAPI
	table  string
	key    string
}

func NewDynamoStore(client DynamoAPI, table, key string) *DynamoStore {
	return &DynamoStore{client: client, table: table, key: key}
}

func (s *DynamoStore) Load(ctx context.Context) (*model.MatchData, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"doc_id": &types.AttributeValueMemberS{Value: s.key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("查询DynamoDB文档%s失败: %w", s.key, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrDocumentNotFound
	}
	// 先解成通用结构再走宽松解析，控制台里手工改过的 item（数字 id、字符串比分）也能读入
	var item map[string]interface{}
	if err := attributevalue.UnmarshalMapWithOptions(out.Item, &item, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	}); err != nil {
		return nil, fmt.Errorf("解析DynamoDB文档%s失败: %w", s.key, err)
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("解析DynamoDB文档%s失败: %w", s.key, err)
	}
	data, err := decodeMatchData(raw)
	if err != nil {
		return nil, fmt.Errorf("解析DynamoDB文档%s失败: %w", s.key, err)
	}
	return model.EnsureStructure(data), nil
}

func (s *DynamoStore) Save(ctx context.Context, data *model.MatchData) error {
	item, err := attributevalue.MarshalMap(dynamoDocument{
		DocID:     s.key,
		MatchData: *model.EnsureStructure(data),
	})
	if err != nil {
		return fmt.Errorf("序列化DynamoDB文档失败: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("保存DynamoDB文档%s失败: %w", s.key, err)
	}
	return nil
}
