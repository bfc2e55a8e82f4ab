package tasks

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	// ErrNotFound marks errors caused by addressing a task that does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrNoUpdatableFields marks update requests that touch only identity
	// attributes or nothing at all.
	ErrNoUpdatableFields = errors.New("no updatable fields")
)

// PutItemAPI is the subset of the DynamoDB API used to write new tasks.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// GetItemAPI is the subset of the DynamoDB API used to read a single task.
type GetItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// UpdateItemAPI is the subset of the DynamoDB API used to update tasks.
type UpdateItemAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DeleteItemAPI is the subset of the DynamoDB API used to delete tasks.
type DeleteItemAPI interface {
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// QueryAPI is the subset of the DynamoDB API used to list a user's tasks.
type QueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// API combines the DynamoDB operations the store needs.
type API interface {
	PutItemAPI
	GetItemAPI
	UpdateItemAPI
	DeleteItemAPI
	QueryAPI
}

var _ API = (*dynamodb.Client)(nil)

// protectedAttributes cannot be changed through Update; they define the
// item's identity.
var protectedAttributes = map[string]bool{
	"PK":       true,
	"SK":       true,
	"taskId":   true,
	"tenantId": true,
	"userId":   true,
}

// Store persists tasks in a single DynamoDB table.
type Store struct {
	api   API
	table string
}

func NewStore(api API, table string) *Store {
	return &Store{api: api, table: table}
}

// Create writes a new task with a generated ID. The caller validates the
// input before calling.
func (s *Store) Create(ctx context.Context, tenantID, userID string, in CreateInput) (*Task, error) {
	status := in.Status
	if status == "" {
		status = StatusPending
	}

	task := &Task{
		TaskID:      uuid.NewString(),
		TenantID:    tenantID,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	}
	task.PK = PartitionKey(tenantID, userID)
	task.SK = SortKey(task.TaskID)

	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling task item")
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "writing task %s", task.TaskID)
	}
	return task, nil
}

// Get reads a single task. Returns an error marked ErrNotFound when the
// task does not exist.
func (s *Store) Get(ctx context.Context, tenantID, userID, taskID string) (*Task, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(tenantID, userID, taskID),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading task %s", taskID)
	}
	if out.Item == nil {
		return nil, errors.Mark(errors.Newf("task %s not found", taskID), ErrNotFound)
	}

	var task Task
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling task %s", taskID)
	}
	return &task, nil
}

// Update applies the given fields to an existing task. Identity attributes
// are silently skipped; updating nothing else is an error. Returns an error
// marked ErrNotFound when the task does not exist.
func (s *Store) Update(ctx context.Context, tenantID, userID, taskID string, fields map[string]any) (*Task, error) {
	expr, names, values, err := buildUpdate(fields)
	if err != nil {
		return nil, err
	}

	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       itemKey(tenantID, userID, taskID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, errors.Mark(errors.Newf("task %s not found", taskID), ErrNotFound)
		}
		return nil, errors.Wrapf(err, "updating task %s", taskID)
	}

	var task Task
	if err := attributevalue.UnmarshalMap(out.Attributes, &task); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling updated task %s", taskID)
	}
	return &task, nil
}

// Delete removes a task. Returns an error marked ErrNotFound when the task
// does not exist.
func (s *Store) Delete(ctx context.Context, tenantID, userID, taskID string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 itemKey(tenantID, userID, taskID),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return errors.Mark(errors.Newf("task %s not found", taskID), ErrNotFound)
		}
		return errors.Wrapf(err, "deleting task %s", taskID)
	}
	return nil
}

// List returns all tasks in a user's partition.
func (s *Store) List(ctx context.Context, tenantID, userID string) ([]Task, error) {
	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: PartitionKey(tenantID, userID)},
			":prefix": &types.AttributeValueMemberS{Value: taskKeyPrefix},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}

	tasks := make([]Task, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tasks); err != nil {
		return nil, errors.Wrap(err, "unmarshaling task list")
	}
	return tasks, nil
}

func itemKey(tenantID, userID, taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: PartitionKey(tenantID, userID)},
		"SK": &types.AttributeValueMemberS{Value: SortKey(taskID)},
	}
}

// buildUpdate assembles a SET expression from the given fields, skipping
// identity attributes. Attribute name placeholders keep reserved words like
// "status" usable.
func buildUpdate(fields map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if protectedAttributes[k] {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", nil, nil, ErrNoUpdatableFields
	}
	sort.Strings(keys)

	expr := "SET "
	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	for i, k := range keys {
		if i > 0 {
			expr += ", "
		}
		expr += "#" + k + " = :" + k
		names["#"+k] = k

		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return "", nil, nil, errors.Wrapf(err, "marshaling field %s", k)
		}
		values[":"+k] = av
	}
	return expr, names, values, nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
