// Package tasks implements the multi-tenant task model and its DynamoDB
// store.
//
// Items use a composite key so all tasks for one user live in a single
// partition:
//
//	PK = tenant#<tenantID>#user#<userID>
//	SK = task#<taskID>
package tasks

// Task is a single to-do item owned by a tenant's user.
type Task struct {
	PK          string `dynamodbav:"PK" json:"-"`
	SK          string `dynamodbav:"SK" json:"-"`
	TaskID      string `dynamodbav:"taskId" json:"taskId"`
	TenantID    string `dynamodbav:"tenantId" json:"tenantId"`
	UserID      string `dynamodbav:"userId" json:"userId"`
	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Status      string `dynamodbav:"status" json:"status"`
}

// StatusPending is the status assigned to newly created tasks.
const StatusPending = "pending"

// CreateInput carries the caller-supplied fields for a new task.
type CreateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// PartitionKey builds the composite partition key for a tenant's user.
func PartitionKey(tenantID, userID string) string {
	return "tenant#" + tenantID + "#user#" + userID
}

// SortKey builds the sort key for a task.
func SortKey(taskID string) string {
	return "task#" + taskID
}

// taskKeyPrefix selects task items when querying a user's partition.
const taskKeyPrefix = "task#"
