package cdk

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// product prefixes every stack and resource name. The operations CLI
// derives the same stack names from ENV; the two must stay in sync.
const product = "serverless"

// AppStackName returns the application stack name for an environment.
func AppStackName(environment string) string {
	return product + "-app-" + environment
}

// InfraStackName returns the infrastructure stack name for an environment.
func InfraStackName(environment string) string {
	return product + "-platform-" + environment
}

// Casing specifies how to format a resource identifier.
type Casing int

const (
	// CasingCamel formats as CamelCase (e.g., "ServerlessTasksDevTable").
	CasingCamel Casing = iota
	// CasingKebab formats as kebab-case (e.g., "serverless-tasks-dev-table").
	CasingKebab
	// CasingSnake formats as snake_case (e.g., "serverless_tasks_dev_table").
	CasingSnake
	// CasingScreamingSnake formats as SCREAMING_SNAKE_CASE (e.g., "SERVERLESS_TASKS_DEV_TABLE").
	CasingScreamingSnake
)

// ResourceName generates a per-environment resource identifier with the
// format "{product}-tasks-{environment}-{label}" in the given casing.
func ResourceName(environment, label string, casing Casing) string {
	base := fmt.Sprintf("%s-tasks-%s-%s", product, environment, label)
	switch casing {
	case CasingCamel:
		return strcase.ToCamel(base)
	case CasingKebab:
		return strcase.ToKebab(base)
	case CasingSnake:
		return strcase.ToSnake(base)
	case CasingScreamingSnake:
		return strcase.ToScreamingSnake(base)
	default:
		return base
	}
}
