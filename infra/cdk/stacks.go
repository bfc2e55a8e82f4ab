// Package cdk defines the serverless-tasks CloudFormation stacks.
//
// Two stacks exist per environment. The platform stack owns long-lived
// state (the task table); the application stack owns the Lambda and its
// API gateway and references the platform stack's table. That reference is
// why teardown must delete the application stack first.
package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	awslambdago "github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// taskAPIEntry locates the Lambda's main package relative to this
// directory, where the CDK process runs per cdk.json.
const taskAPIEntry = "../../backend/cmd/taskapi"

// Platform holds the infrastructure stack and the resources the
// application stack needs to reference.
type Platform struct {
	Stack awscdk.Stack
	Table awsdynamodb.TableV2
}

// NewPlatformStack creates the infrastructure stack for an environment.
func NewPlatformStack(scope constructs.Construct, environment string, props *awscdk.StackProps) *Platform {
	stack := awscdk.NewStack(scope, jsii.String(InfraStackName(environment)), props)

	table := awsdynamodb.NewTableV2(stack, jsii.String("Table"), &awsdynamodb.TablePropsV2{
		TableName:    jsii.String(ResourceName(environment, "table", CasingKebab)),
		PartitionKey: &awsdynamodb.Attribute{Name: jsii.String("PK"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:      &awsdynamodb.Attribute{Name: jsii.String("SK"), Type: awsdynamodb.AttributeType_STRING},
		Billing:      awsdynamodb.Billing_OnDemand(nil),
		// DESTROY so environment teardown completes without manual cleanup.
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(stack, jsii.String("TableNameOutput"), &awscdk.CfnOutputProps{
		Key:   jsii.String("TableName"),
		Value: table.TableName(),
	})

	return &Platform{Stack: stack, Table: table}
}

// NewAppStack creates the application stack for an environment: the task
// API Lambda behind a REST gateway, wired to the platform table.
func NewAppStack(scope constructs.Construct, environment string, platform *Platform, props *awscdk.StackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(AppStackName(environment)), props)

	logGroup := awslogs.NewLogGroup(stack, jsii.String("HandlerLogs"), &awslogs.LogGroupProps{
		Retention:     awslogs.RetentionDays_ONE_WEEK,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	fn := awslambdago.NewGoFunction(stack, jsii.String("TaskApi"), &awslambdago.GoFunctionProps{
		FunctionName: jsii.String(ResourceName(environment, "task-api", CasingKebab)),
		Entry:        jsii.String(taskAPIEntry),
		Architecture: awslambda.Architecture_ARM_64(),
		LogGroup:     logGroup,
		Environment: &map[string]*string{
			"TABLE_NAME": platform.Table.TableName(),
		},
	})
	platform.Table.GrantReadWriteData(fn)

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("Api"), &awsapigateway.LambdaRestApiProps{
		Handler:     fn,
		RestApiName: jsii.String(ResourceName(environment, "api", CasingKebab)),
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrlOutput"), &awscdk.CfnOutputProps{
		Key:   jsii.String("ApiUrl"),
		Value: api.Url(),
	})

	return stack
}
