package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/tasklab/serverless-tasks/infra/cdk"
)

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	environment := "dev"
	if v, ok := app.Node().TryGetContext(jsii.String("env")).(string); ok && v != "" {
		environment = v
	}

	props := &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
		},
	}

	platform := cdk.NewPlatformStack(app, environment, props)
	cdk.NewAppStack(app, environment, platform, props)

	app.Synth(nil)
}
