package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/tasklab/serverless-tasks/backend/internal/taskapi"
	"github.com/tasklab/serverless-tasks/backend/internal/tasks"
	"github.com/tasklab/serverless-tasks/backend/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const startupTimeout = 10 * time.Second

func main() {
	fx.New(
		fx.Provide(
			taskapi.ParseEnv,
			taskapi.NewLogger,
			newTracerProvider,
			newAWSConfig,
			newDynamo,
			fx.Annotate(newStore, fx.As(new(taskapi.TaskStore))),
			taskapi.NewHandler,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(serve),
	).Run()
}

func newTracerProvider(lc fx.Lifecycle, e taskapi.Environment) (*sdktrace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	tp, err := tracing.NewTracerProvider(ctx, e.OtelExporter)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

func newAWSConfig(tp *sdktrace.TracerProvider) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(xray.Propagator{}),
	)
	return cfg, nil
}

func newDynamo(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

func newStore(client *dynamodb.Client, e taskapi.Environment) *tasks.Store {
	return tasks.NewStore(client, e.TableName)
}

// serve hands the handler to the Lambda runtime once the dependency graph
// is up. lambda.Start blocks, so it runs outside the fx start phase.
func serve(lc fx.Lifecycle, h *taskapi.Handler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go lambda.Start(h.Handle)
			return nil
		},
	})
}
