package main

import (
	"context"
	"io"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"github.com/tasklab/serverless-tasks/cmd/internal/cfnstack"
	"github.com/tasklab/serverless-tasks/cmd/internal/stackenv"
	"github.com/tasklab/serverless-tasks/cmd/internal/teardown"
)

var _ teardown.StackAPI = (*cfnstack.Client)(nil)

type TeardownCmd struct{}

// stackClientFactory builds the provider client for a region. It exists so
// tests can count provider usage without AWS credentials.
type stackClientFactory func(ctx context.Context, region string) (teardown.StackAPI, error)

func newStackClient(ctx context.Context, region string) (teardown.StackAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS configuration")
	}
	return cfnstack.NewClient(cfg), nil
}

// Run exits non-zero only when configuration is invalid. Provider failures
// during the teardown itself are logged and swallowed: cleanup must not
// block the pipeline that triggers it.
func (c *TeardownCmd) Run() error {
	return runTeardown(context.Background(), newStackClient, os.Stdout)
}

// runTeardown resolves the target before any provider client exists, so an
// invalid configuration returns without a single CloudFormation call.
func runTeardown(ctx context.Context, newStacks stackClientFactory, out io.Writer) error {
	target, err := stackenv.FromEnv()
	if err != nil {
		return err
	}

	stacks, err := newStacks(ctx, target.Region)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	teardown.New(stacks, out, log).Run(ctx, target)
	return nil
}
