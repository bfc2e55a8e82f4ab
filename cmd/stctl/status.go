package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"github.com/tasklab/serverless-tasks/cmd/internal/cfnstack"
	"github.com/tasklab/serverless-tasks/cmd/internal/stackenv"
)

type StatusCmd struct{}

func (c *StatusCmd) Run() error {
	target, err := stackenv.FromEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(target.Region))
	if err != nil {
		return errors.Wrap(err, "loading AWS configuration")
	}
	client := cfnstack.NewClient(cfg)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STACK\tSTATUS")
	for _, name := range []string{target.AppStack, target.InfraStack} {
		status, err := client.Status(ctx, name)
		switch {
		case errors.Is(err, cfnstack.ErrStackNotFound):
			status = "not found"
		case err != nil:
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", name, status)
	}
	return w.Flush()
}
