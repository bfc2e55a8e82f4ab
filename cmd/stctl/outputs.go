package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"github.com/tasklab/serverless-tasks/cmd/internal/cfnstack"
	"github.com/tasklab/serverless-tasks/cmd/internal/stackenv"
)

type OutputsCmd struct {
	Stack string `arg:"" optional:"" help:"Stack name (default: the environment's application stack)."`
}

func (c *OutputsCmd) Run() error {
	target, err := stackenv.FromEnv()
	if err != nil {
		return err
	}
	stack := c.Stack
	if stack == "" {
		stack = target.AppStack
	}

	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(target.Region))
	if err != nil {
		return errors.Wrap(err, "loading AWS configuration")
	}

	outputs, err := cfnstack.NewClient(cfg).Outputs(ctx, stack)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, outputs[k])
	}
	return w.Flush()
}
