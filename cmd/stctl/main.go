package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tasklab/serverless-tasks/cmd/internal/version"
	"go.uber.org/zap"
)

type App struct {
	Version kong.VersionFlag `help:"Show version."`

	Teardown TeardownCmd `cmd:"" help:"Delete the environment's application and infrastructure stacks, in that order."`
	Status   StatusCmd   `cmd:"" help:"Show the current status of the environment's stacks."`
	Outputs  OutputsCmd  `cmd:"" help:"Show the CloudFormation outputs of a stack."`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("stctl"),
		kong.Description("Serverless-tasks operations CLI."),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the logger used for operational detail. The stack
// progress contract lines go to stdout separately; this stays on stderr so
// log scrapers see both streams unmixed.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
