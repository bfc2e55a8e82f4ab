// Package stackenv resolves which CloudFormation stacks an operations
// command targets, from environment variables set by the invoking pipeline.
package stackenv

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

// Target identifies the stack pair for one deployment environment.
// Environment and Region are required; the stack names default to the
// deploy pipeline's naming convention when not overridden.
type Target struct {
	Environment string `env:"ENV,notEmpty"`
	Region      string `env:"REGION,notEmpty"`
	AppStack    string `env:"APP_STACK"`
	InfraStack  string `env:"INFRA_STACK"`
}

// FromEnv parses and validates the target configuration. It fails before
// any provider call is made when ENV or REGION is missing.
func FromEnv() (Target, error) {
	var t Target
	if err := env.Parse(&t); err != nil {
		return Target{}, errors.Wrap(err, "parsing stack target configuration")
	}
	if t.AppStack == "" {
		t.AppStack = AppStackName(t.Environment)
	}
	if t.InfraStack == "" {
		t.InfraStack = InfraStackName(t.Environment)
	}
	return t, nil
}

// AppStackName returns the default application stack name for an environment.
func AppStackName(environment string) string {
	return "serverless-app-" + environment
}

// InfraStackName returns the default infrastructure stack name for an environment.
func InfraStackName(environment string) string {
	return "serverless-platform-" + environment
}
