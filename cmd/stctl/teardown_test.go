package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tasklab/serverless-tasks/cmd/internal/teardown"
)

type countingStacks struct {
	deletes int
	waits   int
}

func (c *countingStacks) DeleteStack(context.Context, string) error {
	c.deletes++
	return nil
}

func (c *countingStacks) WaitForDelete(context.Context, string) error {
	c.waits++
	return nil
}

func TestRunTeardown_InvalidConfigMakesNoProviderCalls(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("REGION", "us-east-1")

	stacks := &countingStacks{}
	factoryCalls := 0
	factory := func(context.Context, string) (teardown.StackAPI, error) {
		factoryCalls++
		return stacks, nil
	}

	var out bytes.Buffer
	err := runTeardown(context.Background(), factory, &out)
	if err == nil {
		t.Fatal("expected a configuration error for empty ENV")
	}
	if factoryCalls != 0 {
		t.Errorf("provider client built %d times, want 0", factoryCalls)
	}
	if stacks.deletes != 0 || stacks.waits != 0 {
		t.Errorf("provider calls made: %d deletes, %d waits, want none", stacks.deletes, stacks.waits)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected progress output: %q", out.String())
	}
}

func TestRunTeardown_ValidConfigRunsBothSteps(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("REGION", "us-east-1")
	t.Setenv("APP_STACK", "")
	t.Setenv("INFRA_STACK", "")

	stacks := &countingStacks{}
	factory := func(context.Context, string) (teardown.StackAPI, error) {
		return stacks, nil
	}

	var out bytes.Buffer
	if err := runTeardown(context.Background(), factory, &out); err != nil {
		t.Fatalf("runTeardown: %v", err)
	}
	if stacks.deletes != 2 || stacks.waits != 2 {
		t.Errorf("got %d deletes and %d waits, want 2 and 2", stacks.deletes, stacks.waits)
	}
	if !strings.HasSuffix(out.String(), "Teardown complete.\n") {
		t.Errorf("output missing completion line:\n%s", out.String())
	}
}
