package teardown_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/tasklab/serverless-tasks/cmd/internal/cfnstack"
	"github.com/tasklab/serverless-tasks/cmd/internal/stackenv"
	"github.com/tasklab/serverless-tasks/cmd/internal/teardown"
	"go.uber.org/zap"
)

type fakeStacks struct {
	calls      []string
	deleteErrs map[string]error
	waitErrs   map[string]error
}

func (f *fakeStacks) DeleteStack(_ context.Context, name string) error {
	f.calls = append(f.calls, "delete "+name)
	return f.deleteErrs[name]
}

func (f *fakeStacks) WaitForDelete(_ context.Context, name string) error {
	f.calls = append(f.calls, "wait "+name)
	return f.waitErrs[name]
}

func devTarget() stackenv.Target {
	return stackenv.Target{
		Environment: "dev",
		Region:      "us-east-1",
		AppStack:    "serverless-app-dev",
		InfraStack:  "serverless-platform-dev",
	}
}

func runTeardown(t *testing.T, stacks *fakeStacks) ([]teardown.Outcome, string) {
	t.Helper()
	var out bytes.Buffer
	runner := teardown.New(stacks, &out, zap.NewNop())
	outcomes := runner.Run(context.Background(), devTarget())
	return outcomes, out.String()
}

func TestRun_OrderingInvariant(t *testing.T) {
	t.Parallel()
	stacks := &fakeStacks{}

	outcomes, out := runTeardown(t, stacks)

	want := []string{
		"delete serverless-app-dev",
		"wait serverless-app-dev",
		"delete serverless-platform-dev",
		"wait serverless-platform-dev",
	}
	if len(stacks.calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", stacks.calls, want)
	}
	for i := range want {
		if stacks.calls[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, stacks.calls[i], want[i])
		}
	}

	for _, o := range outcomes {
		if o.DeleteResult != teardown.DeleteAccepted || o.WaitResult != teardown.WaitCompleted {
			t.Errorf("outcome for %s: got %+v", o.Stack, o)
		}
		if o.Failed() {
			t.Errorf("outcome for %s reported failed", o.Stack)
		}
	}

	wantOut := "[1/2] Deleting application stack: serverless-app-dev\n" +
		"[2/2] Deleting infrastructure stack: serverless-platform-dev\n" +
		"Teardown complete.\n"
	if out != wantOut {
		t.Errorf("output:\ngot:\n%s\nwant:\n%s", out, wantOut)
	}
}

func TestRun_AppDeleteFailureDoesNotSkipInfra(t *testing.T) {
	t.Parallel()
	stacks := &fakeStacks{
		deleteErrs: map[string]error{
			"serverless-app-dev": errors.New("throttled"),
		},
		waitErrs: map[string]error{
			"serverless-app-dev": errors.New("wait timed out"),
		},
	}

	outcomes, out := runTeardown(t, stacks)

	var sawInfraDelete bool
	for _, call := range stacks.calls {
		if call == "delete serverless-platform-dev" {
			sawInfraDelete = true
		}
	}
	if !sawInfraDelete {
		t.Error("infrastructure delete was skipped after application failure")
	}

	if outcomes[0].DeleteResult != teardown.DeleteFailed {
		t.Errorf("app delete result: got %v", outcomes[0].DeleteResult)
	}
	if outcomes[0].WaitResult != teardown.WaitFailed {
		t.Errorf("app wait result: got %v", outcomes[0].WaitResult)
	}
	if !outcomes[0].Failed() {
		t.Error("app outcome should report failed")
	}

	if !strings.HasSuffix(out, "Teardown complete.\n") {
		t.Errorf("run should still report completion, got:\n%s", out)
	}
}

func TestRun_TransientDeleteFailureStillWaits(t *testing.T) {
	t.Parallel()
	stacks := &fakeStacks{
		deleteErrs: map[string]error{
			"serverless-app-dev": errors.New("rate exceeded"),
		},
	}

	_, _ = runTeardown(t, stacks)

	if stacks.calls[0] != "delete serverless-app-dev" || stacks.calls[1] != "wait serverless-app-dev" {
		t.Errorf("expected wait after failed delete, got calls %v", stacks.calls)
	}
}

func TestRun_AlreadyDeletedSkipsWait(t *testing.T) {
	t.Parallel()
	stacks := &fakeStacks{
		deleteErrs: map[string]error{
			"serverless-app-dev":      cfnstack.ErrStackNotFound,
			"serverless-platform-dev": cfnstack.ErrStackNotFound,
		},
	}

	outcomes, out := runTeardown(t, stacks)

	for _, call := range stacks.calls {
		if strings.HasPrefix(call, "wait ") {
			t.Errorf("unexpected wait call %q for absent stack", call)
		}
	}
	for _, o := range outcomes {
		if o.WaitResult != teardown.WaitSkipped {
			t.Errorf("outcome for %s: wait result %v, want skipped", o.Stack, o.WaitResult)
		}
		if o.Failed() {
			t.Errorf("idempotent re-run should not report failure for %s", o.Stack)
		}
	}
	if !strings.HasSuffix(out, "Teardown complete.\n") {
		t.Errorf("run should report completion, got:\n%s", out)
	}
}

func TestRun_WaitFailureProceedsToNextStep(t *testing.T) {
	t.Parallel()
	stacks := &fakeStacks{
		waitErrs: map[string]error{
			"serverless-app-dev": errors.New("exceeded max wait time"),
		},
	}

	outcomes, _ := runTeardown(t, stacks)

	if got := len(stacks.calls); got != 4 {
		t.Fatalf("calls: got %d (%v), want 4", got, stacks.calls)
	}
	if outcomes[0].WaitResult != teardown.WaitFailed {
		t.Errorf("app wait result: got %v", outcomes[0].WaitResult)
	}
	if outcomes[1].WaitResult != teardown.WaitCompleted {
		t.Errorf("infra wait result: got %v", outcomes[1].WaitResult)
	}
}
