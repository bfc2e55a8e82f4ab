// Package teardown deletes an environment's application and infrastructure
// stacks in dependency order. The application stack is removed first because
// it references platform resources; the reverse order would leave the
// provider unable to delete either.
//
// Every step after configuration validation is best effort: a failed delete
// request or wait is recorded and logged, and the run continues. Note that
// the infrastructure delete is issued even when the application stack may
// still exist after a failed wait, which can make the infrastructure delete
// fail for a dependency reason rather than a transient one.
package teardown

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/tasklab/serverless-tasks/cmd/internal/cfnstack"
	"github.com/tasklab/serverless-tasks/cmd/internal/stackenv"
	"go.uber.org/zap"
)

// StackAPI is the provider surface the runner needs.
type StackAPI interface {
	DeleteStack(ctx context.Context, name string) error
	WaitForDelete(ctx context.Context, name string) error
}

// DeleteResult records whether a stack's delete request was accepted.
type DeleteResult string

const (
	DeleteAccepted DeleteResult = "accepted"
	DeleteFailed   DeleteResult = "failed"
)

// WaitResult records how the wait for a stack's deletion ended.
type WaitResult string

const (
	WaitCompleted WaitResult = "completed"
	WaitFailed    WaitResult = "failed"
	WaitSkipped   WaitResult = "skipped"
)

// Outcome records what happened to one stack during a run. It exists only
// for logs and reporting; nothing is persisted between runs.
type Outcome struct {
	Stack        string
	DeleteResult DeleteResult
	WaitResult   WaitResult
}

// Failed reports whether any part of the step went wrong. A skipped wait
// after a not-found delete counts as success: the stack is already gone.
func (o Outcome) Failed() bool {
	if o.DeleteResult == DeleteFailed && o.WaitResult == WaitSkipped {
		return false
	}
	return o.DeleteResult == DeleteFailed || o.WaitResult == WaitFailed
}

// Runner performs the two-step ordered teardown. Progress lines go to out;
// failure detail goes to the logger.
type Runner struct {
	stacks StackAPI
	out    io.Writer
	log    *zap.Logger
}

func New(stacks StackAPI, out io.Writer, log *zap.Logger) *Runner {
	return &Runner{stacks: stacks, out: out, log: log}
}

// Run tears down the target's stacks in fixed order: application first,
// then infrastructure. It always attempts both steps and never returns an
// error; per-step failures are captured in the outcomes.
func (r *Runner) Run(ctx context.Context, target stackenv.Target) []Outcome {
	steps := []struct {
		layer string
		stack string
	}{
		{"application", target.AppStack},
		{"infrastructure", target.InfraStack},
	}

	outcomes := make([]Outcome, 0, len(steps))
	for i, step := range steps {
		fmt.Fprintf(r.out, "[%d/%d] Deleting %s stack: %s\n", i+1, len(steps), step.layer, step.stack)
		outcomes = append(outcomes, r.teardownStack(ctx, step.stack))
	}
	fmt.Fprintln(r.out, "Teardown complete.")
	return outcomes
}

func (r *Runner) teardownStack(ctx context.Context, stack string) Outcome {
	outcome := Outcome{Stack: stack, DeleteResult: DeleteAccepted}

	if err := r.stacks.DeleteStack(ctx, stack); err != nil {
		outcome.DeleteResult = DeleteFailed
		if errors.Is(err, cfnstack.ErrStackNotFound) {
			// Already gone; nothing to wait for.
			outcome.WaitResult = WaitSkipped
			r.log.Info("stack already deleted", zap.String("stack", stack))
			return outcome
		}
		// Still wait: the delete may have failed transiently while a
		// previous deletion is in flight.
		r.log.Warn("delete request failed",
			zap.String("stack", stack), zap.Error(err))
	}

	if err := r.stacks.WaitForDelete(ctx, stack); err != nil {
		outcome.WaitResult = WaitFailed
		r.log.Warn("wait for stack deletion failed",
			zap.String("stack", stack), zap.Error(err))
		return outcome
	}

	outcome.WaitResult = WaitCompleted
	r.log.Info("stack deleted", zap.String("stack", stack))
	return outcome
}
