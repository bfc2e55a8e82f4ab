// Package cfnstack wraps the CloudFormation operations used by the stctl
// commands. Each SDK method is exposed through a narrow interface so tests
// can inject fakes without a live provider.
package cfnstack

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"
	"github.com/cockroachdb/errors"
)

// ErrStackNotFound marks provider errors meaning the named stack does not
// exist. CloudFormation reports this as a ValidationError rather than a
// typed not-found error.
var ErrStackNotFound = errors.New("stack does not exist")

// DeleteStackAPI is the subset of the CloudFormation API used to request
// stack deletion.
type DeleteStackAPI interface {
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
}

// DescribeStacksAPI is the subset of the CloudFormation API used to poll
// stack status and read outputs. It matches the SDK's waiter client.
type DescribeStacksAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// API combines the CloudFormation operations the Client needs.
type API interface {
	DeleteStackAPI
	DescribeStacksAPI
}

var _ API = (*cloudformation.Client)(nil)

// deleteWaitTimeout bounds a single StackDeleteComplete wait. Stacks with
// replicated tables can take well over the SDK default to disappear.
const deleteWaitTimeout = 30 * time.Minute

// Client exposes stack-level operations on top of the CloudFormation API.
type Client struct {
	api API
}

func NewClient(cfg aws.Config) *Client {
	return &Client{api: cloudformation.NewFromConfig(cfg)}
}

// NewFromAPI creates a Client around an existing API implementation.
func NewFromAPI(api API) *Client {
	return &Client{api: api}
}

// DeleteStack requests deletion of the named stack. Errors caused by the
// stack not existing are marked with ErrStackNotFound.
func (c *Client) DeleteStack(ctx context.Context, name string) error {
	_, err := c.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(name),
	})
	if err != nil {
		return markNotFound(errors.Wrapf(err, "requesting deletion of stack %s", name))
	}
	return nil
}

// WaitForDelete blocks until the named stack reaches DELETE_COMPLETE, the
// wait times out, or the provider reports a terminal failure.
func (c *Client) WaitForDelete(ctx context.Context, name string) error {
	waiter := cloudformation.NewStackDeleteCompleteWaiter(c.api)
	err := waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	}, deleteWaitTimeout)
	if err != nil {
		return errors.Wrapf(err, "waiting for deletion of stack %s", name)
	}
	return nil
}

// Status returns the current stack status string, e.g. "UPDATE_COMPLETE".
func (c *Client) Status(ctx context.Context, name string) (string, error) {
	out, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		return "", markNotFound(errors.Wrapf(err, "describing stack %s", name))
	}
	if len(out.Stacks) == 0 {
		return "", errors.Mark(errors.Newf("stack %s not found", name), ErrStackNotFound)
	}
	return string(out.Stacks[0].StackStatus), nil
}

// Outputs returns the stack's CloudFormation outputs keyed by output key.
func (c *Client) Outputs(ctx context.Context, name string) (map[string]string, error) {
	out, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		return nil, markNotFound(errors.Wrapf(err, "describing stack %s", name))
	}
	if len(out.Stacks) == 0 {
		return nil, errors.Mark(errors.Newf("stack %s not found", name), ErrStackNotFound)
	}

	outputs := make(map[string]string, len(out.Stacks[0].Outputs))
	for _, o := range out.Stacks[0].Outputs {
		outputs[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return outputs, nil
}

func markNotFound(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) &&
		apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "does not exist") {
		return errors.Mark(err, ErrStackNotFound)
	}
	return err
}
