package cdk_test

import (
	"testing"

	"github.com/tasklab/serverless-tasks/infra/cdk"
)

func TestStackNames(t *testing.T) {
	t.Parallel()
	if got := cdk.AppStackName("dev"); got != "serverless-app-dev" {
		t.Errorf("AppStackName: got %q", got)
	}
	if got := cdk.InfraStackName("dev"); got != "serverless-platform-dev" {
		t.Errorf("InfraStackName: got %q", got)
	}
}

func TestResourceName_Casings(t *testing.T) {
	t.Parallel()
	cases := []struct {
		casing cdk.Casing
		want   string
	}{
		{cdk.CasingCamel, "ServerlessTasksDevTable"},
		{cdk.CasingKebab, "serverless-tasks-dev-table"},
		{cdk.CasingSnake, "serverless_tasks_dev_table"},
		{cdk.CasingScreamingSnake, "SERVERLESS_TASKS_DEV_TABLE"},
	}
	for _, c := range cases {
		if got := cdk.ResourceName("dev", "table", c.casing); got != c.want {
			t.Errorf("casing %d: got %q, want %q", c.casing, got, c.want)
		}
	}
}
