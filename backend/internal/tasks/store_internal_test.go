package tasks

import (
	"strings"
	"testing"
)

func TestBuildUpdate_SkipsProtectedAttributes(t *testing.T) {
	t.Parallel()
	expr, names, values, err := buildUpdate(map[string]any{
		"title":    "new title",
		"taskId":   "must-not-change",
		"tenantId": "must-not-change",
		"PK":       "must-not-change",
	})
	if err != nil {
		t.Fatal(err)
	}
	if expr != "SET #title = :title" {
		t.Errorf("expr: got %q", expr)
	}
	if names["#title"] != "title" {
		t.Errorf("names: got %v", names)
	}
	if _, ok := values[":title"]; !ok {
		t.Errorf("values: got %v", values)
	}
	if len(names) != 1 || len(values) != 1 {
		t.Errorf("protected attributes leaked: names=%v values=%v", names, values)
	}
}

func TestBuildUpdate_MultipleFieldsSorted(t *testing.T) {
	t.Parallel()
	expr, _, _, err := buildUpdate(map[string]any{
		"title":  "t",
		"status": "done",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Deterministic order for stable request shapes.
	want := "SET #status = :status, #title = :title"
	if expr != want {
		t.Errorf("expr: got %q, want %q", expr, want)
	}
	if !strings.Contains(expr, "#status") {
		t.Errorf("reserved word not aliased: %q", expr)
	}
}

func TestBuildUpdate_NoUpdatableFields(t *testing.T) {
	t.Parallel()
	if _, _, _, err := buildUpdate(map[string]any{"PK": "x", "SK": "y"}); err == nil {
		t.Fatal("expected error when only identity fields are given")
	}
	if _, _, _, err := buildUpdate(nil); err == nil {
		t.Fatal("expected error for empty field map")
	}
}
