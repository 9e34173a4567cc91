package repository

import (
	"reflect"
	"testing"

	"github.com/iliyamo/task-tracker/internal/model"
)

func TestBuildFilterOwnerOnly(t *testing.T) {
	where, args := buildFilter(7, TaskSearchQuery{})
	if !reflect.DeepEqual(where, []string{"user_id=?"}) {
		t.Fatalf("where = %v", where)
	}
	if !reflect.DeepEqual(args, []any{uint64(7)}) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildFilterAllPredicates(t *testing.T) {
	due, _ := model.ParseDate("2026-09-15")
	status := model.StatusPending
	prio := model.PriorityHigh
	where, args := buildFilter(3, TaskSearchQuery{
		Title:       "Groceries",
		Description: "milk",
		DueDate:     &due,
		Status:      &status,
		Priority:    &prio,
	})

	wantWhere := []string{
		"user_id=?",
		"LOWER(title) LIKE ?",
		"LOWER(description) LIKE ?",
		"due_date=?",
		"status=?",
		"priority=?",
	}
	if !reflect.DeepEqual(where, wantWhere) {
		t.Fatalf("where = %v", where)
	}
	if len(args) != 6 {
		t.Fatalf("args = %v", args)
	}
	// Substring filters are lowercased and wrapped for LIKE.
	if args[1] != "%groceries%" || args[2] != "%milk%" {
		t.Fatalf("substring args = %v, %v", args[1], args[2])
	}
	if args[4] != "Pending" || args[5] != "High" {
		t.Fatalf("enum args = %v, %v", args[4], args[5])
	}
}

func TestBuildFilterIndependentCombination(t *testing.T) {
	// Each filter contributes exactly one predicate, regardless of the others.
	status := model.StatusCompleted
	where, _ := buildFilter(1, TaskSearchQuery{Status: &status})
	if len(where) != 2 || where[1] != "status=?" {
		t.Fatalf("where = %v", where)
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name                string
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{"defaults", 0, 0, 0, 100},
		{"negative skip", -5, 10, 0, 10},
		{"limit too large", 20, 500, 20, 100},
		{"negative limit", 0, -1, 0, 100},
		{"in range", 50, 25, 50, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, limit := clampPage(tc.skip, tc.limit)
			if skip != tc.wantSkip || limit != tc.wantLimit {
				t.Fatalf("clampPage(%d,%d) = %d,%d want %d,%d",
					tc.skip, tc.limit, skip, limit, tc.wantSkip, tc.wantLimit)
			}
		})
	}
}

func TestBuildPatchOnlySuppliedFields(t *testing.T) {
	title := "New title"
	sets, args, err := buildPatch(TaskPatch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sets, []string{"title=?", "updated_at=NOW(6)"}) {
		t.Fatalf("sets = %v", sets)
	}
	if !reflect.DeepEqual(args, []any{"New title"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildPatchEmptyStillTouchesUpdatedAt(t *testing.T) {
	sets, args, err := buildPatch(TaskPatch{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sets, []string{"updated_at=NOW(6)"}) {
		t.Fatalf("sets = %v", sets)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildPatchClearsDescription(t *testing.T) {
	empty := ""
	sets, args, err := buildPatch(TaskPatch{Description: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if sets[0] != "description=?" || args[0] != "" {
		t.Fatalf("sets = %v args = %v", sets, args)
	}
}

func TestBuildPatchValidatesSuppliedFields(t *testing.T) {
	bad := ""
	if _, _, err := buildPatch(TaskPatch{Title: &bad}); err == nil {
		t.Fatal("empty title accepted")
	}
	past := model.NewDate(model.Today().AddDate(0, 0, -2))
	if _, _, err := buildPatch(TaskPatch{DueDate: &past}); err == nil {
		t.Fatal("past due date accepted")
	}
	// The forward bound does not apply on update.
	far := model.NewDate(model.Today().AddDate(2, 0, 0))
	if _, _, err := buildPatch(TaskPatch{DueDate: &far}); err != nil {
		t.Fatalf("far-future due date rejected on update: %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	err := errString("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.uq_users_email'")
	if !isDuplicate(err, "uq_users_email") {
		t.Fatal("email duplicate not detected")
	}
	if isDuplicate(err, "uq_users_username") {
		t.Fatal("wrong key matched")
	}
	if isDuplicate(errString("connection refused"), "uq_users_email") {
		t.Fatal("non-duplicate error matched")
	}
	if isDuplicate(nil, "uq_users_email") {
		t.Fatal("nil error matched")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
