package core

import (
	"strings"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	if v := validateCredentials("alice", "pw"); len(v) != 0 {
		t.Fatalf("valid credentials flagged: %v", v)
	}
	if v := validateCredentials("  ", "pw"); len(v) != 1 || v[0] != "Username is required" {
		t.Fatalf("blank username: %v", v)
	}
	if v := validateCredentials("alice", ""); len(v) != 1 || v[0] != "Password is required" {
		t.Fatalf("blank password: %v", v)
	}
	if v := validateCredentials("", ""); len(v) != 2 {
		t.Fatalf("both blank: %v", v)
	}
}

func TestValidateTaskInput(t *testing.T) {
	t.Parallel()

	valid := TaskInput{Title: "Write docs", Status: "TODO", Priority: "LOW"}
	if v := validateTaskInput(valid); len(v) != 0 {
		t.Fatalf("valid input flagged: %v", v)
	}

	long := strings.Repeat("x", 101)
	cases := []struct {
		name  string
		input TaskInput
		want  string
	}{
		{"empty title", TaskInput{Status: "TODO", Priority: "LOW"}, "Title cannot be empty"},
		{"long title", TaskInput{Title: long, Status: "TODO", Priority: "LOW"}, "Title must be between 1 and 100 characters"},
		{"long description", TaskInput{Title: "t", Description: strings.Repeat("y", 501), Status: "TODO", Priority: "LOW"}, "Description cannot exceed 500 characters"},
		{"bad status", TaskInput{Title: "t", Status: "PENDING", Priority: "LOW"}, "Status must be one of TODO, IN_PROGRESS, DONE"},
		{"bad priority", TaskInput{Title: "t", Status: "TODO", Priority: "URGENT"}, "Priority must be one of LOW, MEDIUM, HIGH"},
	}
	for _, tc := range cases {
		violations := validateTaskInput(tc.input)
		found := false
		for _, v := range violations {
			if v == tc.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: want %q in %v", tc.name, tc.want, violations)
		}
	}
}

func TestValidateProjectInput(t *testing.T) {
	t.Parallel()

	if v := validateProjectInput("Website", "Relaunch"); len(v) != 0 {
		t.Fatalf("valid input flagged: %v", v)
	}
	if v := validateProjectInput("", ""); len(v) != 1 || v[0] != "Project name is required" {
		t.Fatalf("blank name: %v", v)
	}
	if v := validateProjectInput(strings.Repeat("n", 101), ""); len(v) != 1 {
		t.Fatalf("long name: %v", v)
	}
	if v := validateProjectInput("ok", strings.Repeat("d", 501)); len(v) != 1 {
		t.Fatalf("long description: %v", v)
	}
}

func TestParsePageRequest(t *testing.T) {
	t.Parallel()

	cols := []string{"id", "title"}

	page, err := parsePageRequest("", "", "", "", cols)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if page.Page != 1 || page.Size != defaultPageSize || page.SortBy != "id" || page.SortDir != "asc" {
		t.Fatalf("defaults = %+v", page)
	}

	page, err = parsePageRequest("3", "25", "title", "DESC", cols)
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if page.Page != 3 || page.Size != 25 || page.SortBy != "title" || page.SortDir != "desc" {
		t.Fatalf("explicit = %+v", page)
	}

	if page, _ := parsePageRequest("", "9999", "", "", cols); page.Size != maxPageSize {
		t.Fatalf("size must be capped, got %d", page.Size)
	}

	for _, bad := range [][4]string{
		{"0", "", "", ""},
		{"x", "", "", ""},
		{"", "0", "", ""},
		{"", "", "password_hash", ""},
		{"", "", "", "sideways"},
	} {
		if _, err := parsePageRequest(bad[0], bad[1], bad[2], bad[3], cols); err == nil {
			t.Fatalf("parsePageRequest(%v): expected error", bad)
		}
	}
}

func TestCalcTotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct{ total, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := calcTotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("calcTotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
