package core

import (
	"errors"
	"strconv"
	"strings"
)

// Allowed task states and priorities.
var (
	taskStatuses   = []string{"TODO", "IN_PROGRESS", "DONE"}
	taskPriorities = []string{"LOW", "MEDIUM", "HIGH"}
)

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// validateCredentials checks the register/login request body before the auth
// service is invoked. It returns one message per field violation.
func validateCredentials(username, password string) []string {
	var violations []string
	if strings.TrimSpace(username) == "" {
		violations = append(violations, "Username is required")
	}
	if password == "" {
		violations = append(violations, "Password is required")
	}
	return violations
}

// validateProjectInput mirrors the project entity constraints.
func validateProjectInput(name, description string) []string {
	var violations []string
	if strings.TrimSpace(name) == "" {
		violations = append(violations, "Project name is required")
	} else if len(name) > 100 {
		violations = append(violations, "Project name must not exceed 100 characters")
	}
	if len(description) > 500 {
		violations = append(violations, "Description must not exceed 500 characters")
	}
	return violations
}

// validateTaskInput mirrors the task entity constraints.
func validateTaskInput(input TaskInput) []string {
	var violations []string
	if strings.TrimSpace(input.Title) == "" {
		violations = append(violations, "Title cannot be empty")
	} else if len(input.Title) > 100 {
		violations = append(violations, "Title must be between 1 and 100 characters")
	}
	if len(input.Description) > 500 {
		violations = append(violations, "Description cannot exceed 500 characters")
	}
	if !isOneOf(input.Status, taskStatuses) {
		violations = append(violations, "Status must be one of TODO, IN_PROGRESS, DONE")
	}
	if !isOneOf(input.Priority, taskPriorities) {
		violations = append(violations, "Priority must be one of LOW, MEDIUM, HIGH")
	}
	return violations
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePageRequest parses page/size/sortBy/sortDir query values. sortColumns
// is the entity's sortable column whitelist; the first entry is the default.
func parsePageRequest(pageStr, sizeStr, sortBy, sortDir string, sortColumns []string) (PageRequest, error) {
	page := 1
	size := defaultPageSize
	if strings.TrimSpace(pageStr) != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return PageRequest{}, errors.New("page must be a positive integer")
		}
		page = p
	}
	if strings.TrimSpace(sizeStr) != "" {
		s, err := strconv.Atoi(sizeStr)
		if err != nil || s <= 0 {
			return PageRequest{}, errors.New("size must be a positive integer")
		}
		if s > maxPageSize {
			s = maxPageSize
		}
		size = s
	}

	if sortBy == "" {
		sortBy = sortColumns[0]
	}
	if !isOneOf(sortBy, sortColumns) {
		return PageRequest{}, errors.New("unsupported sort column: " + sortBy)
	}
	switch strings.ToLower(sortDir) {
	case "", "asc":
		sortDir = "asc"
	case "desc":
		sortDir = "desc"
	default:
		return PageRequest{}, errors.New("sortDir must be asc or desc")
	}

	return PageRequest{Page: page, Size: size, SortBy: sortBy, SortDir: sortDir}, nil
}

func calcTotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
