package core

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the YAML fixture format loaded at startup.
//
//	projects:
//	  - name: Backlog
//	    description: Default project
//	    tasks:
//	      - title: First task
//	        status: TODO
//	        priority: MEDIUM
type seedFile struct {
	Projects []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Tasks       []struct {
			Title       string `yaml:"title"`
			Description string `yaml:"description"`
			Status      string `yaml:"status"`
			Priority    string `yaml:"priority"`
		} `yaml:"tasks"`
	} `yaml:"projects"`
}

// LoadSeed creates fixture projects and tasks from the YAML file at path.
// It is idempotent: when any project already exists, it does nothing.
// An empty path disables seeding.
func LoadSeed(ctx context.Context, path string, projects ProjectRepository, tasks TaskRepository) error {
	if path == "" {
		return nil
	}

	_, total, err := projects.List(ctx, PageRequest{Page: 1, Size: 1, SortBy: "id", SortDir: "asc"})
	if err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if total > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file %s: %w", path, err)
	}
	seed, err := parseSeed(raw)
	if err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	for _, sp := range seed.Projects {
		project, err := projects.Create(ctx, sp.Name, sp.Description)
		if err != nil {
			return fmt.Errorf("seed project %q: %w", sp.Name, err)
		}
		for _, st := range sp.Tasks {
			input := TaskInput{
				Title:       st.Title,
				Description: st.Description,
				Status:      st.Status,
				Priority:    st.Priority,
				ProjectID:   &project.ID,
			}
			if _, err := tasks.Create(ctx, input); err != nil {
				return fmt.Errorf("seed task %q: %w", st.Title, err)
			}
		}
	}

	log.Printf("seeded %d projects from %s", len(seed.Projects), path)
	return nil
}

// parseSeed decodes and validates the fixture document.
func parseSeed(raw []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, err
	}
	for i, sp := range seed.Projects {
		if violations := validateProjectInput(sp.Name, sp.Description); len(violations) > 0 {
			return nil, fmt.Errorf("project %d: %s", i, violations[0])
		}
		for j := range sp.Tasks {
			st := &seed.Projects[i].Tasks[j]
			if st.Status == "" {
				st.Status = "TODO"
			}
			if st.Priority == "" {
				st.Priority = "MEDIUM"
			}
			input := TaskInput{Title: st.Title, Description: st.Description, Status: st.Status, Priority: st.Priority}
			if violations := validateTaskInput(input); len(violations) > 0 {
				return nil, fmt.Errorf("project %d task %d: %s", i, j, violations[0])
			}
		}
	}
	return &seed, nil
}
