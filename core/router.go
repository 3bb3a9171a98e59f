package core

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	taskSortColumns    = []string{"id", "title", "status", "priority", "created_at", "updated_at"}
	projectSortColumns = []string{"id", "name", "created_at", "updated_at"}
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, authService AuthService, codec *TokenCodec, tasks TaskRepository, projects ProjectRepository, limiter *LoginRateLimiter) *gin.Engine {
	r := gin.Default()

	// Global middleware: origin/CORS -> bearer token resolution
	r.Use(CORSMiddleware(cfg))
	r.Use(AuthMiddleware(codec))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			if violations := validateCredentials(req.Username, req.Password); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}

			user, err := authService.RegisterUser(c.Request.Context(), req.Username, req.Password)
			if err != nil {
				if errors.Is(err, ErrUsernameTaken) {
					respondError(c, http.StatusBadRequest, "Username already exists")
					return
				}
				respondError(c, http.StatusInternalServerError, "Registration failed")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"message":  "User registered successfully",
				"username": user.Username,
			})
		})

		api.POST("/auth/login", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			if violations := validateCredentials(req.Username, req.Password); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}

			if !limiter.Allow(c.Request.Context(), req.Username+":"+c.ClientIP()) {
				respondError(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
				return
			}

			user, err := authService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					respondError(c, http.StatusBadRequest, "Invalid username or password")
					return
				}
				respondError(c, http.StatusInternalServerError, "Login failed")
				return
			}

			token, err := codec.Issue(user.Username)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to issue token")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"message":  "Login successful",
				"username": user.Username,
				"token":    token,
			})
		})

		api.POST("/tasks", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			var req struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Status      string `json:"status"`
				Priority    string `json:"priority"`
				ProjectID   *int64 `json:"project_id"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			input := TaskInput{
				Title:       req.Title,
				Description: req.Description,
				Status:      req.Status,
				Priority:    req.Priority,
				ProjectID:   req.ProjectID,
			}
			if violations := validateTaskInput(input); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}

			ctx := c.Request.Context()
			if input.ProjectID != nil {
				if _, err := projects.Get(ctx, *input.ProjectID); err != nil {
					if errors.Is(err, ErrProjectNotFound) {
						respondNotFound(c, fmt.Sprintf("Project not found with id: %d", *input.ProjectID))
						return
					}
					respondError(c, http.StatusInternalServerError, "Failed to load project")
					return
				}
			}

			task, err := tasks.Create(ctx, input)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to create task")
				return
			}
			c.JSON(http.StatusCreated, task)
		})

		api.GET("/tasks", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}

			page, err := parsePageRequest(c.Query("page"), c.Query("size"), c.Query("sortBy"), c.Query("sortDir"), taskSortColumns)
			if err != nil {
				respondError(c, http.StatusBadRequest, err.Error())
				return
			}

			var filter TaskFilter
			if s := c.Query("status"); s != "" {
				if !isOneOf(s, taskStatuses) {
					respondError(c, http.StatusBadRequest, "Status must be one of TODO, IN_PROGRESS, DONE")
					return
				}
				filter.Status = s
			}
			if p := c.Query("priority"); p != "" {
				if !isOneOf(p, taskPriorities) {
					respondError(c, http.StatusBadRequest, "Priority must be one of LOW, MEDIUM, HIGH")
					return
				}
				filter.Priority = p
			}
			if pid := c.Query("projectId"); pid != "" {
				id, err := strconv.ParseInt(pid, 10, 64)
				if err != nil || id <= 0 {
					respondError(c, http.StatusBadRequest, "projectId must be a positive integer")
					return
				}
				filter.ProjectID = &id
			}

			items, total, err := tasks.List(c.Request.Context(), filter, page)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to fetch tasks")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"items":       items,
				"page":        page.Page,
				"size":        page.Size,
				"total_items": total,
				"total_pages": calcTotalPages(total, page.Size),
			})
		})

		api.GET("/tasks/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			task, err := tasks.Get(c.Request.Context(), id)
			if err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					respondNotFound(c, fmt.Sprintf("Task not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to fetch task")
				return
			}
			c.JSON(http.StatusOK, task)
		})

		api.PUT("/tasks/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			var req struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Status      string `json:"status"`
				Priority    string `json:"priority"`
				ProjectID   *int64 `json:"project_id"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			input := TaskInput{
				Title:       req.Title,
				Description: req.Description,
				Status:      req.Status,
				Priority:    req.Priority,
				ProjectID:   req.ProjectID,
			}
			if violations := validateTaskInput(input); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}

			ctx := c.Request.Context()
			if input.ProjectID != nil {
				if _, err := projects.Get(ctx, *input.ProjectID); err != nil {
					if errors.Is(err, ErrProjectNotFound) {
						respondNotFound(c, fmt.Sprintf("Project not found with id: %d", *input.ProjectID))
						return
					}
					respondError(c, http.StatusInternalServerError, "Failed to load project")
					return
				}
			}

			task, err := tasks.Update(ctx, id, input)
			if err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					respondNotFound(c, fmt.Sprintf("Task not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to update task")
				return
			}
			c.JSON(http.StatusOK, task)
		})

		api.DELETE("/tasks/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			if err := tasks.Delete(c.Request.Context(), id); err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					respondNotFound(c, fmt.Sprintf("Task not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to delete task")
				return
			}
			c.Status(http.StatusNoContent)
		})

		api.DELETE("/tasks", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			if err := tasks.DeleteAll(c.Request.Context()); err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to delete tasks")
				return
			}
			c.Status(http.StatusNoContent)
		})

		api.POST("/projects", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			var req struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			if violations := validateProjectInput(req.Name, req.Description); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}
			project, err := projects.Create(c.Request.Context(), req.Name, req.Description)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to create project")
				return
			}
			c.JSON(http.StatusCreated, project)
		})

		api.GET("/projects", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			page, err := parsePageRequest(c.Query("page"), c.Query("size"), c.Query("sortBy"), c.Query("sortDir"), projectSortColumns)
			if err != nil {
				respondError(c, http.StatusBadRequest, err.Error())
				return
			}
			items, total, err := projects.List(c.Request.Context(), page)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to fetch projects")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"items":       items,
				"page":        page.Page,
				"size":        page.Size,
				"total_items": total,
				"total_pages": calcTotalPages(total, page.Size),
			})
		})

		api.GET("/projects/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			project, err := projects.Get(c.Request.Context(), id)
			if err != nil {
				if errors.Is(err, ErrProjectNotFound) {
					respondNotFound(c, fmt.Sprintf("Project not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to fetch project")
				return
			}
			c.JSON(http.StatusOK, project)
		})

		api.PUT("/projects/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			var req struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			if violations := validateProjectInput(req.Name, req.Description); len(violations) > 0 {
				respondViolations(c, violations)
				return
			}
			project, err := projects.Update(c.Request.Context(), id, req.Name, req.Description)
			if err != nil {
				if errors.Is(err, ErrProjectNotFound) {
					respondNotFound(c, fmt.Sprintf("Project not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to update project")
				return
			}
			c.JSON(http.StatusOK, project)
		})

		api.DELETE("/projects/:id", func(c *gin.Context) {
			if _, ok := requirePrincipal(c); !ok {
				return
			}
			id, ok := parseIDParam(c)
			if !ok {
				return
			}
			if err := projects.Delete(c.Request.Context(), id); err != nil {
				if errors.Is(err, ErrProjectNotFound) {
					respondNotFound(c, fmt.Sprintf("Project not found with id: %d", id))
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to delete project")
				return
			}
			c.Status(http.StatusNoContent)
		})
	}

	return r
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
