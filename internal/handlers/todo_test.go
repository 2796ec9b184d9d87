package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/marianahernandez1510202/todo-api-devops-project/internal/dto"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/handlers"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/repo"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/service"
)

type todoBody struct {
	Data    dto.TodoResponse `json:"data"`
	Message string           `json:"message"`
}

type listBody struct {
	Data       []dto.TodoResponse `json:"data"`
	Pagination dto.Pagination     `json:"pagination"`
}

type searchBody struct {
	Data   []dto.TodoResponse `json:"data"`
	Search dto.SearchMeta     `json:"search"`
}

type statsBody struct {
	Data dto.StatsResponse `json:"data"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type TodoHandlerSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestTodoHandlerSuite(t *testing.T) {
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	h := handlers.NewTodoHandler(service.NewTodoService(repo.NewMemoryTodoRepo(), nil))
	todos := s.router.Group("/api/v1/todos")
	todos.POST("", h.Create)
	todos.GET("", h.List)
	todos.GET("/stats", h.Stats)
	todos.GET("/search", h.Search)
	todos.GET("/:id", h.GetByID)
	todos.PUT("/:id", h.Update)
	todos.PATCH("/:id/complete", h.Complete)
	todos.PATCH("/:id/uncomplete", h.Uncomplete)
	todos.DELETE("/:id", h.Delete)
}

func (s *TodoHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TodoHandlerSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

func (s *TodoHandlerSuite) createTodo(body string) dto.TodoResponse {
	w := s.do(http.MethodPost, "/api/v1/todos", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp todoBody
	s.decode(w, &resp)
	return resp.Data
}

func (s *TodoHandlerSuite) TestCreateDefaultsAndRoundTrip() {
	created := s.createTodo(`{"title":"Write report","description":"quarterly numbers","dueDate":"2030-06-01"}`)

	s.False(created.Completed)
	s.Equal("medium", string(created.Priority))
	s.Equal("Write report", created.Title)
	s.Require().NotNil(created.DueDate)
	s.Equal(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), created.DueDate.UTC())

	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/todos/%d", created.ID), "")
	s.Require().Equal(http.StatusOK, w.Code)
	var got todoBody
	s.decode(w, &got)
	s.Equal(created.Title, got.Data.Title)
	s.Equal(created.Description, got.Data.Description)
	s.Equal(created.Priority, got.Data.Priority)
	s.Equal(created.Completed, got.Data.Completed)
}

func (s *TodoHandlerSuite) TestCreateValidation() {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"description":"x"}`, "title is required"},
		{"empty title", `{"title":""}`, "title is required"},
		{"whitespace-only title", `{"title":"   "}`, "title must not be blank"},
		{"title too long", fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 256)), "title must be at most 255 characters"},
		{"unknown priority", `{"title":"ok","priority":"urgent"}`, "priority must be one of: low, medium, high"},
		{"description too long", fmt.Sprintf(`{"title":"ok","description":%q}`, strings.Repeat("d", 1001)), "description must be at most 1000 characters"},
		{"bad due date", `{"title":"ok","dueDate":"not-a-date"}`, "dueDate"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			w := s.do(http.MethodPost, "/api/v1/todos", tc.body)
			s.Require().Equal(http.StatusBadRequest, w.Code)
			var e errorBody
			s.decode(w, &e)
			s.Contains(e.Message, tc.want)
		})
	}
}

func (s *TodoHandlerSuite) TestCompleteRefreshesUpdatedAt() {
	created := s.createTodo(`{"title":"toggle"}`)
	time.Sleep(5 * time.Millisecond)

	w := s.do(http.MethodPatch, fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), "")
	s.Require().Equal(http.StatusOK, w.Code)
	var done todoBody
	s.decode(w, &done)
	s.True(done.Data.Completed)
	s.True(done.Data.UpdatedAt.After(created.UpdatedAt))

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/todos/%d/uncomplete", created.ID), "")
	s.Require().Equal(http.StatusOK, w.Code)
	var undone todoBody
	s.decode(w, &undone)
	s.False(undone.Data.Completed)
}

func (s *TodoHandlerSuite) TestUpdate() {
	created := s.createTodo(`{"title":"before","priority":"low"}`)

	s.Run("partial update", func() {
		w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/todos/%d", created.ID), `{"title":"after"}`)
		s.Require().Equal(http.StatusOK, w.Code)
		var resp todoBody
		s.decode(w, &resp)
		s.Equal("after", resp.Data.Title)
		s.Equal("low", string(resp.Data.Priority))
	})

	s.Run("empty body is 400, not a no-op", func() {
		w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/todos/%d", created.ID), `{}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
		var e errorBody
		s.decode(w, &e)
		s.Equal("no fields to update", e.Message)
	})

	s.Run("unknown id is 404", func() {
		w := s.do(http.MethodPut, "/api/v1/todos/9999", `{"title":"x"}`)
		s.Require().Equal(http.StatusNotFound, w.Code)
		var e errorBody
		s.decode(w, &e)
		s.Contains(e.Message, "9999")
	})

	s.Run("invalid priority is 400", func() {
		w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/todos/%d", created.ID), `{"priority":"urgent"}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("whitespace-only title is 400", func() {
		w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/todos/%d", created.ID), `{"title":"   "}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
		var e errorBody
		s.decode(w, &e)
		s.Equal("title must not be blank", e.Message)

		// The stored title is untouched.
		w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/todos/%d", created.ID), "")
		s.Require().Equal(http.StatusOK, w.Code)
		var resp todoBody
		s.decode(w, &resp)
		s.NotEmpty(resp.Data.Title)
	})
}

func (s *TodoHandlerSuite) TestDeleteSemantics() {
	created := s.createTodo(`{"title":"doomed"}`)
	path := fmt.Sprintf("/api/v1/todos/%d", created.ID)

	w := s.do(http.MethodDelete, path, "")
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, "")
	s.Require().Equal(http.StatusNotFound, w.Code)
	var e errorBody
	s.decode(w, &e)
	s.Equal("Not found", e.Error)
	s.Contains(e.Message, fmt.Sprintf("%d", created.ID))

	// Delete is not idempotent-success.
	w = s.do(http.MethodDelete, path, "")
	s.Require().Equal(http.StatusNotFound, w.Code)
}

func (s *TodoHandlerSuite) TestInvalidID() {
	for _, path := range []string{"/api/v1/todos/abc", "/api/v1/todos/-1", "/api/v1/todos/0"} {
		w := s.do(http.MethodGet, path, "")
		s.Require().Equal(http.StatusBadRequest, w.Code, path)
	}
}

func (s *TodoHandlerSuite) TestListFiltersAndPagination() {
	var highDone int64
	for i := 0; i < 12; i++ {
		body := `{"title":"todo","priority":"low"}`
		if i%4 == 0 {
			body = `{"title":"todo","priority":"high"}`
		}
		created := s.createTodo(body)
		if i == 8 {
			w := s.do(http.MethodPatch, fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), "")
			s.Require().Equal(http.StatusOK, w.Code)
			highDone = created.ID
		}
	}

	s.Run("both predicates hold", func() {
		w := s.do(http.MethodGet, "/api/v1/todos?status=completed&priority=high", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var resp listBody
		s.decode(w, &resp)
		s.Require().Len(resp.Data, 1)
		s.Equal(highDone, resp.Data[0].ID)
		s.Equal(int64(1), resp.Pagination.Total)
	})

	s.Run("page window with recency order", func() {
		var all listBody
		w := s.do(http.MethodGet, "/api/v1/todos?limit=100", "")
		s.Require().Equal(http.StatusOK, w.Code)
		s.decode(w, &all)
		s.Require().Len(all.Data, 12)

		var page2 listBody
		w = s.do(http.MethodGet, "/api/v1/todos?page=2&limit=5", "")
		s.Require().Equal(http.StatusOK, w.Code)
		s.decode(w, &page2)
		s.Require().Len(page2.Data, 5)
		for i := range page2.Data {
			s.Equal(all.Data[5+i].ID, page2.Data[i].ID)
		}
		s.Equal(int64(12), page2.Pagination.Total)
		s.Equal(int64(3), page2.Pagination.TotalPages)
	})

	s.Run("invalid filter values rejected", func() {
		w := s.do(http.MethodGet, "/api/v1/todos?status=done", "")
		s.Require().Equal(http.StatusBadRequest, w.Code)
		w = s.do(http.MethodGet, "/api/v1/todos?limit=101", "")
		s.Require().Equal(http.StatusBadRequest, w.Code)
		w = s.do(http.MethodGet, "/api/v1/todos?page=0", "")
		s.Require().Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *TodoHandlerSuite) TestSearch() {
	s.createTodo(`{"title":"Buy groceries"}`)
	s.createTodo(`{"title":"Call mom","description":"ask about grocery list"}`)
	s.createTodo(`{"title":"Unrelated"}`)

	s.Run("matches title or description, true total", func() {
		w := s.do(http.MethodGet, "/api/v1/todos/search?q=grocer&limit=1", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var resp searchBody
		s.decode(w, &resp)
		s.Len(resp.Data, 1)
		s.Equal(int64(2), resp.Search.Total)
		s.Equal("grocer", resp.Search.Query)
	})

	s.Run("missing q is 400", func() {
		w := s.do(http.MethodGet, "/api/v1/todos/search", "")
		s.Require().Equal(http.StatusBadRequest, w.Code)
		var e errorBody
		s.decode(w, &e)
		s.Equal("Validation error", e.Error)
	})
}

func (s *TodoHandlerSuite) TestStats() {
	s.createTodo(`{"title":"a","priority":"high","dueDate":"2000-01-01"}`)
	s.createTodo(`{"title":"b","priority":"low"}`)
	done := s.createTodo(`{"title":"c","dueDate":"2000-01-01"}`)
	w := s.do(http.MethodPatch, fmt.Sprintf("/api/v1/todos/%d/complete", done.ID), "")
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/todos/stats", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var resp statsBody
	s.decode(w, &resp)

	s.Equal(int64(3), resp.Data.Total)
	s.Equal(resp.Data.Total, resp.Data.Completed+resp.Data.Pending)
	s.Equal(int64(1), resp.Data.Completed)
	s.Equal(int64(1), resp.Data.Priority["high"])
	s.Equal(int64(1), resp.Data.Priority["low"])
	s.Equal(int64(1), resp.Data.Priority["medium"])
	// The completed past-due todo does not count as overdue.
	s.Equal(int64(1), resp.Data.Overdue)
}
