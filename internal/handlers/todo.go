package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/dto"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/repo"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/service"
)

const (
	defaultLimit = 10
	defaultPage  = 1
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  handlers.ErrorBody
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation, dto.FirstValidationMessage(err))
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description, dom.Priority(req.Priority), req.DueDate.Ptr())
	if err != nil {
		if errors.Is(err, service.ErrBlankTitle) {
			respondError(c, http.StatusBadRequest, errValidation, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    dto.TodoToResponse(t),
		"message": "Todo created successfully",
	})
}

// List godoc
// @Summary      List todos with filters and pagination
// @Tags         todos
// @Produce      json
// @Param        status    query  string  false  "Filter by status"    Enums(completed, pending)
// @Param        priority  query  string  false  "Filter by priority"  Enums(low, medium, high)
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, errValidation, dto.FirstValidationMessage(err))
		return
	}
	page, limit := pageDefaults(q.Page, q.Limit)

	// Predicates join in status then priority order; the builder indexes
	// their parameters the same way.
	var filter repo.ListFilter
	switch q.Status {
	case "completed":
		v := true
		filter.Completed = &v
	case "pending":
		v := false
		filter.Completed = &v
	}
	if q.Priority != "" {
		p := dom.Priority(q.Priority)
		filter.Priority = &p
	}

	list, total, err := h.svc.List(c.Request.Context(), filter, repo.Page{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       dto.TodosToResponses(list),
		"pagination": dto.NewPagination(page, limit, total),
	})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      404  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, errNotFound, notFoundMessage(id))
			return
		}
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.TodoToResponse(t)})
}

// Update godoc
// @Summary      Partially update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Fields to update"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  handlers.ErrorBody
// @Failure      404   {object}  handlers.ErrorBody
// @Failure      500   {object}  handlers.ErrorBody
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation, dto.FirstValidationMessage(err))
		return
	}

	patch := repo.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := dom.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueDate != nil {
		patch.DueDate = req.DueDate.Ptr()
	}

	t, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFields):
			respondError(c, http.StatusBadRequest, errValidation, "no fields to update")
		case errors.Is(err, service.ErrBlankTitle):
			respondError(c, http.StatusBadRequest, errValidation, err.Error())
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, errNotFound, notFoundMessage(id))
		default:
			respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    dto.TodoToResponse(t),
		"message": "Todo updated successfully",
	})
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id   path  int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      404  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, errNotFound, notFoundMessage(id))
			return
		}
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// Complete godoc
// @Summary      Mark a todo as completed
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      404  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/{id}/complete [patch]
func (h *TodoHandler) Complete(c *gin.Context) {
	h.setCompleted(c, true, "Todo marked as completed")
}

// Uncomplete godoc
// @Summary      Mark a todo as not completed
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      404  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/{id}/uncomplete [patch]
func (h *TodoHandler) Uncomplete(c *gin.Context) {
	h.setCompleted(c, false, "Todo marked as not completed")
}

func (h *TodoHandler) setCompleted(c *gin.Context, completed bool, message string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.SetCompleted(c.Request.Context(), id, completed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, errNotFound, notFoundMessage(id))
			return
		}
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    dto.TodoToResponse(t),
		"message": message,
	})
}

// Search godoc
// @Summary      Search todos by title or description
// @Tags         todos
// @Produce      json
// @Param        q      query  string  true   "Search term"
// @Param        page   query  int     false  "Page number (default 1)"
// @Param        limit  query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  handlers.ErrorBody
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/search [get]
func (h *TodoHandler) Search(c *gin.Context) {
	var q dto.SearchTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, errValidation, dto.FirstValidationMessage(err))
		return
	}
	page, limit := pageDefaults(q.Page, q.Limit)

	list, total, err := h.svc.Search(c.Request.Context(), q.Q, repo.Page{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	meta := dto.NewPagination(page, limit, total)
	c.JSON(http.StatusOK, gin.H{
		"data": dto.TodosToResponses(list),
		"search": dto.SearchMeta{
			Query:      q.Q,
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: meta.TotalPages,
		},
	})
}

// Stats godoc
// @Summary      Aggregate todo statistics
// @Tags         todos
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  handlers.ErrorBody
// @Router       /todos/stats [get]
func (h *TodoHandler) Stats(c *gin.Context) {
	s, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, errDatabase, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.StatsToResponse(s)})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errValidation, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func pageDefaults(page, limit int) (int, int) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	return page, limit
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Todo with id %d not found", id)
}
