package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/interview-qa/internal/dto"
	"github.com/prohmpiriya/interview-qa/internal/filter"
	"github.com/prohmpiriya/interview-qa/internal/service"
	"github.com/prohmpiriya/interview-qa/pkg/response"
)

const msgQuestionNotFound = "Question not found"

// QuestionHandler handles question HTTP requests
type QuestionHandler struct {
	questionService service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// List handles listing with optional filters
// GET /api/questions?category=&tags=&question=&order=
func (h *QuestionHandler) List(c *gin.Context) {
	var params filter.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), filter.FromParams(params))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, "Questions retrieved successfully", questions)
}

// Create handles creating one question
// POST /api/question
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if !bindRequest(c, &req) {
		return
	}

	q, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, "Question created successfully", q)
}

// BulkCreate handles creating many questions atomically
// POST /api/question/bulk
func (h *QuestionHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateQuestionsRequest
	if !bindRequest(c, &req) {
		return
	}

	qs, err := h.questionService.BulkCreate(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, "Questions created successfully", qs)
}

// Get handles fetching one question
// GET /api/question/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	q, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, "Question retrieved successfully", q)
}

// Update handles partial updates
// PUT /api/question/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuestionRequest
	if !bindRequest(c, &req) {
		return
	}

	q, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, "Question updated successfully", q)
}

// Delete handles removing a question
// DELETE /api/question/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, "Question deleted successfully", gin.H{"id": id})
}

func (h *QuestionHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrQuestionNotFound) {
		response.NotFound(c, msgQuestionNotFound)
		return
	}
	response.InternalError(c, err)
}
