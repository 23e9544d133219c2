package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prohmpiriya/interview-qa/pkg/response"
	"github.com/prohmpiriya/interview-qa/pkg/validation"
)

const msgValidationError = "Validation error"

// request is a JSON body that can clean itself up and check itself
type request interface {
	Normalize()
	Validate() error
}

// bindRequest decodes, normalizes and validates req. On failure the 400
// envelope is already written.
func bindRequest(c *gin.Context, req request) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ValidationFailed(c, msgValidationError, validation.Describe(err))
		return false
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, msgValidationError, validation.Describe(err))
		return false
	}
	return true
}

// questionID reads and checks the :id path parameter
func questionID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	parsed, err := uuid.Parse(id)
	if err != nil {
		response.ValidationFailed(c, "Invalid question ID format", map[string]string{
			"id": "must be a valid UUID",
		})
		return "", false
	}
	return parsed.String(), true
}
