package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"internbot/models"
	"internbot/services"
	"internbot/utils"
)

// ApplySubmitter submits one application.
type ApplySubmitter interface {
	Apply(internshipURL string, answers []models.AnswerTemplate) (*services.ApplyResult, error)
}

// ApplyController handles single-application submission requests.
type ApplyController struct {
	applier ApplySubmitter
}

func NewApplyController(applier ApplySubmitter) *ApplyController {
	return &ApplyController{applier: applier}
}

// ApplyRequest is the submission request body.
type ApplyRequest struct {
	InternshipURL string                  `json:"internshipUrl" binding:"required"`
	Answers       []models.AnswerTemplate `json:"answers"`
}

// ApplyInternship walks the application protocol on the listing's
// detail page and reports the classified outcome.
// @Router /api/apply-internship [post]
func (ac *ApplyController) ApplyInternship(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "Internship URL required", err)
		return
	}

	result, err := ac.applier.Apply(req.InternshipURL, req.Answers)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			utils.UnauthorizedError(c, "Not logged in")
			return
		}
		utils.InternalServerError(c, "Application failed: "+err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, result)
}
