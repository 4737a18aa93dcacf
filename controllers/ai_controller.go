package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"internbot/utils"
)

// AnswerGenerator drafts application answers. It degrades to fixed
// messages when no backend is configured and never returns an error.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, keywords, skillsSummary string) string
	AnalyzeResume(ctx context.Context, resumeText string) string
	Enabled() bool
}

// AIController handles the best-effort text-generation endpoints.
type AIController struct {
	generator AnswerGenerator
}

func NewAIController(generator AnswerGenerator) *AIController {
	return &AIController{generator: generator}
}

// GenerateAnswerRequest asks for a drafted answer to one application
// question.
type GenerateAnswerRequest struct {
	Question      string `json:"question" binding:"required"`
	Keywords      string `json:"keywords"`
	SkillsSummary string `json:"skillsSummary"`
}

// AnalyzeResumeRequest carries plain resume text for skill extraction.
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resumeText" binding:"required"`
}

// GenerateAnswer drafts an answer for an application question.
// @Router /api/ai/generate-answer [post]
func (ai *AIController) GenerateAnswer(c *gin.Context) {
	var req GenerateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "Question is required", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	answer := ai.generator.GenerateAnswer(ctx, req.Question, req.Keywords, req.SkillsSummary)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"enabled": ai.generator.Enabled(),
		"answer":  answer,
	})
}

// AnalyzeResume summarizes skills from plain resume text.
// @Router /api/ai/analyze-resume [post]
func (ai *AIController) AnalyzeResume(c *gin.Context) {
	var req AnalyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "Resume text is required", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	analysis := ai.generator.AnalyzeResume(ctx, req.ResumeText)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"enabled":  ai.generator.Enabled(),
		"analysis": analysis,
	})
}
