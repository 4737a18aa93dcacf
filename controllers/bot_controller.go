package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"internbot/models"
	"internbot/services"
	"internbot/store"
	"internbot/utils"
)

// RunController starts and stops runs and exposes queue state.
type RunController interface {
	Start(filters models.SearchFilters, answers []models.AnswerTemplate) (int, error)
	Stop()
	Running() bool
	Jobs() []models.Internship
	Stats() services.RunStats
}

// HistoryLister reads persisted application outcomes.
type HistoryLister interface {
	List(limit int) ([]store.ApplicationRecord, error)
}

// BotController handles run orchestration, logs and history endpoints.
type BotController struct {
	bot     RunController
	logs    *services.LogBuffer
	history HistoryLister
}

func NewBotController(bot RunController, logs *services.LogBuffer, history HistoryLister) *BotController {
	return &BotController{bot: bot, logs: logs, history: history}
}

// StartRequest is the run-start request body: the search filters plus
// the answer templates used for every application in the run.
type StartRequest struct {
	models.SearchFilters
	Answers []models.AnswerTemplate `json:"answers"`
}

// Start searches once and begins applying to the results one at a time.
// @Router /api/bot/start [post]
func (bc *BotController) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "Invalid request format", err)
		return
	}

	count, err := bc.bot.Start(req.SearchFilters, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotLoggedIn):
			utils.UnauthorizedError(c, "Not logged in")
		case errors.Is(err, services.ErrRunActive):
			utils.BadRequestError(c, "A run is already active", err)
		default:
			utils.InternalServerError(c, "Could not start run", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Run started",
		"count":   count,
	})
}

// Stop halts scheduling; an in-flight application finishes first.
// @Router /api/bot/stop [post]
func (bc *BotController) Stop(c *gin.Context) {
	bc.bot.Stop()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Run stopping",
	})
}

// Jobs returns the queue snapshot and aggregate stats.
// @Router /api/bot/jobs [get]
func (bc *BotController) Jobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"running": bc.bot.Running(),
		"jobs":    bc.bot.Jobs(),
		"stats":   bc.bot.Stats(),
	})
}

// Logs returns the append-only run log.
// @Router /api/bot/logs [get]
func (bc *BotController) Logs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    bc.logs.Snapshot(),
	})
}

// History returns persisted application outcomes, newest first.
// @Router /api/bot/history [get]
func (bc *BotController) History(c *gin.Context) {
	if bc.history == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "applications": []store.ApplicationRecord{}})
		return
	}

	records, err := bc.history.List(100)
	if err != nil {
		utils.InternalServerError(c, "Could not read history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": records,
	})
}
