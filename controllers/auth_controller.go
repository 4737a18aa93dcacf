package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internbot/services"
	"internbot/utils"
)

// CredentialVerifier verifies operator credentials against the remote
// site.
type CredentialVerifier interface {
	VerifyCredentials(email, password string) (*services.VerifyResult, error)
}

// SessionControl exposes the shared browser session's observable state
// and teardown.
type SessionControl interface {
	IsLoggedIn() bool
	BrowserActive() bool
	Close() error
}

// AuthController handles credential verification and session lifecycle
// endpoints.
type AuthController struct {
	verifier CredentialVerifier
	session  SessionControl
}

func NewAuthController(verifier CredentialVerifier, session SessionControl) *AuthController {
	return &AuthController{verifier: verifier, session: session}
}

// VerifyCredentialsRequest is the login request body.
type VerifyCredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyCredentials submits the credentials to the remote login form
// and reports the classified outcome.
// @Router /api/verify-credentials [post]
func (ac *AuthController) VerifyCredentials(c *gin.Context) {
	var req VerifyCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "Email and password required", err)
		return
	}

	result, err := ac.verifier.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		utils.InternalServerError(c, "Login failed: "+err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status reports whether the session is logged in and a browser is
// running.
// @Router /api/status [get]
func (ac *AuthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isLoggedIn":    ac.session.IsLoggedIn(),
		"browserActive": ac.session.BrowserActive(),
	})
}

// Logout closes the browser session and clears login state.
// @Router /api/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.session.Close(); err != nil {
		utils.InternalServerError(c, "Logout failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
