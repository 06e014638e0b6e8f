package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/epasal/epasal-backend/internal/service"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Number   string `json:"number" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup stages an account and mails an OTP; the account is created once the
// code is verified.
func (a *API) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	temp, err := a.auth.BeginSignup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Number:   req.Number,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		case errors.Is(err, service.ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already exists"})
		default:
			a.log.Error().Err(err).Str("email", req.Email).Msg("signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"temp_id": temp.TempID})
}

type VerifyRequest struct {
	TempID string `json:"temp_id" binding:"required"`
}

func (a *API) VerifySignup(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.auth.Verify(c.Request.Context(), req.TempID); err != nil {
		if errors.Is(err, service.ErrInvalidTempID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp_id"})
			return
		}
		a.log.Error().Err(err).Msg("signup verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User verified and registered successfully"})
}

type LoginRequest struct {
	Email    string `json:"gmail" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *API) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		a.log.Error().Err(err).Str("email", req.Email).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"user_id":    session.UserID,
		"session_id": session.ID,
	})
}

func (a *API) Logout(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if err := a.auth.Logout(c.Request.Context(), sessionID); err != nil {
		a.log.Error().Err(err).Msg("logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *API) GetUserInfo(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	info, err := a.auth.UserInfo(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		a.log.Error().Err(err).Int("user_id", userID).Msg("user info failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, info)
}
