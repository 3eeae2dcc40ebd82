package accounts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/server/middleware"
	"resume-parser-backend/internal/shared/server/respond"
)

// Handler serves signup, login, the protected probe, and Google token
// exchange.
type Handler struct {
	Service  *Service
	Verifier *GoogleVerifier
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.Service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "Name, email and password are required")
		case errors.Is(err, ErrDuplicateEmail):
			respond.Error(c, http.StatusBadRequest, "Email already registered")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    account.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, _, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}
	respond.OK(c, gin.H{"token": token})
}

// Protected handles GET /protected: it echoes the authenticated user's
// record. Auth itself happens in the RequireAuth middleware.
func (h *Handler) Protected(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	account, err := h.Service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to load account")
		return
	}
	respond.OK(c, gin.H{"user": account.Public()})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken handles POST /api/verify-token: Google ID token in,
// application token out.
func (h *Handler) VerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		respond.Error(c, http.StatusBadRequest, "Token is required")
		return
	}

	token, account, err := h.Verifier.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, ErrGoogleTokenInvalid) {
			respond.Error(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Token verification failed")
		return
	}
	respond.OK(c, gin.H{"token": token, "user": account.Public()})
}
