package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"peak-tracker/internal/domain"
	"peak-tracker/internal/service"
)

// SessionHandler mantiene dependencias para los endpoints de sesión.
type SessionHandler struct {
	logger      *zap.Logger
	sessionServ *service.SessionService
}

// NewSessionHandler crea una instancia de SessionHandler con dependencias necesarias.
func NewSessionHandler(logger *zap.Logger, sessionServ *service.SessionService) *SessionHandler {
	return &SessionHandler{
		logger:      logger,
		sessionServ: sessionServ,
	}
}

// SignUp maneja POST /sign-up.
func (h *SessionHandler) SignUp(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sign-up request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	creds := domain.SignupCredentials{Email: req.Email, Password: req.Password}
	if verr := creds.Validate(); verr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.Message})
		return
	}

	user, err := h.sessionServ.SignUp(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Email already taken"})
			return
		}
		h.logger.Error("sign-up failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign up"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"email": user.Email, "uuid": user.UUID})
}

// Login maneja POST /login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.sessionServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

// Refresh maneja POST /refresh.
func (h *SessionHandler) Refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	refreshed, err := h.sessionServ.Refresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": refreshed})
}

// FacebookLogin maneja POST /auth/facebook.
func (h *SessionHandler) FacebookLogin(c *gin.Context) {
	var req struct {
		AccessToken string `json:"accessToken"`
		Email       string `json:"email"`
		UserID      string `json:"userID"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid facebook login request", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Facebook login error"})
		return
	}

	token, err := h.sessionServ.FacebookLogin(c.Request.Context(), service.FacebookAssertion{
		AccessToken: req.AccessToken,
		Email:       req.Email,
		UserID:      req.UserID,
	})
	if err != nil {
		if errors.Is(err, service.ErrFacebookLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Facebook login error"})
			return
		}
		h.logger.Error("facebook login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

// bearerToken extrae el token del header Authorization.
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(header[len("Bearer "):]), true
}
