package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"peak-tracker/internal/domain"
	"peak-tracker/internal/repository"
)

// PeakHandler mantiene dependencias para los endpoints de cumbres.
type PeakHandler struct {
	logger *zap.Logger
	users  repository.UserRepository
	peaks  repository.PeakRepository
}

// NewPeakHandler crea una instancia de PeakHandler con dependencias necesarias.
func NewPeakHandler(logger *zap.Logger, users repository.UserRepository, peaks repository.PeakRepository) *PeakHandler {
	return &PeakHandler{
		logger: logger,
		users:  users,
		peaks:  peaks,
	}
}

// ListPeaks maneja GET /peaks.
func (h *PeakHandler) ListPeaks(c *gin.Context) {
	owner, ok := h.currentUser(c)
	if !ok {
		return
	}

	peaks, err := h.peaks.ListByOwner(c.Request.Context(), owner.ID)
	if err != nil {
		h.logger.Error("list peaks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list peaks"})
		return
	}
	if peaks == nil {
		peaks = []domain.Peak{}
	}

	c.JSON(http.StatusOK, gin.H{"peaks": peaks})
}

// CreatePeak maneja POST /peaks.
func (h *PeakHandler) CreatePeak(c *gin.Context) {
	owner, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name       string     `json:"name" binding:"required"`
		ElevationM int        `json:"elevation_m" binding:"required"`
		ClimbedAt  *time.Time `json:"climbed_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create peak request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	climbedAt := time.Now().UTC()
	if req.ClimbedAt != nil {
		climbedAt = req.ClimbedAt.UTC()
	}

	peak, err := h.peaks.Create(c.Request.Context(), domain.Peak{
		OwnerID:    owner.ID,
		Name:       req.Name,
		ElevationM: req.ElevationM,
		ClimbedAt:  climbedAt,
	})
	if err != nil {
		h.logger.Error("create peak failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create peak"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"peak": peak})
}

// currentUser resuelve el usuario autenticado a partir de los claims del token.
func (h *PeakHandler) currentUser(c *gin.Context) (domain.User, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return domain.User{}, false
	}

	user, err := h.users.GetByEmail(c.Request.Context(), claims.User.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return domain.User{}, false
		}
		h.logger.Error("resolve current user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve user"})
		return domain.User{}, false
	}
	return user, true
}
