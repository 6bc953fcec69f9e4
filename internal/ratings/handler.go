package ratings

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cinelist/internal/auth"
	"cinelist/internal/sync"
	"cinelist/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rate", h.create)
	rg.PUT("/rate/update", h.update)
	rg.DELETE("/rate/delete", h.remove)
	rg.POST("/rate/user/get", h.listByUser)
}

type rateReq struct {
	MediaID    int64            `json:"media_id"`
	MediaType  models.MediaType `json:"media_type"`
	Title      string           `json:"title"`
	PosterPath *string          `json:"poster_path"`
	Score      *float64         `json:"rating"`
	Comment    string           `json:"comment"`
}

// validate checks the identity and score fields shared by create and update.
// Score is a pointer so an absent field is told apart from a literal zero.
func (req *rateReq) validate() string {
	if req.MediaID == 0 || !req.MediaType.Valid() {
		return "media_id and media_type are required"
	}
	if req.Score == nil {
		return "rating is required"
	}
	if *req.Score < 0 || *req.Score > 10 {
		return "rating must be between 0 and 10"
	}
	return ""
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msg})
		return
	}

	rt, err := h.Repo.Create(c.Request.Context(), models.Rating{
		UserID:     claims.UserID,
		MediaID:    req.MediaID,
		MediaType:  req.MediaType,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		Score:      *req.Score,
		Comment:    req.Comment,
	})
	if err != nil {
		if err == ErrDuplicateRating {
			c.JSON(http.StatusConflict, gin.H{"detail": "media already rated, use update or delete instead"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "rate failed"})
		return
	}

	h.broadcast(sync.EventRatingCreate, claims.UserID, rt.MediaID, rt.MediaType)
	c.JSON(http.StatusCreated, rt)
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msg})
		return
	}

	rt, err := h.Repo.Update(c.Request.Context(), claims.UserID, req.MediaID, req.MediaType, *req.Score, req.Comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "update failed"})
		return
	}
	if rt == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "rating not found"})
		return
	}

	h.broadcast(sync.EventRatingUpdate, claims.UserID, rt.MediaID, rt.MediaType)
	c.JSON(http.StatusOK, rt)
}

type deleteReq struct {
	MediaID   int64            `json:"media_id"`
	MediaType models.MediaType `json:"media_type"`
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req deleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.MediaID == 0 || !req.MediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "media_id and media_type are required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, req.MediaID, req.MediaType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "rating not found"})
		return
	}

	h.broadcast(sync.EventRatingDelete, claims.UserID, req.MediaID, req.MediaType)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type userRef struct {
	UserID string `json:"user_id"`
}

// listByUser returns a user's ratings, the caller's when the body names no
// user_id. Ratings are public reads, like lists.
func (h *Handler) listByUser(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req userRef
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = claims.UserID
	}

	out, err := h.Repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (h *Handler) broadcast(evType string, userID string, mediaID int64, mediaType models.MediaType) {
	if h.Hub != nil {
		go h.Hub.BroadcastJSON(sync.Event{
			Type:      evType,
			UserID:    userID,
			MediaID:   mediaID,
			MediaType: mediaType,
			At:        time.Now().UTC(),
		})
	}
}
