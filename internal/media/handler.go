package media

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cinelist/pkg/models"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterCategoryRoutes mounts the per-category catalog endpoints on their
// own groups (/movies, /series, /anime).
func (h *Handler) RegisterCategoryRoutes(movies, series, anime *gin.RouterGroup) {
	movies.GET("", h.popular(h.Svc.PopularMovies))
	movies.POST("/search", h.search(h.Svc.SearchMovies))

	series.GET("", h.popular(h.Svc.PopularSeries))
	series.POST("/search", h.search(h.Svc.SearchSeries))

	anime.GET("", h.popular(h.Svc.PopularAnime))
	anime.POST("/search", h.search(h.Svc.SearchAnime))
}

// RegisterCombinedRoutes mounts the cross-category feed and search on /media.
func (h *Handler) RegisterCombinedRoutes(rg *gin.RouterGroup) {
	rg.GET("/popular", h.popular(h.Svc.PopularAll))
	rg.POST("/search", h.search(h.Svc.SearchAll))
}

type searchRequest struct {
	Name string `json:"name"`
}

func (h *Handler) popular(fetch func(context.Context) ([]models.Media, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fetch(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"detail": "provider unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": items})
	}
}

func (h *Handler) search(fetch func(context.Context, string) ([]models.Media, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "name is required"})
			return
		}
		items, err := fetch(c.Request.Context(), name)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"detail": "provider unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": items})
	}
}
