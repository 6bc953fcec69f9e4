package lists

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

// RegisterRoutes mounts the list endpoints. The route shapes (POST for reads
// with a JSON body, /listas naming) follow the contract the web client
// already speaks.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/listas/create", h.create)
	rg.POST("/listas/get", h.get)
	rg.POST("/listas/user/get", h.listByUser)
	rg.DELETE("/listas/delete", h.deleteList)
	rg.POST("/listas/item/add", h.addItem)
	rg.DELETE("/listas/item/delete", h.removeItem)
}

type createReq struct {
	Name        string `json:"nome"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "list name is required"})
		return
	}

	l, err := h.Repo.CreateList(c.Request.Context(), claims.UserID, name, strings.TrimSpace(req.Description))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "create failed"})
		return
	}

	h.broadcast(sync.Event{
		Type:   sync.EventListCreate,
		UserID: claims.UserID,
		ListID: l.ID,
		At:     time.Now().UTC(),
	})
	c.JSON(http.StatusCreated, l)
}

type listRef struct {
	ListID int64 `json:"lista_id"`
}

func (h *Handler) get(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req listRef
	if err := c.ShouldBindJSON(&req); err != nil || req.ListID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "lista_id is required"})
		return
	}

	l, err := h.Repo.GetList(c.Request.Context(), req.ListID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "get failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "list not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

type userRef struct {
	UserID string `json:"user_id"`
}

// listByUser returns a user's lists. The body may name any user_id so
// profile pages can show someone else's collections; with no body (or no
// user_id) it falls back to the caller.
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
	c.JSON(http.StatusOK, out)
}

func (h *Handler) deleteList(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req listRef
	if err := c.ShouldBindJSON(&req); err != nil || req.ListID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "lista_id is required"})
		return
	}

	l, err := h.Repo.GetList(c.Request.Context(), req.ListID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "get failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "list not found"})
		return
	}
	if l.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not own this list"})
		return
	}

	if _, err := h.Repo.DeleteList(c.Request.Context(), req.ListID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete failed"})
		return
	}

	h.broadcast(sync.Event{
		Type:   sync.EventListDelete,
		UserID: claims.UserID,
		ListID: req.ListID,
		At:     time.Now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type addItemReq struct {
	ListID int64 `json:"lista_id"`
	models.Media
}

func (h *Handler) addItem(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.ListID <= 0 || req.ID == 0 || !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "lista_id, id and media_type are required"})
		return
	}

	l, err := h.Repo.GetList(c.Request.Context(), req.ListID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "get failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "list not found"})
		return
	}
	if l.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not own this list"})
		return
	}

	it, err := h.Repo.AddItem(c.Request.Context(), req.ListID, req.Media)
	if err != nil {
		if err == ErrDuplicateItem {
			c.JSON(http.StatusConflict, gin.H{"detail": "item already in this list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "add failed"})
		return
	}

	h.broadcast(sync.Event{
		Type:      sync.EventListItemAdd,
		UserID:    claims.UserID,
		ListID:    req.ListID,
		MediaID:   it.MediaID,
		MediaType: it.MediaType,
		At:        time.Now().UTC(),
	})
	c.JSON(http.StatusCreated, it)
}

type removeItemReq struct {
	ListID    int64            `json:"lista_id"`
	MediaID   int64            `json:"media_id"`
	MediaType models.MediaType `json:"media_type"`
}

func (h *Handler) removeItem(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var req removeItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.ListID <= 0 || req.MediaID == 0 || !req.MediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "lista_id, media_id and media_type are required"})
		return
	}

	l, err := h.Repo.GetList(c.Request.Context(), req.ListID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "get failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "list not found"})
		return
	}
	if l.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not own this list"})
		return
	}

	ok, err := h.Repo.RemoveItem(c.Request.Context(), req.ListID, req.MediaID, req.MediaType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "remove failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "item not in this list"})
		return
	}

	h.broadcast(sync.Event{
		Type:      sync.EventListItemRemove,
		UserID:    claims.UserID,
		ListID:    req.ListID,
		MediaID:   req.MediaID,
		MediaType: req.MediaType,
		At:        time.Now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (h *Handler) broadcast(ev sync.Event) {
	if h.Hub != nil {
		go h.Hub.BroadcastJSON(ev)
	}
}
