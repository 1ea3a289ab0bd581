package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"flipquest/internal/catalog"
	"flipquest/internal/models"
	"flipquest/internal/queue"
	"flipquest/internal/session"
)

type Handler struct {
	game          *session.Manager
	catalog       *catalog.Catalog
	inbox         *queue.Inbox
	validate      *validator.Validate
	submitTimeout time.Duration
	logger        *logrus.Logger
}

type UpgradeRequest struct {
	Option *int `json:"option" validate:"required,min=0"`
}

type SubmissionRequest struct {
	Email      string `json:"email" validate:"required,email"`
	WantsTrial bool   `json:"wants_trial"`
}

func NewHandler(game *session.Manager, cat *catalog.Catalog, inbox *queue.Inbox, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if inbox == nil {
		inbox = queue.NewInbox()
	}

	return &Handler{
		game:     game,
		catalog:  cat,
		inbox:    inbox,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// SetSubmitTimeout bounds how long a submission request may wait on delivery.
// Zero leaves it to the client connection.
func (h *Handler) SetSubmitTimeout(d time.Duration) {
	h.submitTimeout = d
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"properties": h.catalog.Len(),
	})
}

func (h *Handler) GetAllProperties(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.All())
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id", "code": "INVALID_REQUEST"})
		return
	}

	property, ok := h.catalog.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found", "code": "NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) GetPropertyMap(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.FeatureCollection())
}

func (h *Handler) GetGame(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Snapshot())
}

func (h *Handler) BeginGame(c *gin.Context) {
	h.respond(c, "begin", h.game.Begin)
}

func (h *Handler) StartRenovation(c *gin.Context) {
	h.respond(c, "start renovation", h.game.StartRenovation)
}

func (h *Handler) GoBack(c *gin.Context) {
	h.respond(c, "go back", h.game.Back)
}

func (h *Handler) AdjustPlan(c *gin.Context) {
	h.respond(c, "adjust plan", h.game.AdjustPlan)
}

func (h *Handler) PlayAgain(c *gin.Context) {
	h.respond(c, "play again", h.game.PlayAgain)
}

func (h *Handler) SelectUpgrade(c *gin.Context) {
	room, err := models.ParseRoomType(c.Param("room"))
	if err != nil {
		h.writeError(c, "select upgrade", err)
		return
	}

	var req UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Failed to parse upgrade request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "INVALID_REQUEST"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err), "code": "INVALID_REQUEST"})
		return
	}

	view, err := h.game.AddUpgrade(room, *req.Option)
	if err != nil {
		h.writeError(c, "select upgrade", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveUpgrade(c *gin.Context) {
	room, err := models.ParseRoomType(c.Param("room"))
	if err != nil {
		h.writeError(c, "remove upgrade", err)
		return
	}

	view, err := h.game.RemoveUpgrade(room)
	if err != nil {
		h.writeError(c, "remove upgrade", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ShowResults(c *gin.Context) {
	view, unlocked, err := h.game.ShowResults()
	if err != nil {
		h.writeError(c, "show results", err)
		return
	}
	if unlocked == nil {
		unlocked = []models.Achievement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"game":     view,
		"unlocked": unlocked,
	})
}

func (h *Handler) SubmitResults(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Failed to parse submission request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "INVALID_REQUEST"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err), "code": "INVALID_EMAIL"})
		return
	}

	ctx := c.Request.Context()
	if h.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.submitTimeout)
		defer cancel()
	}

	view, err := h.game.Submit(ctx, req.Email, req.WantsTrial)
	if err != nil {
		h.writeError(c, "submit results", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Profile())
}

func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.inbox.Drain())
}

func (h *Handler) respond(c *gin.Context, action string, fn func() (session.View, error)) {
	view, err := fn()
	if err != nil {
		h.writeError(c, action, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
