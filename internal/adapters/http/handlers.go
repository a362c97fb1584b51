package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callbridge/internal/app"
	"callbridge/internal/app/orch"
	"callbridge/internal/domain"
)

type Handlers struct {
	Orch *orch.Orchestrator
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) CreateRoom(c *gin.Context) {
	code := h.Orch.Rooms.Create()
	c.JSON(http.StatusOK, gin.H{"roomCode": code})
}

func (h *Handlers) CheckRoom(c *gin.Context) {
	c.JSON(http.StatusOK, h.Orch.Rooms.Check(c.Param("code")))
}

type initiateRequest struct {
	CallerID      string          `json:"callerId"`
	ReceiverID    string          `json:"receiverId"`
	OrderTracking string          `json:"orderTrackingId"`
	CallerName    string          `json:"callerName"`
	CallType      domain.CallType `json:"callType"`
}

func (h *Handlers) InitiateCall(c *gin.Context) {
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CallerID == "" || req.ReceiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "callerId and receiverId are required"})
		return
	}

	sess, cred, err := h.Orch.InitiateCall(
		domain.ParticipantID(req.CallerID),
		domain.ParticipantID(req.ReceiverID),
		app.InitiateMeta{
			CallType:      req.CallType,
			CallerName:    req.CallerName,
			OrderTracking: req.OrderTracking,
		},
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "mediaCredential": cred})
}

type actorRequest struct {
	UserID string `json:"userId"`
}

func (h *Handlers) AcceptCall(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	sess, cred, err := h.Orch.AcceptCall(c.Param("callId"), domain.ParticipantID(req.UserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "mediaCredential": cred})
}

func (h *Handlers) RejectCall(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if err := h.Orch.RejectCall(c.Param("callId"), domain.ParticipantID(req.UserID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) EndCall(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if err := h.Orch.EndCall(c.Param("callId"), domain.ParticipantID(req.UserID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// writeError maps the app error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrReceiverUnreachable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrParticipantBusy),
		errors.Is(err, app.ErrInvalidTransition),
		errors.Is(err, app.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
