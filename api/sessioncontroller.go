package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipforge/editor"
	"clipforge/session"
)

// CreateSessionRequest opens an edit session for a stored video.
type CreateSessionRequest struct {
	VideoKey string `json:"video_key" binding:"required"`
}

// RegisterSessionRoutes registers the edit session routes on the given group.
func RegisterSessionRoutes(rg *gin.RouterGroup, mgr *session.Manager) {
	rg.POST("", handleCreateSession(mgr))
	rg.GET("/:id", handleGetSession(mgr))
	rg.PUT("/:id/options", handleUpdateOptions(mgr))
	rg.POST("/:id/process", handleProcess(mgr))
	rg.DELETE("/:id", handleCloseSession(mgr))
}

func handleCreateSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sess, err := mgr.Create(c.Request.Context(), req.VideoKey)
		if err != nil {
			respondError(c, err)
			return
		}

		log.Printf("opened session %s for %s (%.2fs)", sess.ID, sess.VideoKey, sess.Duration)
		c.JSON(http.StatusCreated, sessionBody(sess))
	}
}

func handleGetSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := mgr.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}
		c.JSON(http.StatusOK, sessionBody(sess))
	}
}

func handleUpdateOptions(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := mgr.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}

		var raw editor.Options
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts, err := sess.UpdateOptions(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"options": opts})
	}
}

func handleProcess(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := mgr.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}

		// The run outlives the HTTP request; admission stays synchronous so
		// a refused request is refused before the 202 goes out.
		if err := sess.Claim(); err != nil {
			respondError(c, err)
			return
		}

		// context.Background: the run must not die with the HTTP request,
		// and once claimed it cannot be cancelled anyway.
		go func() {
			if _, err := sess.RunClaimed(context.Background()); err != nil {
				log.Printf("session %s processing failed: %v", sess.ID, err)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "processing started", "session_id": sess.ID})
	}
}

func handleCloseSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr.Close(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"status": "closed"})
	}
}

func sessionBody(sess *session.Session) gin.H {
	return gin.H{
		"id":           sess.ID,
		"video_key":    sess.VideoKey,
		"duration_sec": sess.Duration,
		"options":      sess.Options(),
		"processing":   sess.State(),
		"result_key":   sess.ResultKey(),
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, session.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	switch session.KindOf(err) {
	case session.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case session.KindResource:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case session.KindTransport, session.KindEngine:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
