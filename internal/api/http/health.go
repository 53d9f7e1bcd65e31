package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping is a liveness probe.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "where": "/api"})
}

// DBTest probes data store reachability.
func (h *Handler) DBTest(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{"dbConnected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dbConnected": true})
}

// Normalize runs a storage reconciliation pass and returns the summary.
func (h *Handler) Normalize(c *gin.Context) {
	summary, err := h.normalizeSvc.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}
