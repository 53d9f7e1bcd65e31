package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nominadocs/payslip-server/internal/model"
)

// ImportDryRun classifies an uploaded roster without applying it.
func (h *Handler) ImportDryRun(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster file missing (field: file)"})
		return
	}
	defer file.Close()

	report, err := h.importSvc.DryRun(c.Request.Context(), header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"mode":           "dry-run",
		"total":          report.Total,
		"willInsert":     report.WillInsert,
		"willUpdate":     report.WillUpdate,
		"willDeactivate": report.WillDeactivate,
		"invalid":        report.Invalid,
		"preview":        report.Preview,
	})
}

// ImportCommit applies an uploaded roster atomically.
func (h *Handler) ImportCommit(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster file missing (field: file)"})
		return
	}
	defer file.Close()

	report, err := h.importSvc.Commit(c.Request.Context(), header.Filename, file)
	if err != nil {
		var commitErr *model.CommitError
		if errors.As(err, &commitErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": commitErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "applied": report})
}
