package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/service"
)

// maxBatchFiles caps one batch upload request.
const maxBatchFiles = 125

// Upload stores a single payslip file.
func (h *Handler) Upload(c *gin.Context) {
	year, month, fortnight, ok := parsePeriod(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	defer file.Close()

	result, err := h.payslipSvc.Upload(c.Request.Context(), service.UploadParams{
		Cedula:      c.PostForm("cedula"),
		PeriodYear:  year,
		PeriodMonth: month,
		Fortnight:   fortnight,
		FileName:    header.Filename,
		Data:        file,
		Note:        "API upload",
	})
	if err != nil {
		if errors.Is(err, model.ErrInactiveEmployee) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": result.FileName,
		"path":     result.RelativePath,
		"db":       gin.H{"id": result.ID, "version": result.Version},
	})
}

// UploadBatch stores several payslips for one period in a single request.
func (h *Handler) UploadBatch(c *gin.Context) {
	year, month, fortnight, ok := parsePeriod(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files"})
		return
	}
	if len(fileHeaders) > maxBatchFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many files, max %d", maxBatchFiles)})
		return
	}

	files := make([]service.BatchFile, 0, len(fileHeaders))
	var readers []io.Closer
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to open %s: %v", fh.Filename, err)})
			return
		}
		readers = append(readers, f)
		files = append(files, service.BatchFile{Name: fh.Filename, Data: f})
	}

	result := h.payslipSvc.UploadBatch(c.Request.Context(), year, month, fortnight, c.PostForm("cedula"), files)
	c.JSON(http.StatusOK, result)
}

// ListPayslips returns the raw payslip rows for a cedula.
func (h *Handler) ListPayslips(c *gin.Context) {
	cedula := c.Query("cedula")
	if cedula == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cedula query parameter required"})
		return
	}

	payslips, err := h.payslipSvc.ListByCedula(c.Request.Context(), cedula)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": payslips})
}

// ListPayslipsByCedula returns the formatted listing consumed by the
// employee-facing UI.
func (h *Handler) ListPayslipsByCedula(c *gin.Context) {
	cedula := c.Query("cedula")

	payslips, err := h.payslipSvc.ListByCedula(c.Request.Context(), cedula)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(payslips))
	for _, p := range payslips {
		items = append(items, gin.H{
			"id":          p.ID,
			"cedula":      p.Cedula,
			"period":      service.FormatPeriod(p),
			"year":        p.PeriodYear,
			"month":       p.PeriodMonth,
			"fortnight":   p.Fortnight,
			"fileName":    p.FileName,
			"sizeBytes":   p.FileSizeBytes,
			"version":     p.Version,
			"uploadedAt":  p.UploadedAt,
			"downloadUrl": fmt.Sprintf("/api/recibos/%d/pdf", p.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "cedula": cedula, "count": len(items), "items": items})
}

// DownloadPayslip streams one stored payslip file.
func (h *Handler) DownloadPayslip(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	p, f, err := h.payslipSvc.Open(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.FileName))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		h.logger.Error("failed to stream payslip", "id", id, "error", err)
	}
}

// parsePeriod validates the shared periodYear/periodMonth/fortnight form
// fields and writes the 400 response itself on failure.
func parsePeriod(c *gin.Context) (year, month int, fortnight *int, ok bool) {
	year, err := strconv.Atoi(c.PostForm("periodYear"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodYear"})
		return 0, 0, nil, false
	}
	month, err = strconv.Atoi(c.PostForm("periodMonth"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodMonth"})
		return 0, 0, nil, false
	}
	if raw := c.PostForm("fortnight"); raw != "" {
		f, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fortnight"})
			return 0, 0, nil, false
		}
		fortnight = &f
	}
	return year, month, fortnight, true
}
