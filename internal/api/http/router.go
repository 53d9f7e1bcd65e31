// Package http exposes the service over a JSON + multipart HTTP API.
package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/service"
)

// Pinger reports data store reachability for the dbtest endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	importSvc    *service.Import
	payslipSvc   *service.Payslip
	normalizeSvc *service.Normalize
	db           Pinger
	logger       *logger.Logger
}

func NewHandler(
	importSvc *service.Import,
	payslipSvc *service.Payslip,
	normalizeSvc *service.Normalize,
	db Pinger,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		importSvc:    importSvc,
		payslipSvc:   payslipSvc,
		normalizeSvc: normalizeSvc,
		db:           db,
		logger:       logger,
	}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router(publicDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))

	api := r.Group("/api")
	{
		api.GET("/ping", h.Ping)
		api.GET("/dbtest", h.DBTest)

		api.POST("/users/import/dry-run", h.ImportDryRun)
		api.POST("/users/import/commit", h.ImportCommit)

		api.POST("/upload", h.Upload)
		api.POST("/upload/batch", h.UploadBatch)

		api.GET("/recibos", h.ListPayslips)
		api.GET("/recibos/by-cedula", h.ListPayslipsByCedula)
		api.GET("/recibos/:id/pdf", h.DownloadPayslip)

		api.POST("/admin/normalize", h.Normalize)
	}

	if publicDir != "" {
		r.Static("/public", publicDir)
	}

	return r
}
