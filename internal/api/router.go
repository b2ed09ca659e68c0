package api

import (
	"go-deal-recon/internal/api/handler"
	"go-deal-recon/pkg/router"
)

// RegisterRoutes wires the reconciliation endpoints onto the router.
func RegisterRoutes(r *router.Router, h *handler.Recon) {
	r.POST("/api/v1/compare", h.Compare)
	r.GET("/api/v1/compare/:token/excel", h.ExportExcel)
	r.GET("/api/v1/compare/:token/csv", h.ExportCSV)
	r.GET("/api/v1/compare/:token/pdf", h.ExportPDF)

	r.POST("/api/v1/process", h.Process)
	r.GET("/api/v1/analyses", h.ListAnalyses)

	r.GET("/health", h.Health)
}
