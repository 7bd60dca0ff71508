package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/ingest"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

// TriggerIngest runs one ingestion synchronously for a category. An
// explicit API trigger always runs; the populated-database guard applies
// only to the batch orchestrator.
// POST /api/catalog/:category/ingest
func (h *Handler) TriggerIngest(c *gin.Context) {
	cat, ok := h.categoryParam(c)
	if !ok {
		return
	}

	report := h.runner.Run(c.Request.Context(), cat)
	status := http.StatusOK
	if report.Status == "error" {
		status = http.StatusBadGateway
	}
	c.JSON(status, report)
}

// TriggerIngestAll runs ingestion for every category and reports each
// outcome. The response is 200 as long as the runs completed; per-category
// failures show up in the individual reports.
// POST /api/ingest
func (h *Handler) TriggerIngestAll(c *gin.Context) {
	reports := h.runner.RunAll(c.Request.Context(), model.Categories(), ingest.Options{Force: true})
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
