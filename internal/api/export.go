package api

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/store"
)

// ExportCSV streams the category's catalog as a CSV download, honoring the
// same filters as the list endpoint. NULL values export as empty cells.
// GET /api/catalog/:category/export?manufacturer=&q=
func (h *Handler) ExportCSV(c *gin.Context) {
	cat, ok := h.categoryParam(c)
	if !ok {
		return
	}

	st, err := h.storeFor(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	exists, err := st.TableExists(cat.Table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog is empty, ingest first"})
		return
	}

	records, columns, err := st.ReadAll(cat, store.QueryOptions{
		Manufacturer: c.Query("manufacturer"),
		Search:       c.Query("q"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", cat.Name))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(columns); err != nil {
		return
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = v
		}
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}
