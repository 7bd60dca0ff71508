package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/store"
)

const defaultPageSize = 100

// ListRecords returns a filtered page of a category's catalog.
// GET /api/catalog/:category?manufacturer=&q=&limit=&offset=
func (h *Handler) ListRecords(c *gin.Context) {
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
		c.JSON(http.StatusOK, gin.H{
			"category":    cat.Name,
			"title":       cat.Title,
			"columns":     []string{},
			"records":     []model.Record{},
			"total":       0,
			"needsIngest": true,
		})
		return
	}

	opts := store.QueryOptions{
		Manufacturer: c.Query("manufacturer"),
		Search:       c.Query("q"),
		Limit:        queryInt(c, "limit", defaultPageSize),
		Offset:       queryInt(c, "offset", 0),
	}

	total, err := st.CountRows(cat, store.QueryOptions{
		Manufacturer: opts.Manufacturer,
		Search:       opts.Search,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	records, columns, err := st.ReadAll(cat, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []model.Record{}
	}

	c.JSON(http.StatusOK, gin.H{
		"category":    cat.Name,
		"title":       cat.Title,
		"columns":     columns,
		"records":     records,
		"total":       total,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
		"needsIngest": false,
	})
}

// ListManufacturers returns the distinct manufacturers of a category.
// GET /api/catalog/:category/manufacturers
func (h *Handler) ListManufacturers(c *gin.Context) {
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
		c.JSON(http.StatusOK, gin.H{"manufacturers": []string{}, "needsIngest": true})
		return
	}

	has, err := st.HasColumn(cat.Table, cat.ManufacturerField)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !has {
		c.JSON(http.StatusOK, gin.H{"manufacturers": []string{}, "needsIngest": false})
		return
	}

	values, err := st.Distinct(cat.Table, cat.ManufacturerField)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"manufacturers": values, "needsIngest": false})
}

// CompareRecords returns the records addressed by a comma-separated list of
// identifiers, for side-by-side comparison.
// GET /api/catalog/:category/compare?ids=a,b,c
func (h *Handler) CompareRecords(c *gin.Context) {
	cat, ok := h.categoryParam(c)
	if !ok {
		return
	}

	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids parameter is required"})
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
		c.JSON(http.StatusOK, gin.H{
			"category":    cat.Name,
			"columns":     []string{},
			"records":     []model.Record{},
			"needsIngest": true,
		})
		return
	}

	records, columns, err := st.ReadAll(cat, store.QueryOptions{IDs: ids})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []model.Record{}
	}

	c.JSON(http.StatusOK, gin.H{
		"category":    cat.Name,
		"columns":     columns,
		"records":     records,
		"needsIngest": false,
	})
}

// queryInt parses an integer query parameter, ignoring junk.
func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// splitIDs splits a comma-separated identifier list, dropping blanks.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
