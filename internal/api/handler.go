package api

import (
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/ingest"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/store"
)

// Handler serves the catalog browse API. It is read-only relative to the
// upsert engine, except for the explicit ingestion triggers.
type Handler struct {
	dataDir string
	runner  *ingest.Runner

	mu     sync.Mutex
	stores map[string]*store.Store
}

// NewHandler builds the API handler.
func NewHandler(dataDir string, runner *ingest.Runner) *Handler {
	return &Handler{
		dataDir: dataDir,
		runner:  runner,
		stores:  make(map[string]*store.Store),
	}
}

// RegisterRoutes attaches the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/categories", h.ListCategories)

	router.GET("/catalog/:category", h.ListRecords)
	router.GET("/catalog/:category/manufacturers", h.ListManufacturers)
	router.GET("/catalog/:category/compare", h.CompareRecords)
	router.GET("/catalog/:category/export", h.ExportCSV)

	router.POST("/catalog/:category/ingest", h.TriggerIngest)
	router.POST("/ingest", h.TriggerIngestAll)
}

// Close releases the cached store connections.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.stores {
		s.Close()
	}
	h.stores = make(map[string]*store.Store)
}

// storeFor lazily opens (and caches) the category's store.
func (h *Handler) storeFor(cat model.Category) (*store.Store, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.stores[cat.Name]; ok {
		return s, nil
	}
	s, err := store.Open(filepath.Join(h.dataDir, cat.Name+".db"))
	if err != nil {
		return nil, err
	}
	h.stores[cat.Name] = s
	return s, nil
}

// categoryParam resolves the :category path parameter, answering 404 for
// unknown categories.
func (h *Handler) categoryParam(c *gin.Context) (model.Category, bool) {
	name := c.Param("category")
	cat, ok := model.CategoryByName(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + name})
		return model.Category{}, false
	}
	return cat, true
}

type categoryStatus struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Rows        int    `json:"rows"`
	NeedsIngest bool   `json:"needsIngest"`
}

// GetStatus reports per-category row counts.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	statuses, err := h.categoryStatuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"categories": statuses,
	})
}

// ListCategories returns category metadata and counts.
// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	statuses, err := h.categoryStatuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": statuses})
}

func (h *Handler) categoryStatuses() ([]categoryStatus, error) {
	var statuses []categoryStatus
	for _, cat := range model.Categories() {
		st, err := h.storeFor(cat)
		if err != nil {
			return nil, err
		}
		status := categoryStatus{Name: cat.Name, Title: cat.Title, NeedsIngest: true}
		exists, err := st.TableExists(cat.Table)
		if err != nil {
			return nil, err
		}
		if exists {
			count, err := st.CountRows(cat, store.QueryOptions{})
			if err != nil {
				return nil, err
			}
			status.Rows = count
			status.NeedsIngest = count == 0
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
