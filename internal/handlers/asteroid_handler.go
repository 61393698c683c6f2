package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AsteroidHandler struct {
	asteroids  service.AsteroidService
	importer   service.ImportService
	indicators service.IndicatorService
	exporter   service.ExportService
	log        logger.Logger
	now        func() time.Time
}

func NewAsteroidHandler(
	asteroids service.AsteroidService,
	importer service.ImportService,
	indicators service.IndicatorService,
	exporter service.ExportService,
	log logger.Logger,
) *AsteroidHandler {
	return &AsteroidHandler{
		asteroids:  asteroids,
		importer:   importer,
		indicators: indicators,
		exporter:   exporter,
		log:        log,
		now:        time.Now,
	}
}

type importRequest struct {
	ImportDate *string `json:"import_date"`
}

// ListAsteroids returns every stored record in ascending id order.
func (h *AsteroidHandler) ListAsteroids(c *gin.Context) {
	asteroids, err := h.asteroids.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list asteroids", err)
		return
	}

	c.JSON(http.StatusOK, asteroids)
}

// ImportAsteroids runs one import for the requested day, today by default.
func (h *AsteroidHandler) ImportAsteroids(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}

	// Only an absent import_date defaults to today; a present one must parse.
	date := service.Today(h.now())
	if req.ImportDate != nil {
		parsed, err := service.ParseDate(*req.ImportDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format. Use YYYY-MM-DD.",
			})
			return
		}
		date = parsed
	}

	result, err := h.importer.Import(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, clients.ErrFeedUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to fetch data from the NASA API: %v", err),
			})
			return
		}
		h.internalError(c, "failed to import asteroids", err)
		return
	}

	if result.HasErrors() {
		c.JSON(http.StatusMultiStatus, gin.H{
			"message":        fmt.Sprintf("%d asteroids imported successfully, but some entries failed:", result.AcceptedCount),
			"accepted_count": result.AcceptedCount,
			"errors":         result.Errors,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        fmt.Sprintf("%d asteroids imported successfully!", result.AcceptedCount),
		"accepted_count": result.AcceptedCount,
	})
}

func (h *AsteroidHandler) GetIndicators(c *gin.Context) {
	indicators, err := h.indicators.GetIndicators(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to compute indicators", err)
		return
	}

	c.JSON(http.StatusOK, indicators)
}

func (h *AsteroidHandler) GetAsteroid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "asteroid not found"})
		return
	}

	asteroid, err := h.asteroids.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asteroid not found"})
			return
		}
		h.internalError(c, "failed to load asteroid", err)
		return
	}

	c.JSON(http.StatusOK, asteroid)
}

// ExportAsteroids streams the stored collection as a CSV or XLSX download.
func (h *AsteroidHandler) ExportAsteroids(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	file, err := h.exporter.Export(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "failed to export asteroids", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// internalError logs err and answers with a generic message.
func (h *AsteroidHandler) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
