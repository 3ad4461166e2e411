package reports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type Handler struct {
	service   *ReportService
	snapshots *SnapshotRepository
	exporter  *SheetsExporter
}

// NewHandler accepts a nil exporter; the export endpoint then reports
// the integration as unconfigured instead of failing at startup.
func NewHandler(service *ReportService, snapshots *SnapshotRepository, exporter *SheetsExporter) *Handler {
	return &Handler{
		service:   service,
		snapshots: snapshots,
		exporter:  exporter,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/reports/valuation", security.Authorize(roles.Viewer), h.GetValuationReport)
	router.POST("/reports/valuation/export", security.Authorize(roles.Manager), h.ExportValuationReport)
	router.GET("/reports/valuation/snapshots/:assetId", security.Authorize(roles.Viewer), h.GetSnapshots)
}

func (h *Handler) GetValuationReport(c *gin.Context) {
	asOf := time.Now()
	if rawAsOf := c.Query("as_of"); rawAsOf != "" {
		parsed, err := time.Parse("2006-01-02", rawAsOf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid as_of date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.service.BuildValuationReport(asOf)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build valuation report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) ExportValuationReport(c *gin.Context) {
	if h.exporter == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Sheets export is not configured"})
		return
	}

	asOf := time.Now()
	if rawAsOf := c.Query("as_of"); rawAsOf != "" {
		parsed, err := time.Parse("2006-01-02", rawAsOf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid as_of date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.service.BuildValuationReport(asOf)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build valuation report", "details": err.Error()})
		return
	}

	if err := h.exporter.Export(report); err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Unable to export valuation report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Valuation report exported",
		"as_of":   report.AsOf.Format("2006-01-02"),
		"rows":    len(report.Lines),
	})
}

func (h *Handler) GetSnapshots(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("assetId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	snapshots, err := h.snapshots.GetSnapshots(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list snapshots", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
