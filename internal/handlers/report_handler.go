package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"grillmaster-pos/internal/reports"
	"grillmaster-pos/internal/selectors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const (
	dateLayout = "2006-01-02"
	xlsxType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportData is the dashboard payload.
type ReportData struct {
	Stats      selectors.OrderStats     `json:"stats"`
	TopSelling []selectors.ProductSales `json:"top_selling"`
}

// --- GET: /api/reports?limit=5 ---
func (h *Handler) GetSalesReport(c *gin.Context) {
	s := h.Actions.Store().GetState()
	limit := cast.ToInt(c.Query("limit"))
	c.JSON(http.StatusOK, ReportData{
		Stats:      selectors.Stats(s, h.now()),
		TopSelling: selectors.TopProducts(s, limit),
	})
}

// --- GET: /api/reports/sales?start=2026-03-01&end=2026-03-14 ---
// Both dates are whole days in the terminal's time zone.
func (h *Handler) GetSalesRange(c *gin.Context) {
	loc := h.now().Location()
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}
	end = end.Add(24*time.Hour - time.Nanosecond)
	c.JSON(http.StatusOK, selectors.Sales(h.Actions.Store().GetState(), start, end))
}

// --- GET: /api/reports/categories ---
func (h *Handler) GetCategorySales(c *gin.Context) {
	c.JSON(http.StatusOK, selectors.CategorySales(h.Actions.Store().GetState()))
}

// --- GET: /api/reports/export ---
func (h *Handler) ExportWorkbook(c *gin.Context) {
	s := h.Actions.Store().GetState()
	name := fmt.Sprintf("sales-%s.xlsx", h.now().Format(dateLayout))

	// 1. Build the workbook in memory
	var buf bytes.Buffer
	if err := reports.WriteWorkbook(&buf, s.Orders, selectors.CategorySales(s)); err != nil {
		log.Errorf("Workbook export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	// 2. Send it as a download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxType, buf.Bytes())
}
