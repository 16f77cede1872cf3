package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lifepulse/internal/domain"
)

// trackingExportHeader 导出表头
var trackingExportHeader = []string{
	"Timestamp",
	"Metric",
	"Value",
	"Notes",
}

// Export GET /api/health-tracking/export?metric=&timeRange=
// 导出当前用户打点记录为 XLSX，筛选参数与列表接口一致。
func (h *TrackingHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "all"
	}
	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = "week"
	}

	entries, err := h.storage.ListHealthTracking(r.Context(), userID, metric, timeRange)
	if err != nil {
		h.logger.Error("Failed to load tracking data for export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload, err := generateTrackingExcel(entries)
	if err != nil {
		h.logger.Error("Failed to build tracking export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := fmt.Sprintf("health-tracking-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// generateTrackingExcel 生成打点记录 Excel 文件
func generateTrackingExcel(entries []domain.HealthTracking) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Health Tracking"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range trackingExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{22, 16, 14, 30}
	for i := range trackingExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, entry := range entries {
		row := rowIdx + 2
		values := []any{
			entry.Timestamp.Format(time.RFC3339),
			entry.Type,
			entry.Value,
			entry.Notes,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}
	return buf.Bytes(), nil
}
