// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kaoqin/kaoqin/pkg/engine"
	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// HourlyReportRequest 计时考勤月报请求
type HourlyReportRequest struct {
	Employee *model.Employee `json:"employee"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Punches  []time.Time     `json:"punches"`
}

// HourlyReportResponse 计时考勤月报响应
type HourlyReportResponse struct {
	Success bool                `json:"success"`
	Data    *engine.HourlyMonth `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// HourlyReportHandler 计时考勤月报API
// 按打卡对计算工时并按员工时薪计算应发金额，用于无固定班次的员工
func HourlyReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req HourlyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Employee == nil {
		sendJSONError(w, "员工信息缺失", http.StatusBadRequest)
		return
	}

	logger.Info().
		Str("employee", req.Employee.Code).
		Int("year", req.Year).
		Int("month", req.Month).
		Int("punches", len(req.Punches)).
		Msg("接收计时考勤月报请求")

	cfg := engine.DefaultConfig()
	calc := engine.NewHourlyCalculator(&cfg)

	report, err := calc.MonthlyAttendance(req.Employee, req.Year, req.Month, req.Punches)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HourlyReportResponse{
		Success: true,
		Data:    report,
	})
}
