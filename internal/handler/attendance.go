// Package handler 提供API处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/internal/config"
	"github.com/kaoqin/kaoqin/internal/metrics"
	"github.com/kaoqin/kaoqin/internal/repository"
	"github.com/kaoqin/kaoqin/pkg/engine"
	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/stats"
	"github.com/kaoqin/kaoqin/pkg/validator"
)

// ProcessRequest 批量考勤处理请求
// 数据随请求内联提交；配置缺省时使用引擎默认值
type ProcessRequest struct {
	OrgID     string         `json:"org_id"`
	StartDate string         `json:"start_date"` // YYYY-MM-DD
	EndDate   string         `json:"end_date"`   // YYYY-MM-DD
	Config    *engine.Config `json:"config,omitempty"`
	Workers   int            `json:"workers,omitempty"`

	Employees []*model.Employee         `json:"employees"`
	Shifts    []*model.Shift            `json:"shifts"`
	Holidays  []*model.Holiday          `json:"holidays,omitempty"`
	Leaves    []*model.LeaveApplication `json:"leaves,omitempty"`
	Roster    []*model.RosterDay        `json:"roster,omitempty"`
	Punches   []*model.Punch            `json:"punches,omitempty"`

	IncludeSummary bool `json:"include_summary"`
	Persist        bool `json:"persist"`
}

// ProcessResponse 批量考勤处理响应
type ProcessResponse struct {
	Success  bool                 `json:"success"`
	BatchID  string               `json:"batch_id,omitempty"`
	Records  []*model.DailyRecord `json:"records,omitempty"`
	Summary  *stats.BatchSummary  `json:"summary,omitempty"`
	Failures int                  `json:"failures"`
	Warnings []validator.Issue    `json:"warnings,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// SummaryRequest 汇总统计请求
type SummaryRequest struct {
	Records []*model.DailyRecord `json:"records"`
}

// SummaryResponse 汇总统计响应
type SummaryResponse struct {
	Success bool                `json:"success"`
	Data    *stats.BatchSummary `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// AttendanceHandler 考勤处理API
type AttendanceHandler struct {
	attendanceRepo *repository.AttendanceRepository
	loader         *repository.BatchLoader
	proc           config.ProcessorConfig
}

// NewAttendanceHandler 创建考勤处理API
// attendanceRepo 为 nil 时禁用记录持久化，loader 为 nil 时只接受内联数据
func NewAttendanceHandler(attendanceRepo *repository.AttendanceRepository, loader *repository.BatchLoader, proc config.ProcessorConfig) *AttendanceHandler {
	return &AttendanceHandler{attendanceRepo: attendanceRepo, loader: loader, proc: proc}
}

// engineDefaults 以服务端环境配置覆盖引擎默认值
// 请求内联 config 时完全以请求为准
func (h *AttendanceHandler) engineDefaults() engine.Config {
	cfg := engine.DefaultConfig()
	if h.proc.GraceMinutes > 0 {
		cfg.GraceMinutes = h.proc.GraceMinutes
	}
	if h.proc.EarlyOutThreshold > 0 {
		cfg.EarlyOutThresholdMinutes = h.proc.EarlyOutThreshold
	}
	if h.proc.DefaultBreakTime > 0 {
		cfg.DefaultBreakMinutes = h.proc.DefaultBreakTime
	}
	if len(h.proc.WeekendDays) > 0 {
		cfg.WeekendDays = parseWeekdays(h.proc.WeekendDays)
	}
	cfg.EnableDynamicShiftDetection = h.proc.EnableDynamicShift
	return cfg
}

// parseWeekdays 将星期名称解析为 time.Weekday（未知名称忽略）
func parseWeekdays(names []string) []time.Weekday {
	byName := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	var days []time.Weekday
	for _, n := range names {
		if d, ok := byName[n]; ok {
			days = append(days, d)
		}
	}
	return days
}

// Process 批量考勤处理API
func (h *AttendanceHandler) Process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info().
		Str("org_id", req.OrgID).
		Str("start_date", req.StartDate).
		Str("end_date", req.EndDate).
		Int("employees", len(req.Employees)).
		Int("punches", len(req.Punches)).
		Msg("接收批量考勤处理请求")

	// 未内联员工数据时从存储装载
	if len(req.Employees) == 0 && h.loader != nil {
		orgID, err := uuid.Parse(req.OrgID)
		if err != nil {
			sendJSONError(w, "组织ID无效: "+req.OrgID, http.StatusBadRequest)
			return
		}
		data, err := h.loader.Load(r.Context(), orgID, req.StartDate, req.EndDate)
		if err != nil {
			logger.WithError(err).Msg("装载批量处理数据失败")
			sendJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		req.Employees = data.Employees
		req.Shifts = data.Shifts
		req.Holidays = data.Holidays
		req.Leaves = data.Leaves
		req.Roster = data.Roster
		req.Punches = data.Punches
	}

	// 输入验证
	issues := validator.NewInputValidator().Validate(validator.BatchInput{
		Employees: req.Employees,
		Shifts:    req.Shifts,
		Holidays:  req.Holidays,
		Leaves:    req.Leaves,
		Roster:    req.Roster,
		Punches:   req.Punches,
	})
	if validator.HasErrors(issues) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProcessResponse{
			Success:  false,
			Warnings: issues,
			Error:    "输入数据校验失败",
		})
		return
	}

	cfg := h.engineDefaults()
	if req.Config != nil {
		cfg = *req.Config
	}

	processor, err := engine.NewProcessor(cfg, req.Shifts)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bc := buildBatchContext(&req)
	dates := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}

	workers := req.Workers
	if workers <= 0 {
		workers = h.proc.Workers
	}

	ctx := r.Context()
	if h.proc.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.proc.BatchTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := engine.NewBatchProcessor(processor, workers).Process(ctx, bc, dates)
	if err != nil {
		metrics.RecordBatchProcess(false, 0, 0, time.Since(start))
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.RecordBatchProcess(true, len(result.Records), result.Failures, result.Duration)

	// 按识别来源统计动态班次识别（含回退来源）
	for _, rec := range result.Records {
		if rec.DynamicUsed {
			metrics.RecordDynamicShiftDetection(string(rec.ShiftSource))
		}
	}

	resp := ProcessResponse{
		Success:  true,
		BatchID:  result.BatchID,
		Records:  result.Records,
		Failures: result.Failures,
		Warnings: issues,
	}

	if req.IncludeSummary {
		summary := stats.NewSummaryAnalyzer().Analyze(result.Records)
		resp.Summary = summary
		metrics.SetAttendanceRate(req.OrgID, summary.AttendancePercentage)
		metrics.SetPunctualityRate(req.OrgID, summary.PunctualityPercentage)
	}

	if req.Persist && h.attendanceRepo != nil {
		if err := h.attendanceRepo.SaveBatch(r.Context(), result.Records); err != nil {
			logger.WithError(err).Msg("持久化日考勤记录失败")
			resp.Error = "记录已生成，持久化失败: " + err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Summary 汇总统计API
// 对调用方提交的日考勤记录做独立汇总，不触发处理
func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info().Int("records", len(req.Records)).Msg("接收汇总统计请求")

	summary := stats.NewSummaryAnalyzer().Analyze(req.Records)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SummaryResponse{
		Success: true,
		Data:    summary,
	})
}

// Config 配置快照API
// 返回引擎默认配置的分组视图，供前端展示可调参数
func (h *AttendanceHandler) Config(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := h.engineDefaults()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    cfg.Summary(),
	})
}

// buildBatchContext 将请求内联数据组织为批量处理快照
func buildBatchContext(req *ProcessRequest) *engine.BatchContext {
	bc := &engine.BatchContext{
		Employees: req.Employees,
		Shifts:    req.Shifts,
		Holidays:  make(map[string]*model.Holiday),
		Leaves:    make(map[uuid.UUID][]*model.LeaveApplication),
		Roster:    make(map[uuid.UUID]map[string]*model.RosterDay),
		Punches:   make(map[uuid.UUID]map[string][]time.Time),
	}

	for _, h := range req.Holidays {
		bc.Holidays[h.Date] = h
	}

	for _, l := range req.Leaves {
		bc.Leaves[l.EmployeeID] = append(bc.Leaves[l.EmployeeID], l)
	}

	for _, rd := range req.Roster {
		if bc.Roster[rd.EmployeeID] == nil {
			bc.Roster[rd.EmployeeID] = make(map[string]*model.RosterDay)
		}
		bc.Roster[rd.EmployeeID][rd.Date] = rd
	}

	for _, p := range req.Punches {
		date := attendanceDate(p.Timestamp)
		if bc.Punches[p.EmployeeID] == nil {
			bc.Punches[p.EmployeeID] = make(map[string][]time.Time)
		}
		bc.Punches[p.EmployeeID][date] = append(bc.Punches[p.EmployeeID][date], p.Timestamp)
	}

	return bc
}

// attendanceDate 返回打卡所属的考勤日期
// 凌晨04:00前的打卡视为前一天夜班的下班卡
func attendanceDate(ts time.Time) string {
	if ts.Hour() < 4 {
		return ts.AddDate(0, 0, -1).Format(model.DateLayout)
	}
	return ts.Format(model.DateLayout)
}

// sendJSONError 发送JSON错误响应
func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
