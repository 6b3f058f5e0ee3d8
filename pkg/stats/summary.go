// Package stats 提供考勤统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// BatchSummary 批量考勤汇总指标
type BatchSummary struct {
	TotalRecords   int `json:"total_records"`
	TotalEmployees int `json:"total_employees"`

	// 状态计数
	PresentCount   int `json:"present_count"`
	AbsentCount    int `json:"absent_count"`
	LateCount      int `json:"late_count"`
	LeaveCount     int `json:"leave_count"`
	HolidayCount   int `json:"holiday_count"`
	WeeklyOffCount int `json:"weekly_off_count"`
	HalfDayCount   int `json:"half_day_count"`

	// 工时汇总
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AvgWorkingHours    float64 `json:"avg_working_hours"`

	// 比率指标
	WorkingDays           int     `json:"working_days"`
	AttendancePercentage  float64 `json:"attendance_percentage"`
	PunctualityPercentage float64 `json:"punctuality_percentage"`

	// 规则标记计数
	ConversionCount      int `json:"conversion_count"`
	TerminationRiskCount int `json:"termination_risk_count"`
	ExcessiveHoursCount  int `json:"excessive_hours_count"`
	ProcessingErrorCount int `json:"processing_error_count"`

	// 员工级别统计
	EmployeeStats []EmployeeAttendanceStat `json:"employee_stats,omitempty"`
}

// EmployeeAttendanceStat 单个员工的考勤统计
type EmployeeAttendanceStat struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeCode  string  `json:"employee_code"`
	EmployeeName  string  `json:"employee_name"`
	PresentDays   int     `json:"present_days"`
	LateDays      int     `json:"late_days"`
	AbsentDays    int     `json:"absent_days"`
	HalfDays      int     `json:"half_days"`
	WorkingHours  float64 `json:"working_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	QualityAvg    float64 `json:"quality_avg"`
}

// SummaryAnalyzer 考勤汇总分析器
type SummaryAnalyzer struct{}

// NewSummaryAnalyzer 创建考勤汇总分析器
func NewSummaryAnalyzer() *SummaryAnalyzer {
	return &SummaryAnalyzer{}
}

// Analyze 从日考勤记录生成汇总统计
//
// 工作日 = 总记录数 - 节假日 - 休息日 - 休假；
// 出勤率 = (出勤 + 迟到 + 0.5×半天) / 工作日；
// 准点率 = 出勤 / 工作日
func (a *SummaryAnalyzer) Analyze(records []*model.DailyRecord) *BatchSummary {
	summary := &BatchSummary{}
	if len(records) == 0 {
		return summary
	}

	summary.TotalRecords = len(records)

	employees := make(map[string]*EmployeeAttendanceStat)
	qualityTotals := make(map[string]int)
	qualityCounts := make(map[string]int)

	var totalHours, totalOvertime float64
	workingDays := 0

	for _, rec := range records {
		switch rec.Status {
		case model.StatusPresent:
			summary.PresentCount++
		case model.StatusAbsent:
			summary.AbsentCount++
		case model.StatusLate:
			summary.LateCount++
		case model.StatusLeave:
			summary.LeaveCount++
		case model.StatusHoliday:
			summary.HolidayCount++
		case model.StatusWeeklyOff:
			summary.WeeklyOffCount++
		case model.StatusHalfDay:
			summary.HalfDayCount++
		}

		if rec.Status.IsWorked() {
			totalHours += rec.WorkingHours
			totalOvertime += rec.OvertimeHours
		}
		if !rec.Status.IsNonWorking() {
			workingDays++
		}

		if rec.IsDowngraded() {
			summary.ConversionCount++
		}
		if rec.TerminationRiskFlag {
			summary.TerminationRiskCount++
		}
		if rec.ExcessiveHoursFlag {
			summary.ExcessiveHoursCount++
		}
		if rec.ProcessingError != "" {
			summary.ProcessingErrorCount++
		}

		// 员工级别统计
		key := rec.EmployeeID.String()
		stat, ok := employees[key]
		if !ok {
			stat = &EmployeeAttendanceStat{
				EmployeeID:   key,
				EmployeeCode: rec.EmployeeCode,
				EmployeeName: rec.EmployeeName,
			}
			employees[key] = stat
		}
		switch rec.Status {
		case model.StatusPresent:
			stat.PresentDays++
		case model.StatusLate:
			stat.LateDays++
		case model.StatusAbsent:
			stat.AbsentDays++
		case model.StatusHalfDay:
			stat.HalfDays++
		}
		stat.WorkingHours += rec.WorkingHours
		stat.OvertimeHours += rec.OvertimeHours
		qualityTotals[key] += rec.QualityScore
		qualityCounts[key]++
	}

	summary.TotalEmployees = len(employees)
	summary.TotalWorkingHours = round2(totalHours)
	summary.TotalOvertimeHours = round2(totalOvertime)
	summary.AvgWorkingHours = round2(totalHours / float64(len(records)))
	summary.WorkingDays = workingDays

	if workingDays > 0 {
		attended := float64(summary.PresentCount) + float64(summary.LateCount) + float64(summary.HalfDayCount)*0.5
		summary.AttendancePercentage = round2(attended / float64(workingDays) * 100)
		summary.PunctualityPercentage = round2(float64(summary.PresentCount) / float64(workingDays) * 100)
	}

	for key, stat := range employees {
		if qualityCounts[key] > 0 {
			stat.QualityAvg = round2(float64(qualityTotals[key]) / float64(qualityCounts[key]))
		}
		stat.WorkingHours = round2(stat.WorkingHours)
		stat.OvertimeHours = round2(stat.OvertimeHours)
		summary.EmployeeStats = append(summary.EmployeeStats, *stat)
	}
	// 按工号排序，保证输出稳定
	sort.Slice(summary.EmployeeStats, func(i, j int) bool {
		return summary.EmployeeStats[i].EmployeeCode < summary.EmployeeStats[j].EmployeeCode
	})

	return summary
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
