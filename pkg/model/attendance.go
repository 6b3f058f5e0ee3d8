// Package model 定义考勤引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyRecord 单人单日考勤处理结果
type DailyRecord struct {
	EmployeeID   uuid.UUID `json:"employee_id" db:"employee_id"`
	EmployeeCode string    `json:"employee_code" db:"employee_code"`
	EmployeeName string    `json:"employee_name" db:"employee_name"`
	Department   string    `json:"department,omitempty" db:"department"`
	Designation  string    `json:"designation,omitempty" db:"designation"`
	Date         string    `json:"date" db:"date"` // YYYY-MM-DD
	DayName      string    `json:"day_name" db:"day_name"`

	Status         Status `json:"status" db:"status"`
	OriginalStatus Status `json:"original_status" db:"original_status"`

	InTime  *time.Time `json:"in_time,omitempty" db:"in_time"`
	OutTime *time.Time `json:"out_time,omitempty" db:"out_time"`

	WorkingHours    float64 `json:"working_hours" db:"working_hours"`
	NetWorkingHours float64 `json:"net_working_hours" db:"net_working_hours"`
	BreakMinutes    int     `json:"break_minutes" db:"break_minutes"`
	LateMinutes     int     `json:"late_minutes" db:"late_minutes"`
	EarlyOutMinutes int     `json:"early_out_minutes" db:"early_out_minutes"`
	OvertimeHours   float64 `json:"overtime_hours" db:"overtime_hours"`
	OTBreakMinutes  int     `json:"overtime_break_minutes" db:"overtime_break_minutes"`
	ExpectedHours   float64 `json:"expected_hours" db:"expected_hours"`
	PunchCount      int     `json:"punch_count" db:"punch_count"`

	// 班次信息
	ShiftID         *uuid.UUID  `json:"shift_id,omitempty" db:"shift_id"`
	ShiftName       string      `json:"shift_name" db:"shift_name"`
	ShiftSource     ShiftSource `json:"shift_source" db:"shift_source"`
	ShiftStartTime  string      `json:"shift_start_time,omitempty" db:"shift_start_time"` // HH:MM
	ShiftEndTime    string      `json:"shift_end_time,omitempty" db:"shift_end_time"`     // HH:MM
	ExpectedStart   *time.Time  `json:"expected_start,omitempty" db:"expected_start"`
	ExpectedEnd     *time.Time  `json:"expected_end,omitempty" db:"expected_end"`
	IsRosterDay     bool        `json:"is_roster_day" db:"is_roster_day"`
	RosterInfo      string      `json:"roster_info,omitempty" db:"roster_info"`
	DynamicUsed     bool        `json:"dynamic_shift_used" db:"dynamic_shift_used"`
	MatchConfidence float64     `json:"shift_match_confidence" db:"shift_match_confidence"`
	CandidateShifts []string    `json:"multiple_shifts_found,omitempty" db:"-"`

	// 日历信息
	IsHoliday   bool   `json:"is_holiday" db:"is_holiday"`
	HolidayName string `json:"holiday_name,omitempty" db:"holiday_name"`
	IsWeeklyOff bool   `json:"is_weekly_off" db:"is_weekly_off"`
	IsLeave     bool   `json:"is_leave" db:"is_leave"`

	// 规则标记
	ConvertedFromMinimumHours    bool   `json:"converted_from_minimum_hours" db:"converted_from_minimum_hours"`
	ConvertedToHalfDay           bool   `json:"converted_to_half_day" db:"converted_to_half_day"`
	ConvertedFromIncompletePunch bool   `json:"converted_from_incomplete_punch" db:"converted_from_incomplete_punch"`
	ExcessiveHoursFlag           bool   `json:"excessive_working_hours_flag" db:"excessive_working_hours_flag"`
	TerminationRiskFlag          bool   `json:"termination_risk_flag" db:"termination_risk_flag"`
	ExcessiveEarlyOutFlag        bool   `json:"excessive_early_out_flag" db:"excessive_early_out_flag"`
	ConversionReason             string `json:"conversion_reason,omitempty" db:"conversion_reason"`
	FlagReason                   string `json:"flag_reason,omitempty" db:"flag_reason"`

	QualityScore int `json:"quality_score" db:"quality_score"`

	// 处理失败时的错误信息（批量处理隔离单元失败用）
	ProcessingError string `json:"processing_error,omitempty" db:"processing_error"`
}

// HasBothPunches 检查是否同时存在上下班打卡
func (r *DailyRecord) HasBothPunches() bool {
	return r.InTime != nil && r.OutTime != nil
}

// IsDowngraded 检查状态是否被规则降级过
func (r *DailyRecord) IsDowngraded() bool {
	return r.ConvertedFromMinimumHours || r.ConvertedToHalfDay || r.ConvertedFromIncompletePunch
}
