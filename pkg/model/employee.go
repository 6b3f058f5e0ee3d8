// Package model 定义考勤引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee 员工
type Employee struct {
	BaseModel
	OrgID       uuid.UUID `json:"org_id" db:"org_id"`
	Code        string    `json:"code" db:"code"` // 工号
	Name        string    `json:"name" db:"name"`
	Department  string    `json:"department,omitempty" db:"department"`
	Designation string    `json:"designation,omitempty" db:"designation"`
	Status      string    `json:"status" db:"status"` // active/inactive
	JoiningDate string    `json:"joining_date,omitempty" db:"joining_date"`

	// 考勤相关
	DefaultShiftID       *uuid.UUID `json:"default_shift_id,omitempty" db:"default_shift_id"`
	ExpectedWorkingHours float64    `json:"expected_working_hours" db:"expected_working_hours"` // 默认 8.0
	OvertimeGraceMinutes *int       `json:"overtime_grace_minutes,omitempty" db:"overtime_grace_minutes"`

	// 薪资相关
	BasicSalary  decimal.Decimal `json:"basic_salary" db:"basic_salary"`
	OvertimeRate decimal.Decimal `json:"overtime_rate" db:"overtime_rate"`
	PerHourRate  decimal.Decimal `json:"per_hour_rate" db:"per_hour_rate"`
}

// IsActive 检查员工是否在职
func (e *Employee) IsActive() bool {
	return e.Status == "active"
}

// ExpectedHours 返回员工的期望日工时（未设置时回退给定默认值）
func (e *Employee) ExpectedHours(fallback float64) float64 {
	if e.ExpectedWorkingHours > 0 {
		return e.ExpectedWorkingHours
	}
	return fallback
}

// GraceMinutes 返回员工个性化宽限分钟数（未设置时回退给定默认值）
func (e *Employee) GraceMinutes(fallback int) int {
	if e.OvertimeGraceMinutes != nil {
		return *e.OvertimeGraceMinutes
	}
	return fallback
}
