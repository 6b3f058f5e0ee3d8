// Package model 定义考勤引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Holiday 节假日
type Holiday struct {
	BaseModel
	OrgID uuid.UUID `json:"org_id" db:"org_id"`
	Name  string    `json:"name" db:"name"`
	Date  string    `json:"date" db:"date"` // YYYY-MM-DD
}

// LeaveStatus 休假申请状态
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "P" // 待审批
	LeaveApproved LeaveStatus = "A" // 已批准
	LeaveRejected LeaveStatus = "R" // 已驳回
)

// LeaveApplication 休假申请
type LeaveApplication struct {
	BaseModel
	OrgID      uuid.UUID   `json:"org_id" db:"org_id"`
	EmployeeID uuid.UUID   `json:"employee_id" db:"employee_id"`
	LeaveType  string      `json:"leave_type,omitempty" db:"leave_type"`
	StartDate  string      `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate    string      `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	Status     LeaveStatus `json:"status" db:"status"`
	Reason     string      `json:"reason,omitempty" db:"reason"`
}

// IsApproved 检查休假是否已批准
func (l *LeaveApplication) IsApproved() bool {
	return l.Status == LeaveApproved
}

// Covers 检查休假是否覆盖指定日期
func (l *LeaveApplication) Covers(date string) bool {
	return l.StartDate <= date && date <= l.EndDate
}

// RosterDay 排班表中的一天
type RosterDay struct {
	BaseModel
	OrgID      uuid.UUID `json:"org_id" db:"org_id"`
	RosterName string    `json:"roster_name" db:"roster_name"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	Date       string    `json:"date" db:"date"` // YYYY-MM-DD
	ShiftID    uuid.UUID `json:"shift_id" db:"shift_id"`
}

// Punch 打卡记录（来自考勤机）
type Punch struct {
	BaseModel
	OrgID      uuid.UUID `json:"org_id" db:"org_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	Device     string    `json:"device,omitempty" db:"device"`
	PunchType  string    `json:"punch_type,omitempty" db:"punch_type"`
}
