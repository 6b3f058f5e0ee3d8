// Package validator 提供批量考勤输入验证功能
package validator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// IssueType 输入问题类型
type IssueType string

const (
	IssueMissingField   IssueType = "missing_field"   // 必填字段缺失
	IssueDuplicate      IssueType = "duplicate"       // 重复数据
	IssueBadReference   IssueType = "bad_reference"   // 引用的实体不存在
	IssueBadDate        IssueType = "bad_date"        // 日期格式错误
	IssueBadTime        IssueType = "bad_time"        // 时间格式错误
	IssueInvertedRange  IssueType = "inverted_range"  // 起止日期颠倒
	IssueZeroTimestamp  IssueType = "zero_timestamp"  // 打卡时间为零值
	IssueNegativeNumber IssueType = "negative_number" // 数值为负
)

// Issue 单个输入问题
type Issue struct {
	Type       IssueType `json:"type"`
	Severity   string    `json:"severity"` // error/warning
	EmployeeID uuid.UUID `json:"employee_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	Message    string    `json:"message"`
}

// BatchInput 待验证的批量处理输入
type BatchInput struct {
	Employees []*model.Employee
	Shifts    []*model.Shift
	Holidays  []*model.Holiday
	Leaves    []*model.LeaveApplication
	Roster    []*model.RosterDay
	Punches   []*model.Punch
}

// InputValidator 批量输入验证器
type InputValidator struct{}

// NewInputValidator 创建输入验证器
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// Validate 检查批量处理输入的完整性与一致性
// 返回全部问题列表，severity 为 error 的问题应拒绝本次处理
func (v *InputValidator) Validate(in BatchInput) []Issue {
	var issues []Issue

	shiftIDs := make(map[uuid.UUID]bool, len(in.Shifts))
	for _, s := range in.Shifts {
		shiftIDs[s.ID] = true
	}
	empIDs := make(map[uuid.UUID]bool, len(in.Employees))

	issues = append(issues, v.checkEmployees(in.Employees, shiftIDs, empIDs)...)
	issues = append(issues, v.checkShifts(in.Shifts)...)
	issues = append(issues, v.checkHolidays(in.Holidays)...)
	issues = append(issues, v.checkLeaves(in.Leaves, empIDs)...)
	issues = append(issues, v.checkRoster(in.Roster, shiftIDs, empIDs)...)
	issues = append(issues, v.checkPunches(in.Punches, empIDs)...)

	return issues
}

// HasErrors 检查问题列表中是否存在 error 级别问题
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}

// checkEmployees 检查员工数据
func (v *InputValidator) checkEmployees(employees []*model.Employee, shiftIDs map[uuid.UUID]bool, empIDs map[uuid.UUID]bool) []Issue {
	var issues []Issue
	codes := make(map[string]bool, len(employees))

	for _, e := range employees {
		if e == nil {
			issues = append(issues, Issue{
				Type:     IssueMissingField,
				Severity: "error",
				Message:  "员工数据为空",
			})
			continue
		}
		empIDs[e.ID] = true

		if e.Code == "" {
			issues = append(issues, Issue{
				Type:       IssueMissingField,
				Severity:   "error",
				EmployeeID: e.ID,
				Message:    "员工工号缺失",
			})
		} else if codes[e.Code] {
			issues = append(issues, Issue{
				Type:       IssueDuplicate,
				Severity:   "error",
				EmployeeID: e.ID,
				Message:    fmt.Sprintf("员工工号重复: %s", e.Code),
			})
		}
		codes[e.Code] = true

		if e.DefaultShiftID != nil && !shiftIDs[*e.DefaultShiftID] {
			issues = append(issues, Issue{
				Type:       IssueBadReference,
				Severity:   "warning",
				EmployeeID: e.ID,
				Message:    fmt.Sprintf("员工 %s 的默认班次不在班次列表中", e.Code),
			})
		}
	}
	return issues
}

// checkShifts 检查班次数据
func (v *InputValidator) checkShifts(shifts []*model.Shift) []Issue {
	var issues []Issue
	for _, s := range shifts {
		if _, err := time.Parse(model.TimeLayout, s.StartTime); err != nil {
			issues = append(issues, Issue{
				Type:     IssueBadTime,
				Severity: "error",
				Message:  fmt.Sprintf("班次 %s 的开始时间无效: %s", s.Name, s.StartTime),
			})
		}
		if _, err := time.Parse(model.TimeLayout, s.EndTime); err != nil {
			issues = append(issues, Issue{
				Type:     IssueBadTime,
				Severity: "error",
				Message:  fmt.Sprintf("班次 %s 的结束时间无效: %s", s.Name, s.EndTime),
			})
		}
		if s.BreakTime < 0 || s.GraceTime < 0 {
			issues = append(issues, Issue{
				Type:     IssueNegativeNumber,
				Severity: "error",
				Message:  fmt.Sprintf("班次 %s 的休息或宽限时间为负数", s.Name),
			})
		}
	}
	return issues
}

// checkHolidays 检查节假日数据
func (v *InputValidator) checkHolidays(holidays []*model.Holiday) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(holidays))

	for _, h := range holidays {
		if _, err := time.Parse(model.DateLayout, h.Date); err != nil {
			issues = append(issues, Issue{
				Type:     IssueBadDate,
				Severity: "error",
				Date:     h.Date,
				Message:  fmt.Sprintf("节假日 %s 的日期无效: %s", h.Name, h.Date),
			})
			continue
		}
		if seen[h.Date] {
			issues = append(issues, Issue{
				Type:     IssueDuplicate,
				Severity: "warning",
				Date:     h.Date,
				Message:  fmt.Sprintf("日期 %s 存在多个节假日", h.Date),
			})
		}
		seen[h.Date] = true
	}
	return issues
}

// checkLeaves 检查休假数据
func (v *InputValidator) checkLeaves(leaves []*model.LeaveApplication, empIDs map[uuid.UUID]bool) []Issue {
	var issues []Issue
	for _, l := range leaves {
		_, err1 := time.Parse(model.DateLayout, l.StartDate)
		_, err2 := time.Parse(model.DateLayout, l.EndDate)
		if err1 != nil || err2 != nil {
			issues = append(issues, Issue{
				Type:       IssueBadDate,
				Severity:   "error",
				EmployeeID: l.EmployeeID,
				Message:    fmt.Sprintf("休假日期无效: %s ~ %s", l.StartDate, l.EndDate),
			})
			continue
		}
		if l.EndDate < l.StartDate {
			issues = append(issues, Issue{
				Type:       IssueInvertedRange,
				Severity:   "error",
				EmployeeID: l.EmployeeID,
				Message:    fmt.Sprintf("休假结束日期早于开始日期: %s ~ %s", l.StartDate, l.EndDate),
			})
		}
		if len(empIDs) > 0 && !empIDs[l.EmployeeID] {
			issues = append(issues, Issue{
				Type:       IssueBadReference,
				Severity:   "warning",
				EmployeeID: l.EmployeeID,
				Message:    "休假申请的员工不在本次处理范围内",
			})
		}
	}
	return issues
}

// checkRoster 检查排班数据
func (v *InputValidator) checkRoster(roster []*model.RosterDay, shiftIDs map[uuid.UUID]bool, empIDs map[uuid.UUID]bool) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(roster))

	for _, r := range roster {
		if _, err := time.Parse(model.DateLayout, r.Date); err != nil {
			issues = append(issues, Issue{
				Type:       IssueBadDate,
				Severity:   "error",
				EmployeeID: r.EmployeeID,
				Date:       r.Date,
				Message:    fmt.Sprintf("排班日期无效: %s", r.Date),
			})
			continue
		}
		key := r.EmployeeID.String() + "|" + r.Date
		if seen[key] {
			issues = append(issues, Issue{
				Type:       IssueDuplicate,
				Severity:   "error",
				EmployeeID: r.EmployeeID,
				Date:       r.Date,
				Message:    "同一员工同一日期存在多条排班",
			})
		}
		seen[key] = true

		if !shiftIDs[r.ShiftID] {
			issues = append(issues, Issue{
				Type:       IssueBadReference,
				Severity:   "error",
				EmployeeID: r.EmployeeID,
				Date:       r.Date,
				Message:    "排班引用的班次不在班次列表中",
			})
		}
	}
	return issues
}

// checkPunches 检查打卡数据
func (v *InputValidator) checkPunches(punches []*model.Punch, empIDs map[uuid.UUID]bool) []Issue {
	var issues []Issue
	for _, p := range punches {
		if p.Timestamp.IsZero() {
			issues = append(issues, Issue{
				Type:       IssueZeroTimestamp,
				Severity:   "error",
				EmployeeID: p.EmployeeID,
				Message:    "打卡时间为零值",
			})
		}
		if len(empIDs) > 0 && !empIDs[p.EmployeeID] {
			issues = append(issues, Issue{
				Type:       IssueBadReference,
				Severity:   "warning",
				EmployeeID: p.EmployeeID,
				Message:    "打卡记录的员工不在本次处理范围内",
			})
		}
	}
	return issues
}
