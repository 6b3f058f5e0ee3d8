// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// BatchData 一次批量处理所需的全部协作方数据
type BatchData struct {
	Employees []*model.Employee
	Shifts    []*model.Shift
	Holidays  []*model.Holiday
	Leaves    []*model.LeaveApplication
	Roster    []*model.RosterDay
	Punches   []*model.Punch
}

// BatchLoader 批量数据装载器
// 在批量处理开始前从存储一次性装载组织的全部协作方数据
type BatchLoader struct {
	employees *EmployeeRepository
	shifts    *ShiftRepository
	holidays  *HolidayRepository
	leaves    *LeaveRepository
	roster    *RosterRepository
	punches   *PunchRepository
}

// NewBatchLoader 创建批量数据装载器
func NewBatchLoader(db DB) *BatchLoader {
	return &BatchLoader{
		employees: NewEmployeeRepository(db),
		shifts:    NewShiftRepository(db),
		holidays:  NewHolidayRepository(db),
		leaves:    NewLeaveRepository(db),
		roster:    NewRosterRepository(db),
		punches:   NewPunchRepository(db),
	}
}

// Load 装载组织在日期范围内的批量处理数据
// 打卡按考勤日窗口放宽边界：起始日06:00前、结束日次日04:00后的打卡不属于本范围
func (l *BatchLoader) Load(ctx context.Context, orgID uuid.UUID, startDate, endDate string) (*BatchData, error) {
	start, err := time.ParseInLocation(model.DateLayout, startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("解析起始日期失败: %w", err)
	}
	end, err := time.ParseInLocation(model.DateLayout, endDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("解析结束日期失败: %w", err)
	}

	data := &BatchData{}

	if data.Employees, err = l.employees.ListActive(ctx, orgID); err != nil {
		return nil, err
	}
	if data.Shifts, err = l.shifts.ListActive(ctx, orgID); err != nil {
		return nil, err
	}
	if data.Holidays, err = l.holidays.ListInRange(ctx, orgID, startDate, endDate); err != nil {
		return nil, err
	}
	if data.Leaves, err = l.leaves.ListApprovedInRange(ctx, orgID, startDate, endDate); err != nil {
		return nil, err
	}
	if data.Roster, err = l.roster.ListInRange(ctx, orgID, startDate, endDate); err != nil {
		return nil, err
	}

	punchStart := time.Date(start.Year(), start.Month(), start.Day(), 6, 0, 0, 0, time.Local)
	punchEnd := time.Date(end.Year(), end.Month(), end.Day(), 4, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	if data.Punches, err = l.punches.ListInRange(ctx, orgID, punchStart, punchEnd); err != nil {
		return nil, err
	}

	return data, nil
}
