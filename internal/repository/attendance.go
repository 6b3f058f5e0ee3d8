// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// AttendanceRepository 日考勤记录仓储
// 记录按 (employee_id, date) 唯一，重复处理同一天时覆盖旧结果
type AttendanceRepository struct {
	db DB
}

// NewAttendanceRepository 创建日考勤记录仓储
func NewAttendanceRepository(db DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const dailyRecordColumns = `employee_id, employee_code, employee_name, department, designation,
	date, day_name, status, original_status, in_time, out_time,
	working_hours, net_working_hours, break_minutes, late_minutes, early_out_minutes,
	overtime_hours, overtime_break_minutes, expected_hours, punch_count,
	shift_id, shift_name, shift_source, shift_start_time, shift_end_time,
	is_roster_day, dynamic_shift_used, shift_match_confidence,
	is_holiday, holiday_name, is_weekly_off, is_leave,
	converted_from_minimum_hours, converted_to_half_day, converted_from_incomplete_punch,
	excessive_working_hours_flag, termination_risk_flag, excessive_early_out_flag,
	conversion_reason, flag_reason, quality_score, processing_error`

// SaveBatch 批量写入日考勤记录，同员工同日期覆盖
func (r *AttendanceRepository) SaveBatch(ctx context.Context, records []*model.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO daily_records (%s, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42, $43)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			original_status = EXCLUDED.original_status,
			in_time = EXCLUDED.in_time,
			out_time = EXCLUDED.out_time,
			working_hours = EXCLUDED.working_hours,
			net_working_hours = EXCLUDED.net_working_hours,
			break_minutes = EXCLUDED.break_minutes,
			late_minutes = EXCLUDED.late_minutes,
			early_out_minutes = EXCLUDED.early_out_minutes,
			overtime_hours = EXCLUDED.overtime_hours,
			overtime_break_minutes = EXCLUDED.overtime_break_minutes,
			expected_hours = EXCLUDED.expected_hours,
			punch_count = EXCLUDED.punch_count,
			shift_id = EXCLUDED.shift_id,
			shift_name = EXCLUDED.shift_name,
			shift_source = EXCLUDED.shift_source,
			shift_start_time = EXCLUDED.shift_start_time,
			shift_end_time = EXCLUDED.shift_end_time,
			is_roster_day = EXCLUDED.is_roster_day,
			dynamic_shift_used = EXCLUDED.dynamic_shift_used,
			shift_match_confidence = EXCLUDED.shift_match_confidence,
			is_holiday = EXCLUDED.is_holiday,
			holiday_name = EXCLUDED.holiday_name,
			is_weekly_off = EXCLUDED.is_weekly_off,
			is_leave = EXCLUDED.is_leave,
			converted_from_minimum_hours = EXCLUDED.converted_from_minimum_hours,
			converted_to_half_day = EXCLUDED.converted_to_half_day,
			converted_from_incomplete_punch = EXCLUDED.converted_from_incomplete_punch,
			excessive_working_hours_flag = EXCLUDED.excessive_working_hours_flag,
			termination_risk_flag = EXCLUDED.termination_risk_flag,
			excessive_early_out_flag = EXCLUDED.excessive_early_out_flag,
			conversion_reason = EXCLUDED.conversion_reason,
			flag_reason = EXCLUDED.flag_reason,
			quality_score = EXCLUDED.quality_score,
			processing_error = EXCLUDED.processing_error,
			updated_at = EXCLUDED.updated_at
	`, dailyRecordColumns)

	now := time.Now()
	for _, rec := range records {
		if _, err := r.db.ExecContext(ctx, query,
			rec.EmployeeID, rec.EmployeeCode, rec.EmployeeName, rec.Department, rec.Designation,
			rec.Date, rec.DayName, rec.Status, rec.OriginalStatus, rec.InTime, rec.OutTime,
			rec.WorkingHours, rec.NetWorkingHours, rec.BreakMinutes, rec.LateMinutes, rec.EarlyOutMinutes,
			rec.OvertimeHours, rec.OTBreakMinutes, rec.ExpectedHours, rec.PunchCount,
			rec.ShiftID, rec.ShiftName, rec.ShiftSource, rec.ShiftStartTime, rec.ShiftEndTime,
			rec.IsRosterDay, rec.DynamicUsed, rec.MatchConfidence,
			rec.IsHoliday, rec.HolidayName, rec.IsWeeklyOff, rec.IsLeave,
			rec.ConvertedFromMinimumHours, rec.ConvertedToHalfDay, rec.ConvertedFromIncompletePunch,
			rec.ExcessiveHoursFlag, rec.TerminationRiskFlag, rec.ExcessiveEarlyOutFlag,
			rec.ConversionReason, rec.FlagReason, rec.QualityScore, rec.ProcessingError,
			now,
		); err != nil {
			return fmt.Errorf("写入日考勤记录失败 (员工 %s, 日期 %s): %w", rec.EmployeeCode, rec.Date, err)
		}
	}

	return nil
}

// ListInRange 获取员工在日期范围内的日考勤记录
func (r *AttendanceRepository) ListInRange(ctx context.Context, employeeID uuid.UUID, startDate, endDate string) ([]*model.DailyRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM daily_records
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, dailyRecordColumns)

	rows, err := r.db.QueryContext(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询日考勤记录失败: %w", err)
	}
	defer rows.Close()

	var records []*model.DailyRecord
	for rows.Next() {
		rec := &model.DailyRecord{}
		if err := rows.Scan(
			&rec.EmployeeID, &rec.EmployeeCode, &rec.EmployeeName, &rec.Department, &rec.Designation,
			&rec.Date, &rec.DayName, &rec.Status, &rec.OriginalStatus, &rec.InTime, &rec.OutTime,
			&rec.WorkingHours, &rec.NetWorkingHours, &rec.BreakMinutes, &rec.LateMinutes, &rec.EarlyOutMinutes,
			&rec.OvertimeHours, &rec.OTBreakMinutes, &rec.ExpectedHours, &rec.PunchCount,
			&rec.ShiftID, &rec.ShiftName, &rec.ShiftSource, &rec.ShiftStartTime, &rec.ShiftEndTime,
			&rec.IsRosterDay, &rec.DynamicUsed, &rec.MatchConfidence,
			&rec.IsHoliday, &rec.HolidayName, &rec.IsWeeklyOff, &rec.IsLeave,
			&rec.ConvertedFromMinimumHours, &rec.ConvertedToHalfDay, &rec.ConvertedFromIncompletePunch,
			&rec.ExcessiveHoursFlag, &rec.TerminationRiskFlag, &rec.ExcessiveEarlyOutFlag,
			&rec.ConversionReason, &rec.FlagReason, &rec.QualityScore, &rec.ProcessingError,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// DeleteInRange 删除员工在日期范围内的日考勤记录（重新处理前清理）
func (r *AttendanceRepository) DeleteInRange(ctx context.Context, employeeID uuid.UUID, startDate, endDate string) error {
	query := `DELETE FROM daily_records WHERE employee_id = $1 AND date >= $2 AND date <= $3`

	_, err := r.db.ExecContext(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return fmt.Errorf("删除日考勤记录失败: %w", err)
	}

	return nil
}
