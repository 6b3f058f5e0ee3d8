package engine

import (
	"time"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// OvertimeResult 加班计算结果
type OvertimeResult struct {
	OvertimeHours  float64 `json:"overtime_hours"`
	OTBreakMinutes int     `json:"overtime_break_minutes"`
	Method         string  `json:"overtime_calculation_method"`
}

// breakMinutes 计算应扣减的休息时间（分钟）
// proportional 方式按总时长分档：≤4小时扣50%，≤6小时扣75%，否则全额
func breakMinutes(cfg *Config, shift *model.Shift, totalHours float64) float64 {
	var base float64
	if cfg.UseShiftBreakTime && shift != nil {
		base = float64(shift.EffectiveBreak(cfg.DefaultBreakMinutes))
	} else {
		base = float64(cfg.DefaultBreakMinutes)
	}

	if cfg.BreakDeductionMethod == BreakProportional {
		switch {
		case totalHours <= 4:
			return base * 0.5
		case totalHours <= 6:
			return base * 0.75
		default:
			return base
		}
	}
	return base
}

// calculateOvertime 计算加班时长
//
// shift_based 以班次期望下班时间为起点，其余方式以上班打卡
// 加员工期望工时为起点，均再延后配置的起算分钟数。
// 不足最低加班门槛时计为0。
func calculateOvertime(cfg *Config, rec *model.DailyRecord, emp *model.Employee, expectedEnd *time.Time) OvertimeResult {
	result := OvertimeResult{Method: cfg.OvertimeCalculationMethod}

	if rec.OutTime == nil || rec.InTime == nil {
		return result
	}

	var overtimeStart time.Time
	if cfg.OvertimeCalculationMethod == OvertimeShiftBased {
		if expectedEnd == nil {
			return result
		}
		overtimeStart = expectedEnd.Add(time.Duration(cfg.OvertimeStartAfterMinutes) * time.Minute)
	} else {
		expected := emp.ExpectedHours(8)
		if !cfg.UseEmployeeExpectedHours {
			expected = 8
		}
		overtimeStart = rec.InTime.
			Add(time.Duration(expected * float64(time.Hour))).
			Add(time.Duration(cfg.OvertimeStartAfterMinutes) * time.Minute)
	}

	// 迟到顺延加班起点
	if cfg.LateAffectsOvertime && rec.LateMinutes > 0 {
		overtimeStart = overtimeStart.Add(time.Duration(rec.LateMinutes) * time.Minute)
	}

	if rec.OutTime.After(overtimeStart) {
		overtimeMinutes := rec.OutTime.Sub(overtimeStart).Minutes()

		if cfg.SeparateOTBreakMinutes > 0 {
			overtimeMinutes -= float64(cfg.SeparateOTBreakMinutes)
			result.OTBreakMinutes = cfg.SeparateOTBreakMinutes
		}

		if overtimeMinutes >= float64(cfg.MinimumOvertimeMinutes) {
			result.OvertimeHours = round2(overtimeMinutes / 60)
		}
	}

	return result
}
