// Package engine 实现考勤处理引擎
// 将原始打卡记录转换为带状态的日考勤记录
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

// 多班次匹配时的优先策略
const (
	PriorityLeastBreak       = "least_break"       // 休息时间最短
	PriorityShortestDuration = "shortest_duration" // 班次时长最短
	PriorityAlphabetical     = "alphabetical"      // 名称字典序
	PriorityFirstFound       = "first_found"       // 得分排序后的首个候选
)

// 加班计算方式
const (
	OvertimeShiftBased    = "shift_based"    // 以班次结束时间为基准
	OvertimeEmployeeBased = "employee_based" // 以员工期望工时为基准
	OvertimeFixedHours    = "fixed_hours"    // 以固定日工时为基准
)

// 休息时间扣减方式
const (
	BreakFixed        = "fixed"        // 固定扣减
	BreakProportional = "proportional" // 按总时长按比例扣减
)

// Config 考勤处理配置
// 一次批量处理期间不可变
type Config struct {
	// 基础设置
	WeekendDays               []time.Weekday `json:"weekend_days"`
	GraceMinutes              int            `json:"grace_minutes"`
	EarlyOutThresholdMinutes  int            `json:"early_out_threshold_minutes"`
	OvertimeStartAfterMinutes int            `json:"overtime_start_after_minutes"`
	MinimumOvertimeMinutes    int            `json:"minimum_overtime_minutes"`

	// 规则1: 最低工时规则
	MinimumWorkingHoursForPresent float64 `json:"minimum_working_hours_for_present"`
	EnableMinimumWorkingHoursRule bool    `json:"enable_minimum_working_hours_rule"`

	// 规则2: 按工时判定半天规则
	HalfDayMinimumHours float64 `json:"half_day_minimum_hours"`
	HalfDayMaximumHours float64 `json:"half_day_maximum_hours"`
	EnableHalfDayRule   bool    `json:"enable_working_hours_half_day_rule"`

	// 规则3: 上下班打卡齐全规则
	RequireBothInAndOut bool `json:"require_both_in_and_out"`

	// 规则4: 最高工时规则
	MaximumAllowableWorkingHours  float64 `json:"maximum_allowable_working_hours"`
	EnableMaximumWorkingHoursRule bool    `json:"enable_maximum_working_hours_rule"`

	// 规则5: 动态班次识别
	EnableDynamicShiftDetection   bool       `json:"enable_dynamic_shift_detection"`
	DynamicShiftToleranceMinutes  int        `json:"dynamic_shift_tolerance_minutes"`
	MultipleShiftPriority         string     `json:"multiple_shift_priority"`
	DynamicShiftFallbackToDefault bool       `json:"dynamic_shift_fallback_to_default"`
	DynamicShiftFallbackShiftID   *uuid.UUID `json:"dynamic_shift_fallback_shift_id,omitempty"`

	// 规则6: 使用班次级宽限时间
	UseShiftGraceTime bool `json:"use_shift_grace_time"`

	// 规则7: 连续缺勤离职风险标记
	ConsecutiveAbsenceRiskDays       int  `json:"consecutive_absence_termination_risk_days"`
	EnableConsecutiveAbsenceFlagging bool `json:"enable_consecutive_absence_flagging"`

	// 规则8: 早退次数阈值标记
	MaxEarlyOutThresholdMinutes int  `json:"max_early_out_threshold_minutes"`
	MaxEarlyOutOccurrences      int  `json:"max_early_out_occurrences"`
	EnableMaxEarlyOutFlagging   bool `json:"enable_max_early_out_flagging"`

	// 加班设置
	OvertimeCalculationMethod string `json:"overtime_calculation_method"`
	HolidayOvertimeFullDay    bool   `json:"holiday_overtime_full_day"`
	WeekendOvertimeFullDay    bool   `json:"weekend_overtime_full_day"`
	LateAffectsOvertime       bool   `json:"late_affects_overtime"`
	SeparateOTBreakMinutes    int    `json:"separate_ot_break_time"`

	// 休息时间设置
	UseShiftBreakTime    bool   `json:"use_shift_break_time"`
	DefaultBreakMinutes  int    `json:"default_break_minutes"`
	BreakDeductionMethod string `json:"break_deduction_method"`

	// 员工级覆盖设置
	UseEmployeeSpecificGrace bool `json:"use_employee_specific_grace"`
	UseEmployeeExpectedHours bool `json:"use_employee_expected_hours"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		WeekendDays:               []time.Weekday{time.Friday},
		GraceMinutes:              15,
		EarlyOutThresholdMinutes:  30,
		OvertimeStartAfterMinutes: 15,
		MinimumOvertimeMinutes:    60,

		MinimumWorkingHoursForPresent: 4,
		HalfDayMinimumHours:           4,
		HalfDayMaximumHours:           6,
		MaximumAllowableWorkingHours:  16,

		DynamicShiftToleranceMinutes:  30,
		MultipleShiftPriority:         PriorityLeastBreak,
		DynamicShiftFallbackToDefault: true,

		ConsecutiveAbsenceRiskDays:  5,
		MaxEarlyOutThresholdMinutes: 120,
		MaxEarlyOutOccurrences:      3,

		OvertimeCalculationMethod: OvertimeShiftBased,
		HolidayOvertimeFullDay:    true,
		WeekendOvertimeFullDay:    true,

		UseShiftBreakTime:    true,
		DefaultBreakMinutes:  60,
		BreakDeductionMethod: BreakFixed,

		UseEmployeeSpecificGrace: true,
		UseEmployeeExpectedHours: true,
	}
}

// Validate 校验配置
// 越界值直接拒绝并指明字段，不做静默修正
func (c *Config) Validate() error {
	ve := &errors.ValidationErrors{}

	for _, d := range c.WeekendDays {
		if d < time.Sunday || d > time.Saturday {
			ve.Add("weekend_days", "星期取值必须在0-6之间")
			break
		}
	}
	if c.GraceMinutes < 0 {
		ve.Add("grace_minutes", "不能为负数")
	}
	if c.EarlyOutThresholdMinutes < 0 {
		ve.Add("early_out_threshold_minutes", "不能为负数")
	}
	if c.OvertimeStartAfterMinutes < 0 {
		ve.Add("overtime_start_after_minutes", "不能为负数")
	}
	if c.MinimumOvertimeMinutes < 0 {
		ve.Add("minimum_overtime_minutes", "不能为负数")
	}
	if c.MinimumWorkingHoursForPresent < 0 || c.MinimumWorkingHoursForPresent > 24 {
		ve.Add("minimum_working_hours_for_present", "必须在0-24小时之间")
	}
	if c.HalfDayMinimumHours < 0 || c.HalfDayMaximumHours > 24 {
		ve.Add("half_day_minimum_hours", "半天区间必须在0-24小时之间")
	}
	if c.HalfDayMinimumHours >= c.HalfDayMaximumHours {
		ve.Add("half_day_maximum_hours", "上限必须大于下限")
	}
	if c.MaximumAllowableWorkingHours <= 0 || c.MaximumAllowableWorkingHours > 24 {
		ve.Add("maximum_allowable_working_hours", "必须在0-24小时之间")
	}
	if c.DynamicShiftToleranceMinutes <= 0 {
		ve.Add("dynamic_shift_tolerance_minutes", "必须为正数")
	}
	switch c.MultipleShiftPriority {
	case PriorityLeastBreak, PriorityShortestDuration, PriorityAlphabetical, PriorityFirstFound:
	default:
		ve.Add("multiple_shift_priority", "不支持的优先策略: "+c.MultipleShiftPriority)
	}
	switch c.OvertimeCalculationMethod {
	case OvertimeShiftBased, OvertimeEmployeeBased, OvertimeFixedHours:
	default:
		ve.Add("overtime_calculation_method", "不支持的加班计算方式: "+c.OvertimeCalculationMethod)
	}
	switch c.BreakDeductionMethod {
	case BreakFixed, BreakProportional:
	default:
		ve.Add("break_deduction_method", "不支持的休息扣减方式: "+c.BreakDeductionMethod)
	}
	if c.SeparateOTBreakMinutes < 0 {
		ve.Add("separate_ot_break_time", "不能为负数")
	}
	if c.DefaultBreakMinutes < 0 {
		ve.Add("default_break_minutes", "不能为负数")
	}
	if c.ConsecutiveAbsenceRiskDays < 1 {
		ve.Add("consecutive_absence_termination_risk_days", "必须至少为1天")
	}
	if c.MaxEarlyOutThresholdMinutes < 0 {
		ve.Add("max_early_out_threshold_minutes", "不能为负数")
	}
	if c.MaxEarlyOutOccurrences < 1 {
		ve.Add("max_early_out_occurrences", "必须至少为1次")
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// IsWeekend 检查日期是否为每周休息日
func (c *Config) IsWeekend(date string) bool {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	for _, wd := range c.WeekendDays {
		if day.Weekday() == wd {
			return true
		}
	}
	return false
}

// Summary 返回当前配置的分组快照（用于展示）
func (c *Config) Summary() map[string]interface{} {
	weekendDays := make([]int, len(c.WeekendDays))
	for i, d := range c.WeekendDays {
		weekendDays[i] = int(d)
	}

	return map[string]interface{}{
		"basic_settings": map[string]interface{}{
			"grace_minutes":            c.GraceMinutes,
			"early_out_threshold":      c.EarlyOutThresholdMinutes,
			"overtime_start_after":     c.OvertimeStartAfterMinutes,
			"minimum_overtime_minutes": c.MinimumOvertimeMinutes,
		},
		"rules": map[string]interface{}{
			"minimum_working_hours_for_present":         c.MinimumWorkingHoursForPresent,
			"enable_minimum_working_hours_rule":         c.EnableMinimumWorkingHoursRule,
			"half_day_minimum_hours":                    c.HalfDayMinimumHours,
			"half_day_maximum_hours":                    c.HalfDayMaximumHours,
			"enable_working_hours_half_day_rule":        c.EnableHalfDayRule,
			"require_both_in_and_out":                   c.RequireBothInAndOut,
			"maximum_allowable_working_hours":           c.MaximumAllowableWorkingHours,
			"enable_maximum_working_hours_rule":         c.EnableMaximumWorkingHoursRule,
			"use_shift_grace_time":                      c.UseShiftGraceTime,
			"consecutive_absence_termination_risk_days": c.ConsecutiveAbsenceRiskDays,
			"enable_consecutive_absence_flagging":       c.EnableConsecutiveAbsenceFlagging,
		},
		"shift_detection": map[string]interface{}{
			"dynamic_enabled":         c.EnableDynamicShiftDetection,
			"tolerance_minutes":       c.DynamicShiftToleranceMinutes,
			"multiple_shift_priority": c.MultipleShiftPriority,
			"fallback_to_default":     c.DynamicShiftFallbackToDefault,
		},
		"overtime_rules": map[string]interface{}{
			"calculation_method": c.OvertimeCalculationMethod,
			"holiday_full_day":   c.HolidayOvertimeFullDay,
			"weekend_full_day":   c.WeekendOvertimeFullDay,
			"late_affects_ot":    c.LateAffectsOvertime,
			"separate_ot_break":  c.SeparateOTBreakMinutes,
		},
		"break_time": map[string]interface{}{
			"use_shift_break":       c.UseShiftBreakTime,
			"default_break_minutes": c.DefaultBreakMinutes,
			"deduction_method":      c.BreakDeductionMethod,
		},
		"weekend_days": weekendDays,
	}
}
