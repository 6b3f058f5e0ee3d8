package engine

import (
	"fmt"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// applyRules 对已计算完指标的记录应用状态覆盖规则
//
// 固定顺序：最低工时 → 半天 → 打卡齐全 → 最高工时。
// 顺序不可调整：最低工时规则先于半天规则吸收短工时记录，
// 仅有上班打卡的记录在打卡齐全规则之前已被最低工时规则降级。
func applyRules(cfg *Config, rec model.DailyRecord) model.DailyRecord {
	if cfg.EnableMinimumWorkingHoursRule {
		rec = applyMinimumHoursRule(cfg, rec)
	}
	if cfg.EnableHalfDayRule {
		rec = applyHalfDayRule(cfg, rec)
	}
	if cfg.RequireBothInAndOut {
		rec = applyBothPunchesRule(rec)
	}
	if cfg.EnableMaximumWorkingHoursRule {
		rec = applyMaximumHoursRule(cfg, rec)
	}
	return rec
}

// applyMinimumHoursRule 工时低于最低门槛的出勤/迟到记录降级为缺勤
func applyMinimumHoursRule(cfg *Config, rec model.DailyRecord) model.DailyRecord {
	if (rec.Status == model.StatusPresent || rec.Status == model.StatusLate) &&
		rec.WorkingHours < cfg.MinimumWorkingHoursForPresent {
		rec.OriginalStatus = rec.Status
		rec.Status = model.StatusAbsent
		rec.ConvertedFromMinimumHours = true
		rec.ConversionReason = fmt.Sprintf("工时 %.2f 小时低于最低出勤要求 %.2f 小时",
			rec.WorkingHours, cfg.MinimumWorkingHoursForPresent)
	}
	return rec
}

// applyHalfDayRule 工时落在半天区间 [min, max) 的出勤/迟到记录转为半天
func applyHalfDayRule(cfg *Config, rec model.DailyRecord) model.DailyRecord {
	if (rec.Status == model.StatusPresent || rec.Status == model.StatusLate) &&
		rec.WorkingHours >= cfg.HalfDayMinimumHours && rec.WorkingHours < cfg.HalfDayMaximumHours {
		rec.OriginalStatus = rec.Status
		rec.Status = model.StatusHalfDay
		rec.ConvertedToHalfDay = true
		rec.ConversionReason = fmt.Sprintf("工时 %.2f 小时符合半天条件", rec.WorkingHours)
	}
	return rec
}

// applyBothPunchesRule 缺少上班或下班打卡的出勤/迟到记录降级为缺勤
func applyBothPunchesRule(rec model.DailyRecord) model.DailyRecord {
	if (rec.Status == model.StatusPresent || rec.Status == model.StatusLate) &&
		(rec.InTime == nil || rec.OutTime == nil) {
		rec.OriginalStatus = rec.Status
		rec.Status = model.StatusAbsent
		rec.ConvertedFromIncompletePunch = true
		rec.ConversionReason = "上下班打卡必须齐全"
	}
	return rec
}

// applyMaximumHoursRule 工时超上限的记录打标记，状态不变
func applyMaximumHoursRule(cfg *Config, rec model.DailyRecord) model.DailyRecord {
	if rec.WorkingHours > cfg.MaximumAllowableWorkingHours {
		rec.ExcessiveHoursFlag = true
		rec.FlagReason = fmt.Sprintf("工时 %.2f 小时超过允许上限 %.2f 小时",
			rec.WorkingHours, cfg.MaximumAllowableWorkingHours)
	}
	return rec
}
