package engine

import (
	"testing"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func testShift(name, start, end string, breakMinutes int) *model.Shift {
	return &model.Shift{
		BaseModel: model.NewBaseModel(),
		Name:      name,
		StartTime: start,
		EndTime:   end,
		BreakTime: breakMinutes,
		IsActive:  true,
	}
}

func TestShiftResolver_Resolve(t *testing.T) {
	cfg := DefaultConfig()
	day := testShift("白班", "09:00", "17:00", 60)
	night := testShift("夜班", "22:00", "06:00", 30)
	resolver := NewShiftResolver(&cfg, []*model.Shift{day, night})

	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", DefaultShiftID: &day.ID}

	t.Run("排班表优先", func(t *testing.T) {
		roster := &model.RosterDay{RosterName: "三月排班", EmployeeID: emp.ID, Date: "2026-03-02", ShiftID: night.ID}
		info := resolver.Resolve("2026-03-02", emp, roster)
		if info.Source != model.SourceRosterDay {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceRosterDay)
		}
		if info.ShiftName != "夜班" {
			t.Errorf("ShiftName = %s, expected 夜班", info.ShiftName)
		}
		if !info.IsRosterDay {
			t.Error("IsRosterDay = false, expected true")
		}
	})

	t.Run("默认班次其次", func(t *testing.T) {
		info := resolver.Resolve("2026-03-02", emp, nil)
		if info.Source != model.SourceDefault {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceDefault)
		}
		if info.ShiftName != "白班" {
			t.Errorf("ShiftName = %s, expected 白班", info.ShiftName)
		}
	})

	t.Run("无班次", func(t *testing.T) {
		noDefault := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E002"}
		info := resolver.Resolve("2026-03-02", noDefault, nil)
		if info.Source != model.SourceNone {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceNone)
		}
		if info.ShiftName != "No Shift" {
			t.Errorf("ShiftName = %s, expected No Shift", info.ShiftName)
		}
	})
}

func TestShiftResolver_DetectDynamic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableDynamicShiftDetection = true
	day := testShift("白班", "09:00", "17:00", 60)
	evening := testShift("晚班", "14:00", "22:00", 60)
	resolver := NewShiftResolver(&cfg, []*model.Shift{day, evening})

	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}

	t.Run("精确匹配置信度满分", func(t *testing.T) {
		in := punchAt(9, 0)
		out := punchAt(17, 0)
		info := resolver.DetectDynamic("2026-03-02", emp, &in, &out)
		if info.Source != model.SourceDynamicDetection {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceDynamicDetection)
		}
		if info.ShiftName != "白班" {
			t.Errorf("ShiftName = %s, expected 白班", info.ShiftName)
		}
		if info.MatchConfidence != 1.0 {
			t.Errorf("MatchConfidence = %v, expected 1.0", info.MatchConfidence)
		}
		if !info.DynamicUsed {
			t.Error("DynamicUsed = false, expected true")
		}
	})

	t.Run("偏差递减得分", func(t *testing.T) {
		in := punchAt(9, 10)
		out := punchAt(17, 0)
		info := resolver.DetectDynamic("2026-03-02", emp, &in, &out)
		if info.ShiftName != "白班" {
			t.Errorf("ShiftName = %s, expected 白班", info.ShiftName)
		}
		// 上班偏差10分钟扣10分: (40+50)/100
		if info.MatchConfidence != 0.9 {
			t.Errorf("MatchConfidence = %v, expected 0.9", info.MatchConfidence)
		}
	})

	t.Run("晚班匹配", func(t *testing.T) {
		in := punchAt(14, 5)
		out := punchAt(22, 0)
		info := resolver.DetectDynamic("2026-03-02", emp, &in, &out)
		if info.ShiftName != "晚班" {
			t.Errorf("ShiftName = %s, expected 晚班", info.ShiftName)
		}
	})

	t.Run("无上班打卡回退默认班次", func(t *testing.T) {
		withDefault := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E003", DefaultShiftID: &day.ID}
		out := punchAt(17, 0)
		info := resolver.DetectDynamic("2026-03-02", withDefault, nil, &out)
		if info.Source != model.SourceFallbackDefault {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceFallbackDefault)
		}
	})

	t.Run("无法识别且无回退", func(t *testing.T) {
		in := punchAt(3, 0)
		info := resolver.DetectDynamic("2026-03-02", emp, &in, nil)
		if info.Source != model.SourceNone {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceNone)
		}
	})

	t.Run("固定回退班次", func(t *testing.T) {
		fixedCfg := DefaultConfig()
		fixedCfg.DynamicShiftFallbackToDefault = false
		fixedCfg.DynamicShiftFallbackShiftID = &evening.ID
		fixedResolver := NewShiftResolver(&fixedCfg, []*model.Shift{day, evening})
		info := fixedResolver.DetectDynamic("2026-03-02", emp, nil, nil)
		if info.Source != model.SourceFallbackFixed {
			t.Errorf("Source = %s, expected %s", info.Source, model.SourceFallbackFixed)
		}
		if info.ShiftName != "晚班" {
			t.Errorf("ShiftName = %s, expected 晚班", info.ShiftName)
		}
	})
}

func TestShiftResolver_SelectBest(t *testing.T) {
	// 两个班次时间完全相同，得分并列，由优先策略决定
	a := testShift("B组班", "09:00", "17:00", 60)
	b := testShift("A组班", "09:00", "17:00", 30)
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}
	in := punchAt(9, 0)
	out := punchAt(17, 0)

	tests := []struct {
		name     string
		priority string
		want     string
	}{
		{"最短休息优先", PriorityLeastBreak, "A组班"},
		{"名称字典序优先", PriorityAlphabetical, "A组班"},
		{"先到先得取首个候选", PriorityFirstFound, "B组班"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MultipleShiftPriority = tt.priority
			resolver := NewShiftResolver(&cfg, []*model.Shift{a, b})
			info := resolver.DetectDynamic("2026-03-02", emp, &in, &out)
			if info.ShiftName != tt.want {
				t.Errorf("ShiftName = %s, expected %s", info.ShiftName, tt.want)
			}
			if len(info.CandidateShifts) != 2 {
				t.Errorf("CandidateShifts = %d, expected 2", len(info.CandidateShifts))
			}
		})
	}

	t.Run("最短班次优先", func(t *testing.T) {
		long := testShift("长班", "09:00", "18:00", 60)
		short := testShift("短班", "09:00", "17:00", 60)
		cfg := DefaultConfig()
		cfg.MultipleShiftPriority = PriorityShortestDuration
		resolver := NewShiftResolver(&cfg, []*model.Shift{long, short})
		// 下班17:30两侧都在容差内
		inT := punchAt(9, 0)
		outT := punchAt(17, 30)
		info := resolver.DetectDynamic("2026-03-02", emp, &inT, &outT)
		if info.ShiftName != "短班" {
			t.Errorf("ShiftName = %s, expected 短班", info.ShiftName)
		}
	})
}
