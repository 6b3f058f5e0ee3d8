package engine

import (
	"testing"
	"time"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func newTestProcessor(t *testing.T, cfg Config, shifts []*model.Shift) *Processor {
	t.Helper()
	p, err := NewProcessor(cfg, shifts)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	return p
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GraceMinutes = -1
	if _, err := NewProcessor(cfg, nil); err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
}

func TestProcessDay_StatusPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	shift := testShift("白班", "09:00", "17:00", 60)
	p := newTestProcessor(t, cfg, []*model.Shift{shift})
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", Name: "张三", DefaultShiftID: &shift.ID}

	t.Run("节假日优先于休息日", func(t *testing.T) {
		// 2026-03-06 是周五（默认休息日），节假日仍优先
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-06",
			Holiday:  &model.Holiday{Name: "春分", Date: "2026-03-06"},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusHoliday {
			t.Errorf("Status = %s, expected H", rec.Status)
		}
		if rec.HolidayName != "春分" {
			t.Errorf("HolidayName = %s, expected 春分", rec.HolidayName)
		}
	})

	t.Run("休假优先于休息日", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{Employee: emp, Date: "2026-03-06", OnLeave: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusLeave {
			t.Errorf("Status = %s, expected L", rec.Status)
		}
		if !rec.IsLeave {
			t.Error("IsLeave = false, expected true")
		}
	})

	t.Run("每周休息日", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{Employee: emp, Date: "2026-03-06"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusWeeklyOff {
			t.Errorf("Status = %s, expected W", rec.Status)
		}
		if rec.HolidayName != "Friday (Weekend)" {
			t.Errorf("HolidayName = %s, expected Friday (Weekend)", rec.HolidayName)
		}
	})

	t.Run("无打卡缺勤仍解析班次", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{Employee: emp, Date: "2026-03-02"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusAbsent {
			t.Errorf("Status = %s, expected A", rec.Status)
		}
		if rec.ShiftName != "白班" {
			t.Errorf("ShiftName = %s, expected 白班", rec.ShiftName)
		}
		if rec.ShiftSource != model.SourceDefault {
			t.Errorf("ShiftSource = %s, expected %s", rec.ShiftSource, model.SourceDefault)
		}
	})
}

func TestProcessDay_NormalDay(t *testing.T) {
	cfg := DefaultConfig()
	shift := testShift("白班", "09:00", "17:00", 60)
	p := newTestProcessor(t, cfg, []*model.Shift{shift})
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", Name: "张三", DefaultShiftID: &shift.ID}

	t.Run("正常出勤", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-02",
			Punches:  []time.Time{punchAt(9, 0), punchAt(17, 0)},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusPresent {
			t.Errorf("Status = %s, expected P", rec.Status)
		}
		// 8小时跨度减去60分钟班次休息
		if rec.WorkingHours != 7.0 {
			t.Errorf("WorkingHours = %v, expected 7.0", rec.WorkingHours)
		}
		if rec.BreakMinutes != 60 {
			t.Errorf("BreakMinutes = %d, expected 60", rec.BreakMinutes)
		}
		if rec.LateMinutes != 0 {
			t.Errorf("LateMinutes = %d, expected 0", rec.LateMinutes)
		}
	})

	t.Run("宽限内不算迟到", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-02",
			Punches:  []time.Time{punchAt(9, 15), punchAt(17, 0)},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusPresent {
			t.Errorf("Status = %s, expected P", rec.Status)
		}
	})

	t.Run("超出宽限算迟到", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-02",
			Punches:  []time.Time{punchAt(9, 30), punchAt(17, 30)},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Status != model.StatusLate {
			t.Errorf("Status = %s, expected LAT", rec.Status)
		}
		// 迟到分钟数从班次开始时间算起
		if rec.LateMinutes != 30 {
			t.Errorf("LateMinutes = %d, expected 30", rec.LateMinutes)
		}
	})

	t.Run("早退判定", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-02",
			Punches:  []time.Time{punchAt(9, 0), punchAt(15, 0)},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.EarlyOutMinutes != 120 {
			t.Errorf("EarlyOutMinutes = %d, expected 120", rec.EarlyOutMinutes)
		}
	})

	t.Run("阈值内不算早退", func(t *testing.T) {
		rec, err := p.ProcessDay(DayInput{
			Employee: emp,
			Date:     "2026-03-02",
			Punches:  []time.Time{punchAt(9, 0), punchAt(16, 45)},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.EarlyOutMinutes != 0 {
			t.Errorf("EarlyOutMinutes = %d, expected 0", rec.EarlyOutMinutes)
		}
	})
}

func TestProcessDay_WeekendOvertime(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestProcessor(t, cfg, nil)
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}

	// 周五打卡 08:00-14:00，跨度6小时减去60分钟默认休息
	friday := time.Date(2026, 3, 6, 8, 0, 0, 0, time.Local)
	rec, err := p.ProcessDay(DayInput{
		Employee: emp,
		Date:     "2026-03-06",
		Punches:  []time.Time{friday, friday.Add(6 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rec.Status != model.StatusWeeklyOff {
		t.Errorf("Status = %s, expected W", rec.Status)
	}
	if rec.OvertimeHours != 5.0 {
		t.Errorf("OvertimeHours = %v, expected 5.0", rec.OvertimeHours)
	}
	if rec.WorkingHours != 5.0 {
		t.Errorf("WorkingHours = %v, expected 5.0", rec.WorkingHours)
	}
}

func TestProcessDay_NoShift(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestProcessor(t, cfg, nil)
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}

	rec, err := p.ProcessDay(DayInput{
		Employee: emp,
		Date:     "2026-03-02",
		Punches:  []time.Time{punchAt(9, 0), punchAt(18, 0)},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rec.Status != model.StatusPresent {
		t.Errorf("Status = %s, expected P", rec.Status)
	}
	if rec.ShiftName != "No Shift" {
		t.Errorf("ShiftName = %s, expected No Shift", rec.ShiftName)
	}
	// 9小时跨度减去60分钟默认休息
	if rec.WorkingHours != 8.0 {
		t.Errorf("WorkingHours = %v, expected 8.0", rec.WorkingHours)
	}
}

func TestProcessDay_MissingEmployee(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestProcessor(t, cfg, nil)

	if _, err := p.ProcessDay(DayInput{Date: "2026-03-02"}); err == nil {
		t.Error("Expected error for nil employee, got nil")
	}
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}
	if _, err := p.ProcessDay(DayInput{Employee: emp, Date: "bad-date"}); err == nil {
		t.Error("Expected error for invalid date, got nil")
	}
}

func TestQualityScore(t *testing.T) {
	in := punchAt(9, 0)
	out := punchAt(17, 0)

	tests := []struct {
		name string
		rec  model.DailyRecord
		want int
	}{
		{"无打卡", model.DailyRecord{}, 0},
		{"仅上班打卡", model.DailyRecord{InTime: &in, PunchCount: 1}, 55},
		{"打卡齐全工时合理", model.DailyRecord{InTime: &in, OutTime: &out, PunchCount: 2, WorkingHours: 7}, 90},
		{"打卡齐全工时过短", model.DailyRecord{InTime: &in, OutTime: &out, PunchCount: 2, WorkingHours: 2}, 80},
		{"多次打卡封顶", model.DailyRecord{InTime: &in, OutTime: &out, PunchCount: 8, WorkingHours: 8}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qualityScore(&tt.rec); got != tt.want {
				t.Errorf("qualityScore = %d, expected %d", got, tt.want)
			}
		})
	}
}
