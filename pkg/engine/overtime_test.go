package engine

import (
	"testing"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func TestBreakMinutes(t *testing.T) {
	shift := testShift("白班", "09:00", "17:00", 45)

	t.Run("固定扣减取班次休息", func(t *testing.T) {
		cfg := DefaultConfig()
		if got := breakMinutes(&cfg, shift, 8); got != 45 {
			t.Errorf("breakMinutes = %v, expected 45", got)
		}
	})

	t.Run("无班次取默认休息", func(t *testing.T) {
		cfg := DefaultConfig()
		if got := breakMinutes(&cfg, nil, 8); got != 60 {
			t.Errorf("breakMinutes = %v, expected 60", got)
		}
	})

	t.Run("关闭班次休息取默认", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UseShiftBreakTime = false
		if got := breakMinutes(&cfg, shift, 8); got != 60 {
			t.Errorf("breakMinutes = %v, expected 60", got)
		}
	})

	t.Run("按比例分档扣减", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UseShiftBreakTime = false
		cfg.BreakDeductionMethod = BreakProportional

		tests := []struct {
			name       string
			totalHours float64
			want       float64
		}{
			{"不足4小时扣一半", 3, 30},
			{"不足6小时扣四分之三", 5, 45},
			{"超过6小时全额", 8, 60},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := breakMinutes(&cfg, nil, tt.totalHours); got != tt.want {
					t.Errorf("breakMinutes(%.0fh) = %v, expected %v", tt.totalHours, got, tt.want)
				}
			})
		}
	})
}

func TestCalculateOvertime_ShiftBased(t *testing.T) {
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001"}
	expectedEnd := punchAt(17, 0)

	newRec := func(outHour, outMin int) *model.DailyRecord {
		in := punchAt(9, 0)
		out := punchAt(outHour, outMin)
		return &model.DailyRecord{InTime: &in, OutTime: &out}
	}

	t.Run("超过起算点计入加班", func(t *testing.T) {
		cfg := DefaultConfig()
		// 19:00 下班，起算点 17:15，加班 1.75 小时
		ot := calculateOvertime(&cfg, newRec(19, 0), emp, &expectedEnd)
		if ot.OvertimeHours != 1.75 {
			t.Errorf("OvertimeHours = %v, expected 1.75", ot.OvertimeHours)
		}
	})

	t.Run("不足最低门槛计为0", func(t *testing.T) {
		cfg := DefaultConfig()
		// 18:00 下班，起算点后仅45分钟，低于60分钟门槛
		ot := calculateOvertime(&cfg, newRec(18, 0), emp, &expectedEnd)
		if ot.OvertimeHours != 0 {
			t.Errorf("OvertimeHours = %v, expected 0", ot.OvertimeHours)
		}
	})

	t.Run("按时下班无加班", func(t *testing.T) {
		cfg := DefaultConfig()
		ot := calculateOvertime(&cfg, newRec(17, 0), emp, &expectedEnd)
		if ot.OvertimeHours != 0 {
			t.Errorf("OvertimeHours = %v, expected 0", ot.OvertimeHours)
		}
	})

	t.Run("迟到顺延加班起点", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LateAffectsOvertime = true
		rec := newRec(19, 0)
		rec.LateMinutes = 30
		// 起算点顺延到 17:45，加班 1.25 小时
		ot := calculateOvertime(&cfg, rec, emp, &expectedEnd)
		if ot.OvertimeHours != 1.25 {
			t.Errorf("OvertimeHours = %v, expected 1.25", ot.OvertimeHours)
		}
	})

	t.Run("加班时段单独扣休息", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SeparateOTBreakMinutes = 30
		// 20:15 下班，起算点后180分钟，扣30分钟休息后2.5小时
		ot := calculateOvertime(&cfg, newRec(20, 15), emp, &expectedEnd)
		if ot.OvertimeHours != 2.5 {
			t.Errorf("OvertimeHours = %v, expected 2.5", ot.OvertimeHours)
		}
		if ot.OTBreakMinutes != 30 {
			t.Errorf("OTBreakMinutes = %d, expected 30", ot.OTBreakMinutes)
		}
	})

	t.Run("缺下班打卡不计加班", func(t *testing.T) {
		cfg := DefaultConfig()
		in := punchAt(9, 0)
		ot := calculateOvertime(&cfg, &model.DailyRecord{InTime: &in}, emp, &expectedEnd)
		if ot.OvertimeHours != 0 {
			t.Errorf("OvertimeHours = %v, expected 0", ot.OvertimeHours)
		}
	})
}

func TestCalculateOvertime_EmployeeBased(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OvertimeCalculationMethod = OvertimeEmployeeBased

	in := punchAt(9, 0)
	out := punchAt(19, 0)
	rec := &model.DailyRecord{InTime: &in, OutTime: &out}

	t.Run("员工期望工时为基准", func(t *testing.T) {
		emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", ExpectedWorkingHours: 7}
		// 起算点 09:00+7h+15m = 16:15，加班 2.75 小时
		ot := calculateOvertime(&cfg, rec, emp, nil)
		if ot.OvertimeHours != 2.75 {
			t.Errorf("OvertimeHours = %v, expected 2.75", ot.OvertimeHours)
		}
	})

	t.Run("关闭员工期望工时回退8小时", func(t *testing.T) {
		noOverride := cfg
		noOverride.UseEmployeeExpectedHours = false
		emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", ExpectedWorkingHours: 7}
		// 起算点 09:00+8h+15m = 17:15，加班 1.75 小时
		ot := calculateOvertime(&noOverride, rec, emp, nil)
		if ot.OvertimeHours != 1.75 {
			t.Errorf("OvertimeHours = %v, expected 1.75", ot.OvertimeHours)
		}
	})
}

func TestCalculateOvertime_FixedHours(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OvertimeCalculationMethod = OvertimeFixedHours
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected fixed_hours: %v", err)
	}

	in := punchAt(9, 0)
	out := punchAt(19, 0)
	rec := &model.DailyRecord{InTime: &in, OutTime: &out}

	t.Run("以打卡加期望工时为起点", func(t *testing.T) {
		emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E001", ExpectedWorkingHours: 7}
		// 起算点 09:00+7h+15m = 16:15，加班 2.75 小时
		ot := calculateOvertime(&cfg, rec, emp, nil)
		if ot.OvertimeHours != 2.75 {
			t.Errorf("OvertimeHours = %v, expected 2.75", ot.OvertimeHours)
		}
		if ot.Method != OvertimeFixedHours {
			t.Errorf("Method = %s, expected %s", ot.Method, OvertimeFixedHours)
		}
	})

	t.Run("无期望工时取8小时", func(t *testing.T) {
		emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "E002"}
		// 起算点 09:00+8h+15m = 17:15，加班 1.75 小时
		ot := calculateOvertime(&cfg, rec, emp, nil)
		if ot.OvertimeHours != 1.75 {
			t.Errorf("OvertimeHours = %v, expected 1.75", ot.OvertimeHours)
		}
	})
}
