package model

import (
	"testing"
)

func TestEmployeeIsActive(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"在职", "active", true},
		{"离职", "inactive", false},
		{"状态为空", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Employee{Status: tt.status}
			if got := e.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestEmployeeExpectedHours(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		fallback float64
		want     float64
	}{
		{"已设置取员工值", 7.5, 8, 7.5},
		{"未设置取默认值", 0, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Employee{ExpectedWorkingHours: tt.hours}
			if got := e.ExpectedHours(tt.fallback); got != tt.want {
				t.Errorf("ExpectedHours(%v) = %v, expected %v", tt.fallback, got, tt.want)
			}
		})
	}
}

func TestEmployeeGraceMinutes(t *testing.T) {
	t.Run("已设置取员工值", func(t *testing.T) {
		grace := 30
		e := &Employee{OvertimeGraceMinutes: &grace}
		if got := e.GraceMinutes(15); got != 30 {
			t.Errorf("GraceMinutes(15) = %d, expected 30", got)
		}
	})

	t.Run("设置为零不回退", func(t *testing.T) {
		grace := 0
		e := &Employee{OvertimeGraceMinutes: &grace}
		if got := e.GraceMinutes(15); got != 0 {
			t.Errorf("GraceMinutes(15) = %d, expected 0", got)
		}
	})

	t.Run("未设置取默认值", func(t *testing.T) {
		e := &Employee{}
		if got := e.GraceMinutes(15); got != 15 {
			t.Errorf("GraceMinutes(15) = %d, expected 15", got)
		}
	})
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name        string
		status      Status
		wantWorked  bool
		wantNonWork bool
	}{
		{"出勤", StatusPresent, true, false},
		{"迟到", StatusLate, true, false},
		{"半天", StatusHalfDay, true, false},
		{"缺勤", StatusAbsent, false, false},
		{"节假日", StatusHoliday, false, true},
		{"休息日", StatusWeeklyOff, false, true},
		{"休假", StatusLeave, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsWorked(); got != tt.wantWorked {
				t.Errorf("IsWorked() = %v, expected %v", got, tt.wantWorked)
			}
			if got := tt.status.IsNonWorking(); got != tt.wantNonWork {
				t.Errorf("IsNonWorking() = %v, expected %v", got, tt.wantNonWork)
			}
		})
	}
}
