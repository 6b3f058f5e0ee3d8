package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func TestMonthlyAttendance(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewHourlyCalculator(&cfg)

	emp := &model.Employee{
		BaseModel:   model.NewBaseModel(),
		Code:        "H001",
		Name:        "计时工",
		PerHourRate: decimal.NewFromInt(100),
	}

	punches := []time.Time{
		// 2月2日 09:00-17:00，8小时
		time.Date(2026, 2, 2, 9, 0, 0, 0, time.Local),
		time.Date(2026, 2, 2, 17, 0, 0, 0, time.Local),
		// 2月3日 10:00-14:30，4.5小时
		time.Date(2026, 2, 3, 10, 0, 0, 0, time.Local),
		time.Date(2026, 2, 3, 14, 30, 0, 0, time.Local),
	}

	report, err := calc.MonthlyAttendance(emp, 2026, 2, punches)
	if err != nil {
		t.Fatalf("MonthlyAttendance failed: %v", err)
	}

	if report.TotalDays != 28 {
		t.Errorf("TotalDays = %d, expected 28", report.TotalDays)
	}
	if len(report.Days) != 28 {
		t.Errorf("Days = %d, expected 28", len(report.Days))
	}
	if report.PresentDays != 2 {
		t.Errorf("PresentDays = %d, expected 2", report.PresentDays)
	}
	if report.TotalHours != 12.5 {
		t.Errorf("TotalHours = %v, expected 12.5", report.TotalHours)
	}
	if !report.TotalAmount.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("TotalAmount = %s, expected 1250", report.TotalAmount)
	}
	if report.AvgHoursPerDay != 6.25 {
		t.Errorf("AvgHoursPerDay = %v, expected 6.25", report.AvgHoursPerDay)
	}

	day2 := report.Days[1]
	if day2.Date != "2026-02-02" {
		t.Fatalf("Days[1].Date = %s, expected 2026-02-02", day2.Date)
	}
	if !day2.IsPresent {
		t.Error("Days[1].IsPresent = false, expected true")
	}
	if day2.WorkHours != 8.0 {
		t.Errorf("Days[1].WorkHours = %v, expected 8.0", day2.WorkHours)
	}
	if !day2.DailyAmount.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Days[1].DailyAmount = %s, expected 800", day2.DailyAmount)
	}

	if report.Days[0].IsPresent {
		t.Error("Days[0].IsPresent = true, expected false")
	}
}

func TestMonthlyAttendance_OvernightPunches(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewHourlyCalculator(&cfg)
	emp := &model.Employee{
		BaseModel:   model.NewBaseModel(),
		Code:        "H002",
		PerHourRate: decimal.NewFromInt(50),
	}

	// 夜班 22:00 至次日 02:00，凌晨下班卡落在前一考勤日窗口
	punches := []time.Time{
		time.Date(2026, 2, 10, 22, 0, 0, 0, time.Local),
		time.Date(2026, 2, 11, 2, 0, 0, 0, time.Local),
	}

	report, err := calc.MonthlyAttendance(emp, 2026, 2, punches)
	if err != nil {
		t.Fatalf("MonthlyAttendance failed: %v", err)
	}

	day10 := report.Days[9]
	if day10.WorkHours != 4.0 {
		t.Errorf("Days[9].WorkHours = %v, expected 4.0", day10.WorkHours)
	}
	if day10.PunchCount != 2 {
		t.Errorf("Days[9].PunchCount = %d, expected 2", day10.PunchCount)
	}
}

func TestMonthlyAttendance_InvalidMonth(t *testing.T) {
	cfg := DefaultConfig()
	calc := NewHourlyCalculator(&cfg)
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Code: "H001"}

	tests := []struct {
		name  string
		month int
	}{
		{"月份为零", 0},
		{"月份超界", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := calc.MonthlyAttendance(emp, 2026, tt.month, nil); err == nil {
				t.Error("Expected error for invalid month, got nil")
			}
		})
	}
}
