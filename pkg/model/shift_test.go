package model

import (
	"testing"
)

func TestShiftIsOvernight(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"白班", "09:00", "17:00", false},
		{"夜班跨天", "22:00", "06:00", true},
		{"晚班不跨天", "14:00", "22:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shift{StartTime: tt.start, EndTime: tt.end}
			if got := s.IsOvernight(); got != tt.want {
				t.Errorf("IsOvernight() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestShiftDurationMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"标准8小时", "09:00", "17:00", 480},
		{"跨天夜班", "22:00", "06:00", 480},
		{"半天班", "09:00", "13:30", 270},
		{"非法时间", "bad", "17:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shift{StartTime: tt.start, EndTime: tt.end}
			if got := s.DurationMinutes(); got != tt.want {
				t.Errorf("DurationMinutes() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestShiftWindow(t *testing.T) {
	t.Run("白班同日", func(t *testing.T) {
		s := &Shift{StartTime: "09:00", EndTime: "17:00"}
		start, end, err := s.Window("2026-03-02")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if start.Day() != 2 || start.Hour() != 9 {
			t.Errorf("start = %v, expected 2026-03-02 09:00", start)
		}
		if end.Day() != 2 || end.Hour() != 17 {
			t.Errorf("end = %v, expected 2026-03-02 17:00", end)
		}
	})

	t.Run("夜班结束落次日", func(t *testing.T) {
		s := &Shift{StartTime: "22:00", EndTime: "06:00"}
		start, end, err := s.Window("2026-03-02")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if start.Day() != 2 || start.Hour() != 22 {
			t.Errorf("start = %v, expected 2026-03-02 22:00", start)
		}
		if end.Day() != 3 || end.Hour() != 6 {
			t.Errorf("end = %v, expected 2026-03-03 06:00", end)
		}
	})

	t.Run("非法日期", func(t *testing.T) {
		s := &Shift{StartTime: "09:00", EndTime: "17:00"}
		if _, _, err := s.Window("2026/03/02"); err == nil {
			t.Error("Expected error for invalid date, got nil")
		}
	})

	t.Run("非法班次时间", func(t *testing.T) {
		s := &Shift{StartTime: "9am", EndTime: "17:00"}
		if _, _, err := s.Window("2026-03-02"); err == nil {
			t.Error("Expected error for invalid start time, got nil")
		}
	})
}

func TestShiftEffectiveBreak(t *testing.T) {
	tests := []struct {
		name      string
		breakTime int
		fallback  int
		want      int
	}{
		{"有配置取班次值", 45, 60, 45},
		{"未配置取默认值", 0, 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shift{BreakTime: tt.breakTime}
			if got := s.EffectiveBreak(tt.fallback); got != tt.want {
				t.Errorf("EffectiveBreak(%d) = %d, expected %d", tt.fallback, got, tt.want)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	t.Run("展开日期", func(t *testing.T) {
		dr := DateRange{StartDate: "2026-03-02", EndDate: "2026-03-05"}
		dates := dr.Dates()
		if len(dates) != 4 {
			t.Fatalf("Dates = %d, expected 4", len(dates))
		}
		if dates[0] != "2026-03-02" || dates[3] != "2026-03-05" {
			t.Errorf("Dates = %v, expected 2026-03-02..2026-03-05", dates)
		}
		if dr.Days() != 4 {
			t.Errorf("Days = %d, expected 4", dr.Days())
		}
	})

	t.Run("单日范围", func(t *testing.T) {
		dr := DateRange{StartDate: "2026-03-02", EndDate: "2026-03-02"}
		if dr.Days() != 1 {
			t.Errorf("Days = %d, expected 1", dr.Days())
		}
	})

	t.Run("倒置范围为空", func(t *testing.T) {
		dr := DateRange{StartDate: "2026-03-05", EndDate: "2026-03-02"}
		if dates := dr.Dates(); dates != nil {
			t.Errorf("Dates = %v, expected nil", dates)
		}
	})

	t.Run("跨月展开", func(t *testing.T) {
		dr := DateRange{StartDate: "2026-02-27", EndDate: "2026-03-02"}
		if dr.Days() != 4 {
			t.Errorf("Days = %d, expected 4", dr.Days())
		}
	})

	t.Run("包含判断", func(t *testing.T) {
		dr := DateRange{StartDate: "2026-03-02", EndDate: "2026-03-05"}
		if !dr.Contains("2026-03-03") {
			t.Error("Contains(2026-03-03) = false, expected true")
		}
		if dr.Contains("2026-03-06") {
			t.Error("Contains(2026-03-06) = true, expected false")
		}
	})
}

func TestLeaveApplication(t *testing.T) {
	leave := &LeaveApplication{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-04",
		Status:    LeaveApproved,
	}

	if !leave.IsApproved() {
		t.Error("IsApproved = false, expected true")
	}
	if !leave.Covers("2026-03-03") {
		t.Error("Covers(2026-03-03) = false, expected true")
	}
	if leave.Covers("2026-03-05") {
		t.Error("Covers(2026-03-05) = true, expected false")
	}

	pending := &LeaveApplication{Status: LeavePending}
	if pending.IsApproved() {
		t.Error("IsApproved = true for pending leave, expected false")
	}
}
