package engine

import (
	"testing"
	"time"
)

func punchAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.Local)
}

func TestCalculateWorkHours(t *testing.T) {
	tests := []struct {
		name      string
		punches   []time.Time
		wantHours float64
		wantCount int
	}{
		{
			name:      "无打卡",
			punches:   nil,
			wantHours: 0,
			wantCount: 0,
		},
		{
			name:      "单次打卡扣除罚时",
			punches:   []time.Time{punchAt(9, 0)},
			wantHours: 0,
			wantCount: 1,
		},
		{
			name:      "标准两次打卡",
			punches:   []time.Time{punchAt(9, 0), punchAt(17, 30)},
			wantHours: 8.5,
			wantCount: 2,
		},
		{
			name:      "四次打卡扣除午休",
			punches:   []time.Time{punchAt(9, 0), punchAt(12, 0), punchAt(13, 0), punchAt(18, 0)},
			wantHours: 8.0,
			wantCount: 4,
		},
		{
			name:      "奇数次打卡扣除罚时",
			punches:   []time.Time{punchAt(9, 0), punchAt(13, 0), punchAt(17, 0)},
			wantHours: 7.0,
			wantCount: 3,
		},
		{
			name:      "六次打卡扣除两段休息",
			punches:   []time.Time{punchAt(9, 0), punchAt(12, 0), punchAt(12, 30), punchAt(15, 0), punchAt(15, 30), punchAt(18, 0)},
			wantHours: 8.0,
			wantCount: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateWorkHours(tt.punches)
			if result.Hours != tt.wantHours {
				t.Errorf("Hours = %v, expected %v", result.Hours, tt.wantHours)
			}
			if result.PunchCount != tt.wantCount {
				t.Errorf("PunchCount = %d, expected %d", result.PunchCount, tt.wantCount)
			}
		})
	}
}

func TestCalculateWorkHours_OrderIndependent(t *testing.T) {
	ordered := []time.Time{punchAt(9, 0), punchAt(12, 0), punchAt(13, 0), punchAt(18, 0)}
	shuffled := []time.Time{punchAt(13, 0), punchAt(18, 0), punchAt(9, 0), punchAt(12, 0)}

	a := CalculateWorkHours(ordered)
	b := CalculateWorkHours(shuffled)

	if a.Hours != b.Hours {
		t.Errorf("Hours differ by input order: %v vs %v", a.Hours, b.Hours)
	}
	if !a.FirstPunch.Equal(*b.FirstPunch) || !a.LastPunch.Equal(*b.LastPunch) {
		t.Error("FirstPunch/LastPunch differ by input order")
	}
}

func TestCalculateWorkHours_NeverNegative(t *testing.T) {
	// 跨度不足1小时的奇数次打卡，扣除罚时后截断到0
	result := CalculateWorkHours([]time.Time{punchAt(9, 0), punchAt(9, 30), punchAt(9, 45)})
	if result.Hours < 0 {
		t.Errorf("Hours = %v, expected non-negative", result.Hours)
	}
}

func TestWorkDayWindow(t *testing.T) {
	start, end, err := WorkDayWindow("2026-03-02")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if start.Hour() != 6 || start.Day() != 2 {
		t.Errorf("start = %v, expected 2026-03-02 06:00", start)
	}
	if end.Hour() != 4 || end.Day() != 3 {
		t.Errorf("end = %v, expected 2026-03-03 04:00", end)
	}

	if _, _, err := WorkDayWindow("bad-date"); err == nil {
		t.Error("Expected error for invalid date, got nil")
	}
}
