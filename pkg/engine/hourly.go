package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// HourlyDay 计时考勤的单日数据
type HourlyDay struct {
	Date        string          `json:"date"`
	WorkHours   float64         `json:"work_hours"`
	DailyAmount decimal.Decimal `json:"daily_amount"`
	FirstPunch  *time.Time      `json:"first_punch,omitempty"`
	LastPunch   *time.Time      `json:"last_punch,omitempty"`
	PunchCount  int             `json:"punch_count"`
	IsPresent   bool            `json:"is_present"`
}

// HourlyMonth 计时考勤的月度汇总
type HourlyMonth struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeCode   string          `json:"employee_code"`
	EmployeeName   string          `json:"employee_name"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	TotalDays      int             `json:"total_days"`
	PresentDays    int             `json:"present_days"`
	TotalHours     float64         `json:"total_hours"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AvgHoursPerDay float64         `json:"avg_hours_per_day"`
	Days           []HourlyDay     `json:"daily_data"`
}

// HourlyCalculator 计时（按小时计薪）考勤计算器
// 适用于无固定班次的员工：按打卡对计算工时，按员工时薪计算应发金额。
// 考勤日窗口为当日06:00至次日04:00，覆盖跨天夜班。
type HourlyCalculator struct {
	cfg *Config
}

// NewHourlyCalculator 创建计时考勤计算器
func NewHourlyCalculator(cfg *Config) *HourlyCalculator {
	return &HourlyCalculator{cfg: cfg}
}

// MonthlyAttendance 计算员工指定月份的计时考勤
// punches 为该员工的全部打卡时间，内部按考勤日窗口切分
func (h *HourlyCalculator) MonthlyAttendance(emp *model.Employee, year, month int, punches []time.Time) (*HourlyMonth, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("月份无效: %d", month)
	}

	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	result := &HourlyMonth{
		EmployeeID:   emp.ID.String(),
		EmployeeCode: emp.Code,
		EmployeeName: emp.Name,
		Year:         year,
		Month:        month,
		TotalDays:    daysInMonth,
		TotalAmount:  decimal.Zero,
		Days:         make([]HourlyDay, 0, daysInMonth),
	}

	rate := emp.PerHourRate

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.Local).Format(model.DateLayout)

		dayPunches, err := punchesInWorkDay(punches, date)
		if err != nil {
			return nil, err
		}

		wh := CalculateWorkHours(dayPunches)
		amount := rate.Mul(decimal.NewFromFloat(wh.Hours)).Round(2)

		day := HourlyDay{
			Date:        date,
			WorkHours:   wh.Hours,
			DailyAmount: amount,
			FirstPunch:  wh.FirstPunch,
			LastPunch:   wh.LastPunch,
			PunchCount:  wh.PunchCount,
			IsPresent:   wh.Hours > 0,
		}
		result.Days = append(result.Days, day)

		if day.IsPresent {
			result.PresentDays++
			result.TotalHours += wh.Hours
			result.TotalAmount = result.TotalAmount.Add(amount)
		}
	}

	result.TotalHours = round2(result.TotalHours)
	result.TotalAmount = result.TotalAmount.Round(2)
	if result.PresentDays > 0 {
		result.AvgHoursPerDay = round2(result.TotalHours / float64(result.PresentDays))
	}

	return result, nil
}

// punchesInWorkDay 过滤落在考勤日窗口内的打卡
func punchesInWorkDay(punches []time.Time, date string) ([]time.Time, error) {
	start, end, err := WorkDayWindow(date)
	if err != nil {
		return nil, fmt.Errorf("解析考勤日窗口失败: %w", err)
	}

	var filtered []time.Time
	for _, p := range punches {
		if !p.Before(start) && !p.After(end) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
