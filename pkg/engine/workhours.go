package engine

import (
	"math"
	"sort"
	"time"
)

// 奇数次打卡的固定罚时
const oddPunchPenaltySeconds = 3600

// WorkHoursResult 打卡工时计算结果
type WorkHoursResult struct {
	Hours        float64    `json:"hours"`
	FirstPunch   *time.Time `json:"first_punch,omitempty"`
	LastPunch    *time.Time `json:"last_punch,omitempty"`
	PunchCount   int        `json:"punch_count"`
	BreakSeconds float64    `json:"break_seconds"`
}

// CalculateWorkHours 按打卡对计算实际工时
//
// 首末打卡界定工作时段，中间打卡按 OUT/IN 成对视为休息扣除；
// 打卡次数为奇数时额外扣除1小时罚时。结果不为负，保留两位小数。
// 打卡顺序无关：内部先按时间排序。
func CalculateWorkHours(punches []time.Time) WorkHoursResult {
	if len(punches) == 0 {
		return WorkHoursResult{}
	}

	sorted := make([]time.Time, len(punches))
	copy(sorted, punches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	first := sorted[0]
	last := sorted[len(sorted)-1]
	count := len(sorted)

	totalSeconds := last.Sub(first).Seconds()

	// 中间打卡按 OUT/IN 成对累计休息时间
	var breakSeconds float64
	if count > 2 {
		middle := sorted[1 : count-1]
		for i := 0; i+1 < len(middle); i += 2 {
			breakSeconds += middle[i+1].Sub(middle[i]).Seconds()
		}
	}

	var penalty float64
	if count%2 != 0 {
		penalty = oddPunchPenaltySeconds
	}

	workSeconds := totalSeconds - breakSeconds - penalty
	hours := math.Max(0, workSeconds/3600)

	return WorkHoursResult{
		Hours:        round2(hours),
		FirstPunch:   &first,
		LastPunch:    &last,
		PunchCount:   count,
		BreakSeconds: breakSeconds,
	}
}

// WorkDayWindow 返回考勤日的打卡窗口
// 工作日从当日06:00开始，可延续到次日04:00（覆盖跨天夜班）
func WorkDayWindow(date string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start = time.Date(day.Year(), day.Month(), day.Day(), 6, 0, 0, 0, time.Local)
	next := day.AddDate(0, 0, 1)
	end = time.Date(next.Year(), next.Month(), next.Day(), 4, 0, 0, 0, time.Local)
	return start, end, nil
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
