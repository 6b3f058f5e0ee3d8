// Package model 定义考勤引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Shift 班次定义
type Shift struct {
	BaseModel
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	StartTime string    `json:"start_time" db:"start_time"` // HH:MM
	EndTime   string    `json:"end_time" db:"end_time"`     // HH:MM
	BreakTime int       `json:"break_time" db:"break_time"` // 休息时间（分钟）
	GraceTime int       `json:"grace_time" db:"grace_time"` // 迟到宽限（分钟）
	IsActive  bool      `json:"is_active" db:"is_active"`
}

// TimeLayout 班次时间字符串格式
const TimeLayout = "15:04"

// IsOvernight 检查是否为跨天班次（结束时间早于开始时间）
func (s *Shift) IsOvernight() bool {
	return s.EndTime < s.StartTime
}

// DurationMinutes 返回班次排定时长（分钟，跨天班次按次日结束计算）
func (s *Shift) DurationMinutes() int {
	start, err1 := time.Parse(TimeLayout, s.StartTime)
	end, err2 := time.Parse(TimeLayout, s.EndTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	if s.IsOvernight() {
		end = end.AddDate(0, 0, 1)
	}
	return int(end.Sub(start).Minutes())
}

// Window 返回班次在指定日期的期望上下班时间
// 跨天班次的结束时间落在次日
func (s *Shift) Window(date string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析日期失败: %w", err)
	}

	st, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析班次开始时间失败: %w", err)
	}
	et, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析班次结束时间失败: %w", err)
	}

	start = time.Date(day.Year(), day.Month(), day.Day(), st.Hour(), st.Minute(), 0, 0, time.Local)
	end = time.Date(day.Year(), day.Month(), day.Day(), et.Hour(), et.Minute(), 0, 0, time.Local)
	if s.IsOvernight() {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// EffectiveBreak 返回班次休息时间（未配置时回退给定默认值）
func (s *Shift) EffectiveBreak(fallback int) int {
	if s.BreakTime > 0 {
		return s.BreakTime
	}
	return fallback
}
