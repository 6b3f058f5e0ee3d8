// Package model 定义考勤引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status 日考勤状态
type Status string

const (
	StatusPresent   Status = "P"   // 出勤
	StatusLate      Status = "LAT" // 迟到
	StatusAbsent    Status = "A"   // 缺勤
	StatusHalfDay   Status = "HAL" // 半天
	StatusHoliday   Status = "H"   // 节假日
	StatusWeeklyOff Status = "W"   // 每周休息日
	StatusLeave     Status = "L"   // 休假
)

// IsWorked 检查状态是否计入实际出勤工时
func (s Status) IsWorked() bool {
	return s == StatusPresent || s == StatusLate || s == StatusHalfDay
}

// IsNonWorking 检查状态是否为非工作日（节假日/休息日/休假）
func (s Status) IsNonWorking() bool {
	return s == StatusHoliday || s == StatusWeeklyOff || s == StatusLeave
}

// ShiftSource 班次来源
type ShiftSource string

const (
	SourceRosterDay        ShiftSource = "RosterDay"        // 排班表
	SourceDefault          ShiftSource = "Default"          // 员工默认班次
	SourceDynamicDetection ShiftSource = "DynamicDetection" // 动态识别
	SourceFallbackDefault  ShiftSource = "FallbackDefault"  // 回退到默认班次
	SourceFallbackFixed    ShiftSource = "FallbackFixed"    // 回退到固定班次
	SourceNone             ShiftSource = "None"             // 无班次
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Organization 组织/公司
type Organization struct {
	BaseModel
	Name     string  `json:"name" db:"name"`
	Code     string  `json:"code" db:"code"`
	Settings JSONMap `json:"settings" db:"settings"`
}

// JSONMap 用于存储 JSONB 数据
type JSONMap map[string]interface{}

// DateRange 日期范围
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// DateLayout 日期字符串格式
const DateLayout = "2006-01-02"

// Dates 展开范围内的所有日期（含两端）
func (dr DateRange) Dates() []string {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// Contains 检查日期是否在范围内
func (dr DateRange) Contains(date string) bool {
	return dr.StartDate <= date && date <= dr.EndDate
}

// Days 返回范围内的天数
func (dr DateRange) Days() int {
	return len(dr.Dates())
}
