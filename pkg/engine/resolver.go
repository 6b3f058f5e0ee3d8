package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// ShiftInfo 班次解析结果
type ShiftInfo struct {
	Shift           *model.Shift      `json:"shift,omitempty"`
	ShiftName       string            `json:"shift_name"`
	Source          model.ShiftSource `json:"shift_source"`
	ExpectedStart   *time.Time        `json:"expected_start,omitempty"`
	ExpectedEnd     *time.Time        `json:"expected_end,omitempty"`
	RosterInfo      string            `json:"roster_info,omitempty"`
	IsRosterDay     bool              `json:"is_roster_day"`
	BreakTime       int               `json:"break_time"`
	MatchConfidence float64           `json:"shift_match_confidence"`
	CandidateShifts []string          `json:"multiple_shifts_found,omitempty"`
	DynamicUsed     bool              `json:"dynamic_shift_used"`
}

// shiftMatch 动态识别的候选班次
type shiftMatch struct {
	shift      *model.Shift
	score      float64
	confidence float64
}

// ShiftResolver 班次解析器
// 按排班表 → 员工默认班次 → 无班次的优先级解析，
// 开启动态识别时根据打卡时间为员工匹配最合适的班次
type ShiftResolver struct {
	cfg    *Config
	shifts []*model.Shift
	byID   map[uuid.UUID]*model.Shift
}

// NewShiftResolver 创建班次解析器
func NewShiftResolver(cfg *Config, shifts []*model.Shift) *ShiftResolver {
	byID := make(map[uuid.UUID]*model.Shift, len(shifts))
	for _, s := range shifts {
		byID[s.ID] = s
	}
	return &ShiftResolver{cfg: cfg, shifts: shifts, byID: byID}
}

// ShiftByID 根据ID查找班次
func (r *ShiftResolver) ShiftByID(id uuid.UUID) *model.Shift {
	return r.byID[id]
}

// Resolve 按优先级解析指定日期的班次
func (r *ShiftResolver) Resolve(date string, emp *model.Employee, roster *model.RosterDay) ShiftInfo {
	// 优先级1: 排班表
	if roster != nil {
		if shift := r.byID[roster.ShiftID]; shift != nil {
			return r.buildShiftInfo(shift, model.SourceRosterDay,
				fmt.Sprintf("排班表: %s", roster.RosterName), date, true)
		}
	}

	// 优先级2: 员工默认班次
	if emp.DefaultShiftID != nil {
		if shift := r.byID[*emp.DefaultShiftID]; shift != nil {
			return r.buildShiftInfo(shift, model.SourceDefault, "员工默认班次", date, false)
		}
	}

	return noShiftInfo("未分配班次", r.cfg.DefaultBreakMinutes)
}

// DetectDynamic 根据打卡时间动态识别班次
// 无法识别时按配置回退，永不报错
func (r *ShiftResolver) DetectDynamic(date string, emp *model.Employee, inTime, outTime *time.Time) ShiftInfo {
	if inTime == nil {
		return r.fallback(date, emp, "无上班打卡，无法动态识别")
	}
	if len(r.shifts) == 0 {
		return r.fallback(date, emp, "系统未配置任何班次")
	}

	var matches []shiftMatch
	for _, shift := range r.shifts {
		score := r.matchScore(shift, *inTime, outTime)
		if score > 0 {
			confidence := score / 100
			if confidence > 1.0 {
				confidence = 1.0
			}
			matches = append(matches, shiftMatch{shift: shift, score: score, confidence: confidence})
		}
	}

	if len(matches) == 0 {
		return r.fallback(date, emp, "打卡时间不匹配任何班次")
	}

	// 得分降序，同分保持输入顺序以保证确定性
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	best := matches[0]
	if len(matches) > 1 {
		best = r.selectBest(matches)
	}

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.shift.Name
	}

	info := r.buildShiftInfo(best.shift, model.SourceDynamicDetection,
		fmt.Sprintf("动态识别 (置信度: %.0f%%)", best.confidence*100), date, false)
	info.MatchConfidence = best.confidence
	info.CandidateShifts = candidates
	info.DynamicUsed = true
	return info
}

// matchScore 计算打卡时间与班次的匹配得分
//
// 上下班两侧各50分，在容差窗口内按偏差每分钟递减1分；
// 缺少下班打卡且上班侧已得分时固定加25分
func (r *ShiftResolver) matchScore(shift *model.Shift, inTime time.Time, outTime *time.Time) float64 {
	shiftStart, shiftEnd, err := shift.Window(inTime.Format(model.DateLayout))
	if err != nil {
		return 0
	}

	toleranceSeconds := float64(r.cfg.DynamicShiftToleranceMinutes) * 60
	score := 0.0

	actualStart := combineOnDate(shiftStart, inTime)
	startDiff := absSeconds(actualStart.Sub(shiftStart))
	if startDiff <= toleranceSeconds {
		score += max0(50 - startDiff/60)
	}

	if outTime != nil {
		actualEnd := combineOnDate(shiftStart, *outTime)
		// 跨天下班
		if timeOfDayBefore(*outTime, inTime) {
			actualEnd = actualEnd.AddDate(0, 0, 1)
		}
		endDiff := absSeconds(actualEnd.Sub(shiftEnd))
		if endDiff <= toleranceSeconds {
			score += max0(50 - endDiff/60)
		}
	} else if score > 0 {
		score += 25
	}

	return score
}

// selectBest 多个候选班次间按配置的优先策略取最优
func (r *ShiftResolver) selectBest(matches []shiftMatch) shiftMatch {
	best := matches[0]
	switch r.cfg.MultipleShiftPriority {
	case PriorityLeastBreak:
		for _, m := range matches[1:] {
			if m.shift.EffectiveBreak(r.cfg.DefaultBreakMinutes) < best.shift.EffectiveBreak(r.cfg.DefaultBreakMinutes) {
				best = m
			}
		}
	case PriorityShortestDuration:
		for _, m := range matches[1:] {
			if m.shift.DurationMinutes() < best.shift.DurationMinutes() {
				best = m
			}
		}
	case PriorityAlphabetical:
		for _, m := range matches[1:] {
			if m.shift.Name < best.shift.Name {
				best = m
			}
		}
	case PriorityFirstFound:
		// 得分排序后的首个候选即为最优
	}
	return best
}

// fallback 动态识别失败时的回退链
func (r *ShiftResolver) fallback(date string, emp *model.Employee, reason string) ShiftInfo {
	if r.cfg.DynamicShiftFallbackToDefault && emp.DefaultShiftID != nil {
		if shift := r.byID[*emp.DefaultShiftID]; shift != nil {
			return r.buildShiftInfo(shift, model.SourceFallbackDefault,
				fmt.Sprintf("回退到默认班次: %s", reason), date, false)
		}
	}
	if r.cfg.DynamicShiftFallbackShiftID != nil {
		if shift := r.byID[*r.cfg.DynamicShiftFallbackShiftID]; shift != nil {
			return r.buildShiftInfo(shift, model.SourceFallbackFixed,
				fmt.Sprintf("回退到固定班次: %s", reason), date, false)
		}
	}
	return noShiftInfo(reason, r.cfg.DefaultBreakMinutes)
}

// buildShiftInfo 构建班次信息
func (r *ShiftResolver) buildShiftInfo(shift *model.Shift, source model.ShiftSource, rosterInfo, date string, isRosterDay bool) ShiftInfo {
	start, end, err := shift.Window(date)
	if err != nil {
		return noShiftInfo(fmt.Sprintf("班次时间解析失败: %v", err), r.cfg.DefaultBreakMinutes)
	}

	return ShiftInfo{
		Shift:         shift,
		ShiftName:     shift.Name,
		Source:        source,
		ExpectedStart: &start,
		ExpectedEnd:   &end,
		RosterInfo:    rosterInfo,
		IsRosterDay:   isRosterDay,
		BreakTime:     shift.EffectiveBreak(r.cfg.DefaultBreakMinutes),
	}
}

// noShiftInfo 无班次信息
func noShiftInfo(reason string, defaultBreak int) ShiftInfo {
	return ShiftInfo{
		ShiftName:  "No Shift",
		Source:     model.SourceNone,
		RosterInfo: reason,
		BreakTime:  defaultBreak,
	}
}

// combineOnDate 将打卡时间的时分秒落到参照日期上
func combineOnDate(ref, t time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), t.Second(), 0, ref.Location())
}

// timeOfDayBefore 仅按时分秒比较两个时间
func timeOfDayBefore(a, b time.Time) bool {
	as := a.Hour()*3600 + a.Minute()*60 + a.Second()
	bs := b.Hour()*3600 + b.Minute()*60 + b.Second()
	return as < bs
}

func absSeconds(d time.Duration) float64 {
	s := d.Seconds()
	if s < 0 {
		return -s
	}
	return s
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
