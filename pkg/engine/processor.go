package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// Processor 考勤处理器
// 处理单人单日的打卡记录，产出带状态的日考勤记录
type Processor struct {
	cfg      *Config
	resolver *ShiftResolver
	log      *logger.ProcessorLogger
}

// NewProcessor 创建考勤处理器
// 配置在此处校验，越界配置直接拒绝
func NewProcessor(cfg Config, shifts []*model.Shift) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{
		cfg:      &cfg,
		resolver: NewShiftResolver(&cfg, shifts),
		log:      logger.NewProcessorLogger(),
	}, nil
}

// Config 返回处理器配置
func (p *Processor) Config() *Config {
	return p.cfg
}

// Resolver 返回班次解析器
func (p *Processor) Resolver() *ShiftResolver {
	return p.resolver
}

// DayInput 单人单日处理输入
type DayInput struct {
	Employee *model.Employee
	Date     string // YYYY-MM-DD
	Punches  []time.Time
	Holiday  *model.Holiday
	OnLeave  bool
	Roster   *model.RosterDay
}

// ProcessDay 处理单人单日考勤
//
// 判定优先级：节假日 → 休假 → 每周休息日 → 无打卡缺勤 → 打卡指标计算 → 规则覆盖。
// 记录在返回前由本方法独占，返回后不再修改。
func (p *Processor) ProcessDay(in DayInput) (*model.DailyRecord, error) {
	emp := in.Employee
	if emp == nil {
		return nil, fmt.Errorf("员工信息缺失")
	}
	day, err := time.Parse(model.DateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("解析考勤日期失败: %w", err)
	}

	rec := model.DailyRecord{
		EmployeeID:     emp.ID,
		EmployeeCode:   emp.Code,
		EmployeeName:   emp.Name,
		Department:     emp.Department,
		Designation:    emp.Designation,
		Date:           in.Date,
		DayName:        day.Weekday().String(),
		Status:         model.StatusAbsent,
		OriginalStatus: model.StatusAbsent,
		ShiftName:      "No Shift",
		ShiftSource:    model.SourceNone,
		ExpectedHours:  emp.ExpectedHours(8),
		PunchCount:     len(in.Punches),
	}

	punches := sortedPunches(in.Punches)

	// 节假日优先级最高
	if in.Holiday != nil {
		rec.Status = model.StatusHoliday
		rec.OriginalStatus = model.StatusHoliday
		rec.IsHoliday = true
		rec.HolidayName = in.Holiday.Name
		if len(punches) > 0 {
			p.processNonWorkingDayPunches(&rec, punches, p.cfg.HolidayOvertimeFullDay)
		}
		return &rec, nil
	}

	// 已批准休假
	if in.OnLeave {
		rec.Status = model.StatusLeave
		rec.OriginalStatus = model.StatusLeave
		rec.IsLeave = true
		return &rec, nil
	}

	// 每周休息日
	if p.cfg.IsWeekend(in.Date) {
		rec.Status = model.StatusWeeklyOff
		rec.OriginalStatus = model.StatusWeeklyOff
		rec.IsWeeklyOff = true
		rec.HolidayName = fmt.Sprintf("%s (Weekend)", day.Weekday().String())
		if len(punches) > 0 {
			p.processNonWorkingDayPunches(&rec, punches, p.cfg.WeekendOvertimeFullDay)
		}
		return &rec, nil
	}

	// 无打卡：解析班次用于缺勤分析后返回
	if len(punches) == 0 {
		applyShiftInfo(&rec, p.resolver.Resolve(in.Date, emp, in.Roster))
		return &rec, nil
	}

	rec.InTime = &punches[0]
	if len(punches) > 1 {
		rec.OutTime = &punches[len(punches)-1]
	}

	// 动态识别或按优先级解析班次
	var info ShiftInfo
	if p.cfg.EnableDynamicShiftDetection {
		info = p.resolver.DetectDynamic(in.Date, emp, rec.InTime, rec.OutTime)
		rec.DynamicUsed = true
	} else {
		info = p.resolver.Resolve(in.Date, emp, in.Roster)
	}
	applyShiftInfo(&rec, info)

	if info.Shift != nil && info.ExpectedStart != nil && info.ExpectedEnd != nil {
		p.calculateMetrics(&rec, emp, info)
	} else {
		p.calculateBasicMetrics(&rec)
	}

	rec = applyRules(p.cfg, rec)

	if rec.ExcessiveHoursFlag {
		p.log.ExcessiveHours(rec.EmployeeCode, rec.Date, rec.WorkingHours)
	}

	return &rec, nil
}

// calculateMetrics 按班次计算考勤指标
func (p *Processor) calculateMetrics(rec *model.DailyRecord, emp *model.Employee, info ShiftInfo) {
	grace := p.graceMinutes(emp, info.Shift)

	// 迟到判定
	lateThreshold := info.ExpectedStart.Add(time.Duration(grace) * time.Minute)
	if rec.InTime.After(lateThreshold) {
		rec.LateMinutes = int(math.Round(rec.InTime.Sub(*info.ExpectedStart).Minutes()))
		rec.Status = model.StatusLate
		rec.OriginalStatus = model.StatusLate
	} else {
		rec.Status = model.StatusPresent
		rec.OriginalStatus = model.StatusPresent
	}

	// 工时计算（首末打卡时段减去休息时间）
	if rec.OutTime != nil {
		totalHours := rec.OutTime.Sub(*rec.InTime).Hours()
		bm := breakMinutes(p.cfg, info.Shift, totalHours)
		rec.BreakMinutes = int(bm)
		rec.WorkingHours = math.Max(0, round2(totalHours-bm/60))
		rec.NetWorkingHours = rec.WorkingHours
	}

	// 早退判定
	if rec.OutTime != nil {
		earlyThreshold := info.ExpectedEnd.Add(-time.Duration(p.cfg.EarlyOutThresholdMinutes) * time.Minute)
		if rec.OutTime.Before(earlyThreshold) {
			rec.EarlyOutMinutes = int(math.Round(info.ExpectedEnd.Sub(*rec.OutTime).Minutes()))
		}
	}

	// 加班计算
	if rec.OutTime != nil {
		ot := calculateOvertime(p.cfg, rec, emp, info.ExpectedEnd)
		rec.OvertimeHours = ot.OvertimeHours
		rec.OTBreakMinutes = ot.OTBreakMinutes
	}

	rec.QualityScore = qualityScore(rec)
}

// calculateBasicMetrics 无班次信息时的基础指标计算
func (p *Processor) calculateBasicMetrics(rec *model.DailyRecord) {
	rec.Status = model.StatusPresent
	rec.OriginalStatus = model.StatusPresent

	if rec.OutTime != nil {
		hours := rec.OutTime.Sub(*rec.InTime).Hours()
		hours = math.Max(0, hours-float64(p.cfg.DefaultBreakMinutes)/60)
		rec.WorkingHours = round2(hours)
		rec.NetWorkingHours = rec.WorkingHours
		rec.BreakMinutes = p.cfg.DefaultBreakMinutes
	}

	rec.QualityScore = qualityScore(rec)
}

// processNonWorkingDayPunches 处理节假日/休息日的打卡
// 开启整日加班时全部工时计为加班
func (p *Processor) processNonWorkingDayPunches(rec *model.DailyRecord, punches []time.Time, fullDayOvertime bool) {
	rec.InTime = &punches[0]
	if len(punches) > 1 {
		rec.OutTime = &punches[len(punches)-1]
	}

	if rec.OutTime != nil && fullDayOvertime {
		totalHours := rec.OutTime.Sub(*rec.InTime).Hours()
		working := totalHours - float64(p.cfg.DefaultBreakMinutes)/60

		rec.WorkingHours = math.Max(0, round2(working))
		rec.OvertimeHours = rec.WorkingHours
		rec.BreakMinutes = p.cfg.DefaultBreakMinutes
	}
}

// graceMinutes 解析生效的迟到宽限时间
// 班次级 → 员工级 → 全局，逐级回退
func (p *Processor) graceMinutes(emp *model.Employee, shift *model.Shift) int {
	if p.cfg.UseShiftGraceTime && shift != nil && shift.GraceTime > 0 {
		return shift.GraceTime
	}
	if p.cfg.UseEmployeeSpecificGrace {
		return emp.GraceMinutes(p.cfg.GraceMinutes)
	}
	return p.cfg.GraceMinutes
}

// qualityScore 计算考勤记录质量分（0-100）
func qualityScore(rec *model.DailyRecord) int {
	score := 0

	if rec.PunchCount > 0 {
		score += 30
	}

	if rec.InTime != nil && rec.OutTime != nil {
		score += 40
	} else if rec.InTime != nil {
		score += 20
	}

	punchScore := rec.PunchCount * 5
	if punchScore > 20 {
		punchScore = 20
	}
	score += punchScore

	// 合理工时区间加分
	if rec.InTime != nil && rec.OutTime != nil {
		if rec.WorkingHours >= 4 && rec.WorkingHours <= 12 {
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// applyShiftInfo 将班次解析结果写入记录
func applyShiftInfo(rec *model.DailyRecord, info ShiftInfo) {
	if info.Shift != nil {
		id := info.Shift.ID
		rec.ShiftID = &id
		rec.ShiftStartTime = info.Shift.StartTime
		rec.ShiftEndTime = info.Shift.EndTime
	}
	rec.ShiftName = info.ShiftName
	rec.ShiftSource = info.Source
	rec.ExpectedStart = info.ExpectedStart
	rec.ExpectedEnd = info.ExpectedEnd
	rec.RosterInfo = info.RosterInfo
	rec.IsRosterDay = info.IsRosterDay
	rec.MatchConfidence = info.MatchConfidence
	rec.CandidateShifts = info.CandidateShifts
	if info.DynamicUsed {
		rec.DynamicUsed = true
	}
}

// sortedPunches 返回按时间升序的打卡副本
func sortedPunches(punches []time.Time) []time.Time {
	if len(punches) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(punches))
	copy(sorted, punches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return sorted
}
