package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// BatchContext 一次批量处理的数据快照
// 在批量开始前一次性装载，处理期间不可变
type BatchContext struct {
	Employees []*model.Employee
	Shifts    []*model.Shift
	Holidays  map[string]*model.Holiday                 // date → 节假日
	Leaves    map[uuid.UUID][]*model.LeaveApplication   // 员工 → 已批准休假
	Roster    map[uuid.UUID]map[string]*model.RosterDay // 员工 → date → 排班
	Punches   map[uuid.UUID]map[string][]time.Time      // 员工 → date → 打卡时间
}

// HolidayOn 返回指定日期的节假日
func (bc *BatchContext) HolidayOn(date string) *model.Holiday {
	return bc.Holidays[date]
}

// OnLeave 检查员工在指定日期是否处于已批准休假
func (bc *BatchContext) OnLeave(empID uuid.UUID, date string) bool {
	for _, l := range bc.Leaves[empID] {
		if l.IsApproved() && l.Covers(date) {
			return true
		}
	}
	return false
}

// RosterOn 返回员工在指定日期的排班
func (bc *BatchContext) RosterOn(empID uuid.UUID, date string) *model.RosterDay {
	if days := bc.Roster[empID]; days != nil {
		return days[date]
	}
	return nil
}

// PunchesOn 返回员工在指定日期的打卡时间
func (bc *BatchContext) PunchesOn(empID uuid.UUID, date string) []time.Time {
	if days := bc.Punches[empID]; days != nil {
		return days[date]
	}
	return nil
}

// BatchResult 批量处理结果
type BatchResult struct {
	BatchID  string               `json:"batch_id"`
	Records  []*model.DailyRecord `json:"records"`
	Failures int                  `json:"failures"`
	Duration time.Duration        `json:"duration"`
}

// BatchProcessor 批量考勤处理器
// 按员工×日期展开处理单元，工作池并行处理，单元失败互相隔离
type BatchProcessor struct {
	processor *Processor
	workers   int
	log       *logger.ProcessorLogger
}

// NewBatchProcessor 创建批量处理器
func NewBatchProcessor(p *Processor, workers int) *BatchProcessor {
	if workers <= 0 {
		workers = 4
	}
	return &BatchProcessor{
		processor: p,
		workers:   workers,
		log:       logger.NewProcessorLogger(),
	}
}

// cellJob 单个处理单元任务
type cellJob struct {
	index int
	emp   *model.Employee
	date  string
}

// cellResult 单元处理结果
type cellResult struct {
	index  int
	record *model.DailyRecord
	failed bool
}

// Process 批量处理指定日期范围内所有员工的考勤
//
// 结果按日期、员工工号排序，顺序与并行度无关。
// 单元内 panic 被捕获并转为错误记录，不影响其他单元。
func (b *BatchProcessor) Process(ctx context.Context, bc *BatchContext, dates model.DateRange) (*BatchResult, error) {
	dateList := dates.Dates()
	if len(dateList) == 0 {
		return nil, fmt.Errorf("日期范围无效: %s ~ %s", dates.StartDate, dates.EndDate)
	}

	batchID := uuid.New().String()
	start := time.Now()
	b.log.StartBatch(batchID, len(bc.Employees), len(dateList))

	total := len(bc.Employees) * len(dateList)
	jobChan := make(chan cellJob, total)
	resultChan := make(chan cellResult, total)

	// 启动工作协程
	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					resultChan <- b.processCell(bc, job)
				}
			}
		}()
	}

	// 发送任务
	go func() {
		index := 0
		for _, emp := range bc.Employees {
			for _, date := range dateList {
				jobChan <- cellJob{index: index, emp: emp, date: date}
				index++
			}
		}
		close(jobChan)
	}()

	// 等待完成
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// 收集结果
	records := make([]*model.DailyRecord, total)
	failures := 0
	for result := range resultChan {
		records[result.index] = result.record
		if result.failed {
			failures++
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 取消场景以外不会出现空槽，保守过滤一次
	compact := records[:0]
	for _, r := range records {
		if r != nil {
			compact = append(compact, r)
		}
	}
	records = compact

	// 按日期、工号排序保证确定性
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].EmployeeCode < records[j].EmployeeCode
	})

	b.applyConsecutiveAbsenceFlag(records)
	b.applyExcessiveEarlyOutFlag(records)

	duration := time.Since(start)
	b.log.BatchComplete(batchID, len(records), failures, duration)

	return &BatchResult{
		BatchID:  batchID,
		Records:  records,
		Failures: failures,
		Duration: duration,
	}, nil
}

// processCell 处理单个单元，panic 转为错误记录
// 空员工条目在此拦截，保证 recover 分支内不再发生二次 panic
func (b *BatchProcessor) processCell(bc *BatchContext, job cellJob) (result cellResult) {
	result.index = job.index

	if job.emp == nil {
		b.log.CellFailure("", job.date, "员工数据为空")
		result.record = errorRecord(&model.Employee{}, job.date, "员工数据为空")
		result.failed = true
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.CellFailure(job.emp.Code, job.date, r)
			result.record = errorRecord(job.emp, job.date, fmt.Sprintf("panic: %v", r))
			result.failed = true
		}
	}()

	rec, err := b.processor.ProcessDay(DayInput{
		Employee: job.emp,
		Date:     job.date,
		Punches:  bc.PunchesOn(job.emp.ID, job.date),
		Holiday:  bc.HolidayOn(job.date),
		OnLeave:  bc.OnLeave(job.emp.ID, job.date),
		Roster:   bc.RosterOn(job.emp.ID, job.date),
	})
	if err != nil {
		b.log.CellFailure(job.emp.Code, job.date, err)
		result.record = errorRecord(job.emp, job.date, err.Error())
		result.failed = true
		return result
	}

	result.record = rec
	return result
}

// errorRecord 构建单元失败的哨兵记录
func errorRecord(emp *model.Employee, date, reason string) *model.DailyRecord {
	return &model.DailyRecord{
		EmployeeID:      emp.ID,
		EmployeeCode:    emp.Code,
		EmployeeName:    emp.Name,
		Department:      emp.Department,
		Designation:     emp.Designation,
		Date:            date,
		Status:          model.StatusAbsent,
		OriginalStatus:  model.StatusAbsent,
		ShiftName:       "No Shift",
		ShiftSource:     model.SourceNone,
		ProcessingError: reason,
	}
}

// applyConsecutiveAbsenceFlag 连续缺勤达到阈值的记录整段标记离职风险
func (b *BatchProcessor) applyConsecutiveAbsenceFlag(records []*model.DailyRecord) {
	cfg := b.processor.Config()
	if !cfg.EnableConsecutiveAbsenceFlagging {
		return
	}

	byEmployee := groupByEmployee(records)
	for _, recs := range byEmployee {
		run := 0
		for i := 0; i <= len(recs); i++ {
			if i < len(recs) && recs[i].Status == model.StatusAbsent {
				run++
				continue
			}
			if run >= cfg.ConsecutiveAbsenceRiskDays {
				reason := fmt.Sprintf("连续缺勤 %d 天，达到离职风险阈值 %d 天", run, cfg.ConsecutiveAbsenceRiskDays)
				for j := i - run; j < i; j++ {
					recs[j].TerminationRiskFlag = true
					recs[j].FlagReason = reason
				}
			}
			run = 0
		}
	}
}

// applyExcessiveEarlyOutFlag 早退超阈值次数过多的记录标记
func (b *BatchProcessor) applyExcessiveEarlyOutFlag(records []*model.DailyRecord) {
	cfg := b.processor.Config()
	if !cfg.EnableMaxEarlyOutFlagging {
		return
	}

	byEmployee := groupByEmployee(records)
	for _, recs := range byEmployee {
		var hits []*model.DailyRecord
		for _, r := range recs {
			if r.EarlyOutMinutes > cfg.MaxEarlyOutThresholdMinutes {
				hits = append(hits, r)
			}
		}
		if len(hits) > cfg.MaxEarlyOutOccurrences {
			reason := fmt.Sprintf("早退超过 %d 分钟达 %d 次，超出允许次数 %d",
				cfg.MaxEarlyOutThresholdMinutes, len(hits), cfg.MaxEarlyOutOccurrences)
			for _, r := range hits {
				r.ExcessiveEarlyOutFlag = true
				r.FlagReason = reason
			}
		}
	}
}

// groupByEmployee 按员工分组（组内保持日期顺序）
func groupByEmployee(records []*model.DailyRecord) map[uuid.UUID][]*model.DailyRecord {
	grouped := make(map[uuid.UUID][]*model.DailyRecord)
	for _, r := range records {
		grouped[r.EmployeeID] = append(grouped[r.EmployeeID], r)
	}
	for _, recs := range grouped {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })
	}
	return grouped
}
