// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// HolidayRepository 节假日仓储
type HolidayRepository struct {
	db DB
}

// NewHolidayRepository 创建节假日仓储
func NewHolidayRepository(db DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create 创建节假日
func (r *HolidayRepository) Create(ctx context.Context, h *model.Holiday) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now

	query := `
		INSERT INTO holidays (id, org_id, name, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.OrgID, h.Name, h.Date, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建节假日失败: %w", err)
	}

	return nil
}

// ListInRange 获取组织在日期范围内的节假日
func (r *HolidayRepository) ListInRange(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]*model.Holiday, error) {
	query := `
		SELECT id, org_id, name, date, created_at, updated_at
		FROM holidays
		WHERE org_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询节假日失败: %w", err)
	}
	defer rows.Close()

	var holidays []*model.Holiday
	for rows.Next() {
		h := &model.Holiday{}
		if err := rows.Scan(&h.ID, &h.OrgID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, nil
}

// Delete 软删除节假日
func (r *HolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE holidays SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除节假日失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("节假日不存在")
	}

	return nil
}

// LeaveRepository 休假申请仓储
type LeaveRepository struct {
	db DB
}

// NewLeaveRepository 创建休假申请仓储
func NewLeaveRepository(db DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Create 创建休假申请
func (r *LeaveRepository) Create(ctx context.Context, l *model.LeaveApplication) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
		INSERT INTO leave_applications (
			id, org_id, employee_id, leave_type, start_date, end_date,
			status, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.OrgID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate,
		l.Status, l.Reason, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建休假申请失败: %w", err)
	}

	return nil
}

// UpdateStatus 更新休假申请状态
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeaveStatus) error {
	query := `
		UPDATE leave_applications SET status = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("更新休假状态失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("休假申请不存在")
	}

	return nil
}

// ListApprovedInRange 获取组织内与日期范围有交集的已批准休假
func (r *LeaveRepository) ListApprovedInRange(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]*model.LeaveApplication, error) {
	query := `
		SELECT id, org_id, employee_id, leave_type, start_date, end_date,
			status, reason, created_at, updated_at
		FROM leave_applications
		WHERE org_id = $1 AND status = $2
			AND start_date <= $3 AND end_date >= $4
			AND deleted_at IS NULL
		ORDER BY employee_id, start_date
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, model.LeaveApproved, endDate, startDate)
	if err != nil {
		return nil, fmt.Errorf("查询休假申请失败: %w", err)
	}
	defer rows.Close()

	var leaves []*model.LeaveApplication
	for rows.Next() {
		l := &model.LeaveApplication{}
		if err := rows.Scan(
			&l.ID, &l.OrgID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate,
			&l.Status, &l.Reason, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		leaves = append(leaves, l)
	}

	return leaves, nil
}

// RosterRepository 排班表仓储
type RosterRepository struct {
	db DB
}

// NewRosterRepository 创建排班表仓储
func NewRosterRepository(db DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// CreateBatch 批量创建排班记录
func (r *RosterRepository) CreateBatch(ctx context.Context, days []*model.RosterDay) error {
	if len(days) == 0 {
		return nil
	}

	now := time.Now()
	query := `
		INSERT INTO roster_days (
			id, org_id, roster_name, employee_id, date, shift_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			roster_name = EXCLUDED.roster_name,
			shift_id = EXCLUDED.shift_id,
			updated_at = EXCLUDED.updated_at
	`

	for _, d := range days {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.CreatedAt = now
		d.UpdatedAt = now

		if _, err := r.db.ExecContext(ctx, query,
			d.ID, d.OrgID, d.RosterName, d.EmployeeID, d.Date, d.ShiftID, d.CreatedAt, d.UpdatedAt,
		); err != nil {
			return fmt.Errorf("创建排班记录失败: %w", err)
		}
	}

	return nil
}

// ListInRange 获取组织在日期范围内的排班记录
func (r *RosterRepository) ListInRange(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]*model.RosterDay, error) {
	query := `
		SELECT id, org_id, roster_name, employee_id, date, shift_id, created_at, updated_at
		FROM roster_days
		WHERE org_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY employee_id, date
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询排班记录失败: %w", err)
	}
	defer rows.Close()

	var days []*model.RosterDay
	for rows.Next() {
		d := &model.RosterDay{}
		if err := rows.Scan(
			&d.ID, &d.OrgID, &d.RosterName, &d.EmployeeID, &d.Date, &d.ShiftID, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		days = append(days, d)
	}

	return days, nil
}
