// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// ShiftRepository 班次仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建班次
func (r *ShiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	query := `
		INSERT INTO shifts (
			id, org_id, name, start_time, end_time,
			break_time, grace_time, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.OrgID, shift.Name, shift.StartTime, shift.EndTime,
		shift.BreakTime, shift.GraceTime, shift.IsActive, shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班次
func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	query := `
		SELECT id, org_id, name, start_time, end_time,
			break_time, grace_time, is_active, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND deleted_at IS NULL
	`

	shift := &model.Shift{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&shift.ID, &shift.OrgID, &shift.Name, &shift.StartTime, &shift.EndTime,
		&shift.BreakTime, &shift.GraceTime, &shift.IsActive, &shift.CreatedAt, &shift.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询班次失败: %w", err)
	}

	return shift, nil
}

// Update 更新班次
func (r *ShiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	shift.UpdatedAt = time.Now()

	query := `
		UPDATE shifts SET
			name = $2, start_time = $3, end_time = $4,
			break_time = $5, grace_time = $6, is_active = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.Name, shift.StartTime, shift.EndTime,
		shift.BreakTime, shift.GraceTime, shift.IsActive, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// Delete 软删除班次
func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shifts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// List 查询班次列表
func (r *ShiftRepository) List(ctx context.Context, filter ListFilter) ([]*model.Shift, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.OrgID != nil {
		conditions = append(conditions, fmt.Sprintf("org_id = $%d", argIndex))
		args = append(args, *filter.OrgID)
		argIndex++
	}

	if filter.Status != "" {
		isActive := filter.Status == "active"
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, isActive)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	// 查询总数
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shifts WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	// 查询列表
	query := fmt.Sprintf(`
		SELECT id, org_id, name, start_time, end_time,
			break_time, grace_time, is_active, created_at, updated_at
		FROM shifts
		WHERE %s
		ORDER BY start_time ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		shift := &model.Shift{}
		if err := rows.Scan(
			&shift.ID, &shift.OrgID, &shift.Name, &shift.StartTime, &shift.EndTime,
			&shift.BreakTime, &shift.GraceTime, &shift.IsActive, &shift.CreatedAt, &shift.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("扫描行失败: %w", err)
		}
		shifts = append(shifts, shift)
	}

	return shifts, total, nil
}

// ListActive 获取组织下所有启用的班次
func (r *ShiftRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]*model.Shift, error) {
	filter := DefaultListFilter().WithOrgID(orgID).WithStatus("active").WithLimit(100)
	shifts, _, err := r.List(ctx, filter)
	return shifts, err
}
