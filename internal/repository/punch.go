// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
)

// PunchRepository 打卡记录仓储
type PunchRepository struct {
	db DB
}

// NewPunchRepository 创建打卡记录仓储
func NewPunchRepository(db DB) *PunchRepository {
	return &PunchRepository{db: db}
}

// CreateBatch 批量写入打卡记录（通常来自考勤机同步）
func (r *PunchRepository) CreateBatch(ctx context.Context, punches []*model.Punch) error {
	if len(punches) == 0 {
		return nil
	}

	var values []string
	var args []interface{}
	argIndex := 1

	now := time.Now()
	for _, p := range punches {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.CreatedAt = now
		p.UpdatedAt = now

		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			argIndex, argIndex+1, argIndex+2, argIndex+3,
			argIndex+4, argIndex+5, argIndex+6, argIndex+7,
		))
		args = append(args,
			p.ID, p.OrgID, p.EmployeeID, p.Timestamp,
			p.Device, p.PunchType, p.CreatedAt, p.UpdatedAt,
		)
		argIndex += 8
	}

	query := fmt.Sprintf(`
		INSERT INTO punches (
			id, org_id, employee_id, timestamp, device, punch_type, created_at, updated_at
		) VALUES %s
	`, strings.Join(values, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("批量写入打卡记录失败: %w", err)
	}

	return nil
}

// ListInRange 获取组织在时间范围内的全部打卡记录
func (r *PunchRepository) ListInRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]*model.Punch, error) {
	query := `
		SELECT id, org_id, employee_id, timestamp, device, punch_type, created_at, updated_at
		FROM punches
		WHERE org_id = $1 AND timestamp >= $2 AND timestamp <= $3 AND deleted_at IS NULL
		ORDER BY employee_id, timestamp
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询打卡记录失败: %w", err)
	}
	defer rows.Close()

	var punches []*model.Punch
	for rows.Next() {
		p := &model.Punch{}
		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.EmployeeID, &p.Timestamp,
			&p.Device, &p.PunchType, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		punches = append(punches, p)
	}

	return punches, nil
}

// ListByEmployee 获取员工在时间范围内的打卡记录
func (r *PunchRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]*model.Punch, error) {
	query := `
		SELECT id, org_id, employee_id, timestamp, device, punch_type, created_at, updated_at
		FROM punches
		WHERE employee_id = $1 AND timestamp >= $2 AND timestamp <= $3 AND deleted_at IS NULL
		ORDER BY timestamp
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询打卡记录失败: %w", err)
	}
	defer rows.Close()

	var punches []*model.Punch
	for rows.Next() {
		p := &model.Punch{}
		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.EmployeeID, &p.Timestamp,
			&p.Device, &p.PunchType, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		punches = append(punches, p)
	}

	return punches, nil
}
