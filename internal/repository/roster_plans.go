package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllRosterPlans() ([]*domain.RosterPlan, error) {
	query := `
		SELECT
			rp.id,
			rp.name,
			rp.description,
			rp.people_needed,
			rp.min_rest_days,
			rp.time_limit,
			rp.created_at,
			rp.version,
			dd.duty_date
		FROM roster_plans rp
		LEFT JOIN roster_plan_duty_dates dd ON rp.id = dd.roster_plan_id
		ORDER BY rp.id, dd.duty_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.RosterPlan, 0)
	plansByID := make(map[int64]*domain.RosterPlan)

	for rows.Next() {
		plan := &domain.RosterPlan{}
		var dutyDate sql.NullTime

		dst := []any{
			&plan.ID,
			&plan.Name,
			&plan.Description,
			&plan.PeopleNeeded,
			&plan.MinRestDays,
			&plan.TimeLimit,
			&plan.CreatedAt,
			&plan.Version,
			&dutyDate,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		existing, exists := plansByID[plan.ID]
		if !exists {
			plan.DutyDates = make([]time.Time, 0)
			plansByID[plan.ID] = plan
			plans = append(plans, plan)
			existing = plan
		}

		if dutyDate.Valid {
			existing.DutyDates = append(existing.DutyDates, dutyDate.Time)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repository) GetRosterPlanByID(id int64) (*domain.RosterPlan, error) {
	query := `
		SELECT name, description, people_needed, min_rest_days, time_limit, created_at, version
		FROM roster_plans
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	plan := &domain.RosterPlan{
		ID: id,
	}

	dst := []any{&plan.Name, &plan.Description, &plan.PeopleNeeded, &plan.MinRestDays, &plan.TimeLimit, &plan.CreatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	datesQuery := `
		SELECT duty_date FROM roster_plan_duty_dates WHERE roster_plan_id = $1 ORDER BY duty_date
	`
	rows, err := r.dbpool.QueryContext(ctx, datesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plan.DutyDates = make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		plan.DutyDates = append(plan.DutyDates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *Repository) CreateRosterPlan(plan *domain.RosterPlan) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO roster_plans (name, description, people_needed, min_rest_days, time_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{plan.Name, plan.Description, plan.PeopleNeeded, plan.MinRestDays, plan.TimeLimit}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO roster_plan_duty_dates (roster_plan_id, duty_date)
		VALUES ($1, $2)
	`
	for _, date := range plan.DutyDates {
		if _, err := tx.ExecContext(ctx, query, plan.ID, domain.DateOf(date)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateRosterPlan 更新计划的基本信息和值班日期，
// 值班日期采用整体替换，和创建时保持同一套写入路径
func (r *Repository) UpdateRosterPlan(plan *domain.RosterPlan) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE roster_plans
		SET
			name = $1,
			description = $2,
			people_needed = $3,
			min_rest_days = $4,
			time_limit = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{plan.Name, plan.Description, plan.PeopleNeeded, plan.MinRestDays, plan.TimeLimit, plan.ID, plan.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&plan.Version); err != nil {
		return err
	}

	query = `DELETE FROM roster_plan_duty_dates WHERE roster_plan_id = $1`
	if _, err := tx.ExecContext(ctx, query, plan.ID); err != nil {
		return err
	}

	query = `
		INSERT INTO roster_plan_duty_dates (roster_plan_id, duty_date)
		VALUES ($1, $2)
	`
	for _, date := range plan.DutyDates {
		if _, err := tx.ExecContext(ctx, query, plan.ID, domain.DateOf(date)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRosterPlan(id int64) error {
	query := `
		DELETE FROM roster_plans WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
