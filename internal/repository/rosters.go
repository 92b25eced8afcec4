package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

// InsertRoster 写入一份排班表，一个计划只保留最新的一份，旧的先删掉
func (r *Repository) InsertRoster(roster *domain.Roster) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM rosters WHERE roster_plan_id = $1`
	if _, err := tx.ExecContext(ctx, query, roster.RosterPlanID); err != nil {
		return err
	}

	query = `
		INSERT INTO rosters (roster_plan_id, status, objective)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, roster.RosterPlanID, roster.Status, roster.Objective).Scan(&roster.ID, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO roster_assignments (roster_id, duty_date, person_id)
		VALUES ($1, $2, $3)
	`
	for _, assignment := range roster.Assignments {
		for _, personID := range assignment.PersonIDs {
			if _, err := tx.ExecContext(ctx, query, roster.ID, domain.DateOf(assignment.DutyDate), personID); err != nil {
				return err
			}
		}
	}

	query = `
		INSERT INTO roster_fairness (
			roster_id, person_id, assigned_count, available_days,
			normalized_rate, fair_share, positive_deviation, negative_deviation
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, fairness := range roster.Fairness {
		args := []any{
			roster.ID, fairness.PersonID, fairness.AssignedCount, fairness.AvailableDays,
			fairness.NormalizedRate, fairness.FairShare, fairness.PositiveDeviation, fairness.NegativeDeviation,
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRosterByPlanID(planID int64) (*domain.Roster, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, status, objective, created_at, version
		FROM rosters
		WHERE roster_plan_id = $1
	`

	roster := &domain.Roster{
		RosterPlanID: planID,
	}

	dst := []any{&roster.ID, &roster.Status, &roster.Objective, &roster.CreatedAt, &roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, planID).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT duty_date, person_id FROM roster_assignments
		WHERE roster_id = $1
		ORDER BY duty_date, person_id
	`
	rows, err := r.dbpool.QueryContext(ctx, query, roster.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster.Assignments = make([]domain.RosterAssignment, 0)
	assignmentIdxByDate := make(map[time.Time]int)

	for rows.Next() {
		var dutyDate time.Time
		var personID int64
		if err := rows.Scan(&dutyDate, &personID); err != nil {
			return nil, err
		}

		day := domain.DateOf(dutyDate)
		idx, exists := assignmentIdxByDate[day]
		if !exists {
			roster.Assignments = append(roster.Assignments, domain.RosterAssignment{DutyDate: day, PersonIDs: make([]int64, 0)})
			idx = len(roster.Assignments) - 1
			assignmentIdxByDate[day] = idx
		}
		roster.Assignments[idx].PersonIDs = append(roster.Assignments[idx].PersonIDs, personID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT person_id, assigned_count, available_days, normalized_rate, fair_share, positive_deviation, negative_deviation
		FROM roster_fairness
		WHERE roster_id = $1
		ORDER BY person_id
	`
	fairnessRows, err := r.dbpool.QueryContext(ctx, query, roster.ID)
	if err != nil {
		return nil, err
	}
	defer fairnessRows.Close()

	roster.Fairness = make([]domain.RosterFairness, 0)
	for fairnessRows.Next() {
		fairness := domain.RosterFairness{}
		dst := []any{
			&fairness.PersonID, &fairness.AssignedCount, &fairness.AvailableDays,
			&fairness.NormalizedRate, &fairness.FairShare, &fairness.PositiveDeviation, &fairness.NegativeDeviation,
		}
		if err := fairnessRows.Scan(dst...); err != nil {
			return nil, err
		}
		roster.Fairness = append(roster.Fairness, fairness)
	}
	if err := fairnessRows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *Repository) DeleteRosterByPlanID(planID int64) error {
	query := `
		DELETE FROM rosters WHERE roster_plan_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, planID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
