package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetPersonByID(id int64) (*domain.Person, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, is_active, is_male, speaks_portuguese, capacity_factor, created_at, version
		FROM people WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	person := &domain.Person{
		ID: id,
	}

	dst := []any{&person.Username, &person.PasswordHash, &person.FullName, &person.Email, &person.Role, &person.IsActive, &person.IsMale, &person.SpeaksPortuguese, &person.CapacityFactor, &person.CreatedAt, &person.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	periods, err := r.getUnavailablePeriods(ctx, id)
	if err != nil {
		return nil, err
	}
	person.UnavailablePeriods = periods

	return person, nil
}

func (r *Repository) GetPersonByUsername(username string) (*domain.Person, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, is_active, is_male, speaks_portuguese, capacity_factor, created_at, version
		FROM people WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	person := &domain.Person{
		Username: username,
	}

	dst := []any{&person.ID, &person.PasswordHash, &person.FullName, &person.Email, &person.Role, &person.IsActive, &person.IsMale, &person.SpeaksPortuguese, &person.CapacityFactor, &person.CreatedAt, &person.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	periods, err := r.getUnavailablePeriods(ctx, person.ID)
	if err != nil {
		return nil, err
	}
	person.UnavailablePeriods = periods

	return person, nil
}

func (r *Repository) getUnavailablePeriods(ctx context.Context, personID int64) ([]domain.UnavailablePeriod, error) {
	query := `
		SELECT start_date, end_date FROM unavailable_periods WHERE person_id = $1 ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]domain.UnavailablePeriod, 0)
	for rows.Next() {
		var start, end sql.NullTime
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}

		period := domain.UnavailablePeriod{}
		if start.Valid {
			period.Start = &start.Time
		}
		if end.Valid {
			period.End = &end.Time
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

func (r *Repository) GetAllPeople() ([]*domain.Person, error) {
	query := `
		SELECT
			p.id, p.username, p.password_hash, p.full_name, p.email, p.role, p.is_active,
			p.is_male, p.speaks_portuguese, p.capacity_factor, p.created_at, p.version,
			up.start_date, up.end_date
		FROM people p
		LEFT JOIN unavailable_periods up ON p.id = up.person_id
		ORDER BY p.id, up.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	people := make([]*domain.Person, 0)
	peopleByID := make(map[int64]*domain.Person)

	for rows.Next() {
		person := &domain.Person{}
		var start, end sql.NullTime

		dst := []any{
			&person.ID, &person.Username, &person.PasswordHash, &person.FullName, &person.Email, &person.Role, &person.IsActive,
			&person.IsMale, &person.SpeaksPortuguese, &person.CapacityFactor, &person.CreatedAt, &person.Version,
			&start, &end,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		existing, exists := peopleByID[person.ID]
		if !exists {
			person.UnavailablePeriods = make([]domain.UnavailablePeriod, 0)
			peopleByID[person.ID] = person
			people = append(people, person)
			existing = person
		}

		// LEFT JOIN 没有匹配到不可用时间段时两列都是 NULL
		if start.Valid || end.Valid {
			period := domain.UnavailablePeriod{}
			if start.Valid {
				period.Start = &start.Time
			}
			if end.Valid {
				period.End = &end.Time
			}
			existing.UnavailablePeriods = append(existing.UnavailablePeriods, period)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return people, nil
}

func (r *Repository) CreatePerson(person *domain.Person) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO people (username, password_hash, full_name, email, role, is_male, speaks_portuguese, capacity_factor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, version
	`

	args := []any{person.Username, person.PasswordHash, person.FullName, person.Email, person.Role, person.IsMale, person.SpeaksPortuguese, person.CapacityFactor}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&person.ID, &person.IsActive, &person.CreatedAt, &person.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdatePerson(person *domain.Person) error {
	query := `
		UPDATE people
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			is_active = $4,
			is_male = $5,
			speaks_portuguese = $6,
			capacity_factor = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{person.PasswordHash, person.Email, person.Role, person.IsActive, person.IsMale, person.SpeaksPortuguese, person.CapacityFactor, person.ID, person.Version}
	dst := []any{&person.Username, &person.FullName, &person.CreatedAt, &person.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// ReplaceUnavailablePeriods 用新的不可用时间段整体替换此人原有的时间段
func (r *Repository) ReplaceUnavailablePeriods(personID int64, periods []domain.UnavailablePeriod) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM unavailable_periods WHERE person_id = $1`
	if _, err := tx.ExecContext(ctx, query, personID); err != nil {
		return err
	}

	query = `
		INSERT INTO unavailable_periods (person_id, start_date, end_date)
		VALUES ($1, $2, $3)
	`
	for _, period := range periods {
		var start, end sql.NullTime
		if period.Start != nil {
			start = sql.NullTime{Time: *period.Start, Valid: true}
		}
		if period.End != nil {
			end = sql.NullTime{Time: *period.End, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query, personID, start, end); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePerson(id int64) error {
	query := `
		DELETE FROM people WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM people WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
