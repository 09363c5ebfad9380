package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/apptagent/libs/db"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

const pgSelectColumns = `user_id, phone_number, person_name, age,
	appointment_date::text, appointment_time::text, appointment_end_time::text`

type PostgresRepository struct {
	pool *db.Pool
}

func NewPostgresRepository(pool *db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresRepository) Insert(ctx context.Context, appt model.Appointment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(phone_number, person_name, age, appointment_date, appointment_time, appointment_end_time)
		VALUES ($1, $2, $3, $4::text::date, $5::text::time, $6::text::time)
		RETURNING user_id
	`, insertArgs(appt)...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (model.Appointment, error) {
	return r.get(ctx, r.pool, id, false)
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+pgSelectColumns+`
		FROM appointments
		ORDER BY appointment_date, appointment_time, user_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanPG(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

// Update locks the row, applies the sparse patch and returns the row as it
// is after the write, all in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, id int64, p model.Patch) (model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := r.get(ctx, tx, id, true)
	if err != nil {
		return model.Appointment{}, err
	}
	stmt, ok := BuildUpdate(Postgres{}, id, p)
	if !ok {
		return current, nil
	}
	if _, err := tx.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
		return model.Appointment{}, fmt.Errorf("update appointment %d: %w", id, err)
	}
	updated, err := r.get(ctx, tx, id, false)
	if err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return db.ReadyCheck(r.pool)(ctx)
}

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresRepository) get(ctx context.Context, q pgQuerier, id int64, forUpdate bool) (model.Appointment, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM appointments WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	appt, err := scanPG(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, ErrNotFound
	}
	return appt, err
}

func scanPG(s pgx.Row) (model.Appointment, error) {
	var rw row
	if err := s.Scan(&rw.id, &rw.phone, &rw.name, &rw.age, &rw.date, &rw.startTime, &rw.endTime); err != nil {
		return model.Appointment{}, err
	}
	return rw.toModel()
}
