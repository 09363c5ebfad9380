package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/md-rashed-zaman/apptagent/libs/db"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

const sqliteSelectColumns = `user_id, phone_number, person_name, age,
	appointment_date, appointment_time, appointment_end_time`

// SQLiteRepository stores appointments in a local SQLite file; it backs the
// chat command on a laptop and the package tests.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(conn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: conn}
}

func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (r *SQLiteRepository) Insert(ctx context.Context, appt model.Appointment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments
			(phone_number, person_name, age, appointment_date, appointment_time, appointment_end_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, insertArgs(appt)...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (model.Appointment, error) {
	return getSQLite(ctx, r.db, id)
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sqliteSelectColumns+`
		FROM appointments
		ORDER BY appointment_date, appointment_time, user_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, p model.Patch) (model.Appointment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getSQLite(ctx, tx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	stmt, ok := BuildUpdate(SQLite{}, id, p)
	if !ok {
		return current, nil
	}
	if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return model.Appointment{}, fmt.Errorf("update appointment %d: %w", id, err)
	}
	updated, err := getSQLite(ctx, tx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Appointment{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return db.SQLReadyCheck(r.db)(ctx)
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func getSQLite(ctx context.Context, q sqlQuerier, id int64) (model.Appointment, error) {
	appt, err := scanSQLite(q.QueryRowContext(ctx, `SELECT `+sqliteSelectColumns+` FROM appointments WHERE user_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Appointment{}, ErrNotFound
	}
	return appt, err
}

func scanSQLite(s sqlScanner) (model.Appointment, error) {
	var rw row
	var age sql.NullInt64
	if err := s.Scan(&rw.id, &rw.phone, &rw.name, &age, &rw.date, &rw.startTime, &rw.endTime); err != nil {
		return model.Appointment{}, err
	}
	if age.Valid {
		a := int(age.Int64)
		rw.age = &a
	}
	return rw.toModel()
}
