package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"preschool/internal/apperr"
)

// Repository persists attendance entries.
type Repository interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	Get(ctx context.Context, id int64) (Entry, error)
	SetClockOut(ctx context.Context, id int64, at time.Time) error
	SetStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, f Filter) ([]Entry, error)
	Delete(ctx context.Context, id int64) error
}

const entryColumns = `id, subject_type, subject_id, clock_in, clock_out, status, recorded_by, created_at`

// PostgresRepository persists attendance data in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a new entry.
func (r *PostgresRepository) Insert(ctx context.Context, e Entry) (Entry, error) {
	if e.ClockIn.IsZero() {
		e.ClockIn = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.SubjectType == "" {
		e.SubjectType = SubjectStaff
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (subject_type, subject_id, clock_in, status, recorded_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, e.SubjectType, e.SubjectID, e.ClockIn, e.Status, e.RecordedBy)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Get returns a single entry by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM attendance WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
		}
		return Entry{}, err
	}
	return e, nil
}

// SetClockOut fills the clock-out timestamp.
func (r *PostgresRepository) SetClockOut(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE attendance SET clock_out = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

// SetStatus records the approval decision.
func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE attendance SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

// List returns entries with basic filters, newest clock-in first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit, offset := bounds(f)
	query := `SELECT ` + entryColumns + ` FROM attendance`
	args := []any{}
	clauses := []string{}
	if f.SubjectID != 0 {
		args = append(args, f.SubjectID)
		clauses = append(clauses, "subject_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY clock_in DESC, id DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Delete removes an entry.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var out sql.NullTime
	if err := s.Scan(&e.ID, &e.SubjectType, &e.SubjectID, &e.ClockIn, &out, &e.Status, &e.RecordedBy, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	if out.Valid {
		t := out.Time
		e.ClockOut = &t
	}
	return e, nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func bounds(f Filter) (int, int) {
	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
