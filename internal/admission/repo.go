package admission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"preschool/internal/apperr"
)

// Repository persists applications.
type Repository interface {
	Insert(ctx context.Context, app Application) (Application, error)
	Get(ctx context.Context, id int64) (Application, error)
	// List returns every application, newest first.
	List(ctx context.Context) ([]Application, error)
	UpdateWorkflow(ctx context.Context, app Application) error
	Delete(ctx context.Context, id int64) error
}

const selectColumns = `id, student_name, parent_name, email, phone, date_of_birth, address,
	program_interest, status, principal_recommendation, admin_confirmation, created_at`

// PostgresRepository persists applications in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a new application and fills in its id and creation time.
func (r *PostgresRepository) Insert(ctx context.Context, app Application) (Application, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO applications (student_name, parent_name, email, phone, date_of_birth, address,
			program_interest, status, principal_recommendation, admin_confirmation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`, app.StudentName, app.ParentName, app.Email, app.Phone, app.DateOfBirth, app.Address,
		app.ProgramInterest, app.Status, app.PrincipalRecommendation, app.AdminConfirmation)
	if err := row.Scan(&app.ID, &app.CreatedAt); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Get returns a single application by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, fmt.Errorf("application %d: %w", id, apperr.ErrNotFound)
		}
		return Application{}, err
	}
	return app, nil
}

// List returns all applications ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM applications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, app)
	}
	return res, rows.Err()
}

// UpdateWorkflow writes the three workflow fields.
func (r *PostgresRepository) UpdateWorkflow(ctx context.Context, app Application) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, principal_recommendation = $2, admin_confirmation = $3
		WHERE id = $4
	`, app.Status, app.PrincipalRecommendation, app.AdminConfirmation, app.ID)
	if err != nil {
		return err
	}
	return expectOne(res, app.ID)
}

// Delete removes an application.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (Application, error) {
	var app Application
	err := s.Scan(&app.ID, &app.StudentName, &app.ParentName, &app.Email, &app.Phone, &app.DateOfBirth,
		&app.Address, &app.ProgramInterest, &app.Status, &app.PrincipalRecommendation,
		&app.AdminConfirmation, &app.CreatedAt)
	return app, err
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("application %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
