package admission

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preschool/internal/apperr"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var appColumns = []string{"id", "student_name", "parent_name", "email", "phone", "date_of_birth", "address",
	"program_interest", "status", "principal_recommendation", "admin_confirmation", "created_at"}

func TestPostgresInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs("Aria", "", "a@x.com", "555", "", "", "Nursery", StatusPending, RecommendationPending, ConfirmationPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	app, err := repo.Insert(context.Background(), Application{
		StudentName: "Aria", Email: "a@x.com", Phone: "555", ProgramInterest: "Nursery",
		Status: StatusPending, PrincipalRecommendation: RecommendationPending, AdminConfirmation: ConfirmationPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), app.ID)
	assert.Equal(t, created, app.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(appColumns))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(appColumns).
			AddRow(2, "B", "", "b@x.com", "1", "", "", "Nursery", "pending", "pending", "pending", now).
			AddRow(1, "A", "", "a@x.com", "2", "", "", "Kindergarten 1", "approved", "approved", "confirmed", now.Add(-time.Hour)))

	apps, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(2), apps[0].ID)
	assert.Equal(t, StatusApproved, apps[1].Status)
	assert.Equal(t, ConfirmationConfirmed, apps[1].AdminConfirmation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateWorkflow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("SET status = $1, principal_recommendation = $2, admin_confirmation = $3")).
		WithArgs(StatusApproved, RecommendationApproved, ConfirmationConfirmed, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).
		WithArgs(StatusPending, RecommendationPending, ConfirmationPending, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateWorkflow(context.Background(), Application{
		ID: 3, Status: StatusApproved, PrincipalRecommendation: RecommendationApproved, AdminConfirmation: ConfirmationConfirmed,
	})
	require.NoError(t, err)

	err = repo.UpdateWorkflow(context.Background(), Application{
		ID: 4, Status: StatusPending, PrincipalRecommendation: RecommendationPending, AdminConfirmation: ConfirmationPending,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
