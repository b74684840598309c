package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"preschool/internal/apperr"
	"preschool/internal/auth"
	"preschool/internal/logging"
	"preschool/internal/metrics"
)

var errInvalidOutcome = errors.New("outcome must be approved or rejected")

// Service coordinates staff self clock-in/out and approval decisions.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:    repo,
		metrics: m,
		log:     log.With(logging.Module("attendance.service")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ClockIn opens a new entry for the actor. An already open entry does not
// prevent another one.
func (s *Service) ClockIn(ctx context.Context, actor auth.Actor) (Entry, error) {
	if !actor.Authenticated() || !auth.Can(actor.Role, auth.CapClockSelf) {
		return Entry{}, fmt.Errorf("clock in as %s: %w", actor.Role, apperr.ErrUnauthorized)
	}
	e, err := s.repo.Insert(ctx, Entry{
		SubjectType: SubjectStaff,
		SubjectID:   actor.UserID,
		ClockIn:     s.now(),
		Status:      StatusPending,
		RecordedBy:  actor.UserID,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("insert attendance: %w", err)
	}
	s.metrics.AttendanceAction("clock_in")
	s.log.Info("clocked in", slog.Int64("id", e.ID), slog.Int64("user_id", actor.UserID))
	return e, nil
}

// ClockOut closes the actor's own entry. Closing an already closed entry
// returns it unchanged.
func (s *Service) ClockOut(ctx context.Context, id int64, actor auth.Actor) (Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !actor.Authenticated() || e.SubjectID != actor.UserID {
		return Entry{}, fmt.Errorf("clock out entry %d as user %d: %w", id, actor.UserID, apperr.ErrUnauthorized)
	}
	if !e.Open() {
		return e, nil
	}
	at := s.now()
	if err := s.repo.SetClockOut(ctx, id, at); err != nil {
		return Entry{}, fmt.Errorf("clock out entry %d: %w", id, err)
	}
	e.ClockOut = &at
	s.metrics.AttendanceAction("clock_out")
	s.log.Info("clocked out", slog.Int64("id", id), slog.Int64("user_id", actor.UserID))
	return e, nil
}

// Decide approves or rejects an entry.
func (s *Service) Decide(ctx context.Context, id int64, outcome Status, role auth.Role) (Entry, error) {
	if !auth.Can(role, auth.CapDecideAttendance) {
		return Entry{}, fmt.Errorf("decide attendance as %s: %w", role, apperr.ErrUnauthorized)
	}
	if outcome != StatusApproved && outcome != StatusRejected {
		return Entry{}, apperr.NewValidationError(errInvalidOutcome, apperr.FieldError{
			Field: "outcome",
			Error: fmt.Sprintf("%q is not approved or rejected", string(outcome)),
		})
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if err := s.repo.SetStatus(ctx, id, outcome); err != nil {
		return Entry{}, fmt.Errorf("decide entry %d: %w", id, err)
	}
	e.Status = outcome
	s.metrics.AttendanceAction("decide_" + string(outcome))
	s.log.Info("attendance decided", slog.Int64("id", id), slog.String("outcome", string(outcome)))
	return e, nil
}

// List returns entries for reviewers.
func (s *Service) List(ctx context.Context, f Filter, role auth.Role) ([]Entry, error) {
	if !auth.Can(role, auth.CapReadAttendance) {
		return nil, fmt.Errorf("list attendance as %s: %w", role, apperr.ErrUnauthorized)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.NewValidationError(errors.New("invalid status filter"),
			apperr.FieldError{Field: "status", Error: "must be pending, approved or rejected"})
	}
	return s.repo.List(ctx, f)
}

// Mine returns the actor's own entries.
func (s *Service) Mine(ctx context.Context, actor auth.Actor, limit, offset int) ([]Entry, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return s.repo.List(ctx, Filter{SubjectID: actor.UserID, Limit: limit, Offset: offset})
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64, role auth.Role) error {
	if !auth.Can(role, auth.CapDeleteAttendance) {
		return fmt.Errorf("delete attendance as %s: %w", role, apperr.ErrUnauthorized)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("attendance deleted", slog.Int64("id", id))
	return nil
}
