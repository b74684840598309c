package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"preschool/internal/apperr"
	"preschool/internal/auth"
	"preschool/internal/logging"
	"preschool/internal/metrics"
)

var errInvalidOutcome = errors.New("outcome must be approved or rejected")

func init() {
	apperr.RegisterRule("program", "must be one of the offered programs", func(fl validator.FieldLevel) bool {
		return KnownProgram(fl.Field().String())
	})
}

// Notifier is told about every change of an application's visible status.
type Notifier interface {
	StatusChanged(ctx context.Context, app Application) error
}

// Service applies the two-step approval workflow over a Repository.
// Each transition is a single read followed by a single write; concurrent
// writers to the same application are last-write-wins.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger

	notifyTimeout time.Duration
}

// NewService creates a service. notifier and m may be nil.
func NewService(repo Repository, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		log:      log.With(logging.Module("admission.service")),

		notifyTimeout: 3 * time.Second,
	}
}

// Submit validates the public form and stores a new application with every
// workflow field pending. Resubmissions create independent records.
func (s *Service) Submit(ctx context.Context, in NewApplication) (int64, error) {
	in = normalize(in)
	if err := apperr.Validate(in); err != nil {
		return 0, err
	}
	app, err := s.repo.Insert(ctx, Application{
		StudentName:             in.StudentName,
		ParentName:              in.ParentName,
		Email:                   in.Email,
		Phone:                   in.Phone,
		DateOfBirth:             in.DateOfBirth,
		Address:                 in.Address,
		ProgramInterest:         in.ProgramInterest,
		Status:                  StatusPending,
		PrincipalRecommendation: RecommendationPending,
		AdminConfirmation:       ConfirmationPending,
	})
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	s.metrics.ApplicationSubmitted()
	s.log.Info("application submitted", slog.Int64("id", app.ID), slog.String("program", app.ProgramInterest))
	return app.ID, nil
}

// RecordPrincipalRecommendation stores the principal's decision. Repeat calls
// overwrite the earlier recommendation. A rejection makes the application
// rejected unless the admin has already decided; re-approving a record that a
// prior rejection closed reopens it as pending.
func (s *Service) RecordPrincipalRecommendation(ctx context.Context, id int64, outcome Outcome, role auth.Role) (Application, error) {
	if !auth.Can(role, auth.CapRecommendApplication) {
		return Application{}, fmt.Errorf("record recommendation as %s: %w", role, apperr.ErrUnauthorized)
	}
	if !outcome.Valid() {
		return Application{}, outcomeError(outcome)
	}
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}

	prev := app.Status
	app.PrincipalRecommendation = Recommendation(outcome)
	if app.AdminConfirmation != ConfirmationConfirmed {
		switch {
		case outcome == OutcomeRejected:
			app.Status = StatusRejected
		case app.Status == StatusRejected:
			app.Status = StatusPending
		}
	}
	if err := s.repo.UpdateWorkflow(ctx, app); err != nil {
		return Application{}, fmt.Errorf("update application %d: %w", id, err)
	}

	s.metrics.ApplicationDecision("principal", string(outcome))
	s.log.Info("principal recommendation recorded", slog.Int64("id", id), slog.String("outcome", string(outcome)))
	if app.Status != prev {
		s.notify(ctx, app)
	}
	return app, nil
}

// RecordAdminConfirmation is the final decision. It requires the principal to
// have approved. Once confirmed, the status no longer changes.
func (s *Service) RecordAdminConfirmation(ctx context.Context, id int64, outcome Outcome, role auth.Role) (Application, error) {
	if !auth.Can(role, auth.CapConfirmApplication) {
		return Application{}, fmt.Errorf("record confirmation as %s: %w", role, apperr.ErrUnauthorized)
	}
	if !outcome.Valid() {
		return Application{}, outcomeError(outcome)
	}
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if app.PrincipalRecommendation != RecommendationApproved {
		return Application{}, fmt.Errorf("application %d has principal recommendation %q: %w",
			id, app.PrincipalRecommendation, apperr.ErrPrecondition)
	}
	if app.AdminConfirmation == ConfirmationConfirmed {
		s.log.Warn("application already decided, status kept",
			slog.Int64("id", id), slog.String("status", string(app.Status)), slog.String("requested", string(outcome)))
		return app, nil
	}

	app.AdminConfirmation = ConfirmationConfirmed
	app.Status = Status(outcome)
	if err := s.repo.UpdateWorkflow(ctx, app); err != nil {
		return Application{}, fmt.Errorf("update application %d: %w", id, err)
	}

	s.metrics.ApplicationDecision("admin", string(outcome))
	s.log.Info("admin confirmation recorded", slog.Int64("id", id), slog.String("outcome", string(outcome)))
	s.notify(ctx, app)
	return app, nil
}

// Delete irreversibly removes an application.
func (s *Service) Delete(ctx context.Context, id int64, role auth.Role) error {
	if !auth.Can(role, auth.CapDeleteApplication) {
		return fmt.Errorf("delete application as %s: %w", role, apperr.ErrUnauthorized)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("application deleted", slog.Int64("id", id))
	return nil
}

// List returns every application, newest first. No pagination: a single
// school's applicant pool is small.
func (s *Service) List(ctx context.Context, role auth.Role) ([]Application, error) {
	if !auth.Can(role, auth.CapReadApplications) {
		return nil, fmt.Errorf("list applications as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.List(ctx)
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, id int64, role auth.Role) (Application, error) {
	if !auth.Can(role, auth.CapReadApplications) {
		return Application{}, fmt.Errorf("read application as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.Get(ctx, id)
}

// Resend queues the status email for an application again.
func (s *Service) Resend(ctx context.Context, id int64, role auth.Role) error {
	if !auth.Can(role, auth.CapConfirmApplication) {
		return fmt.Errorf("resend notification as %s: %w", role, apperr.ErrUnauthorized)
	}
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.notifier == nil {
		return errors.New("notifications are not configured")
	}
	return s.notifier.StatusChanged(ctx, app)
}

// notify never fails the mutation that triggered it.
func (s *Service) notify(ctx context.Context, app Application) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.StatusChanged(ctx, app); err != nil {
		s.log.Error("status notification failed", slog.Int64("id", app.ID), logging.Err(err))
	}
}

func normalize(in NewApplication) NewApplication {
	in.StudentName = strings.TrimSpace(in.StudentName)
	in.ParentName = strings.TrimSpace(in.ParentName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Address = strings.TrimSpace(in.Address)
	in.ProgramInterest = strings.TrimSpace(in.ProgramInterest)
	return in
}

func outcomeError(o Outcome) error {
	return apperr.NewValidationError(errInvalidOutcome, apperr.FieldError{
		Field: "outcome",
		Error: fmt.Sprintf("%q is not approved or rejected", string(o)),
	})
}
