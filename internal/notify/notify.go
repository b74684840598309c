// Package notify carries application status changes from the API to parents' inboxes.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"preschool/internal/admission"
	"preschool/internal/logging"
	"preschool/internal/queue"
)

// TypeApplicationStatus is the queue message type for status changes.
const TypeApplicationStatus = "application.status"

// StatusChange is the body of an application.status message.
type StatusChange struct {
	ApplicationID int64            `json:"application_id"`
	StudentName   string           `json:"student_name"`
	ParentName    string           `json:"parent_name"`
	Email         string           `json:"email"`
	Program       string           `json:"program"`
	Status        admission.Status `json:"status"`
}

// QueuePublisher implements admission.Notifier by publishing to a queue.
type QueuePublisher struct {
	q   queue.Queue
	log *slog.Logger
}

func NewQueuePublisher(q queue.Queue, log *slog.Logger) *QueuePublisher {
	if log == nil {
		log = slog.Default()
	}
	return &QueuePublisher{q: q, log: log.With(logging.Module("notify.publisher"))}
}

// StatusChanged queues a status email for the application's contact address.
func (p *QueuePublisher) StatusChanged(ctx context.Context, app admission.Application) error {
	body, err := json.Marshal(StatusChange{
		ApplicationID: app.ID,
		StudentName:   app.StudentName,
		ParentName:    app.ParentName,
		Email:         app.Email,
		Program:       app.ProgramInterest,
		Status:        app.Status,
	})
	if err != nil {
		return err
	}
	if err := p.q.Publish(ctx, queue.Message{Type: TypeApplicationStatus, Body: body}); err != nil {
		return fmt.Errorf("publish status of application %d: %w", app.ID, err)
	}
	p.log.Debug("status change queued", slog.Int64("id", app.ID), slog.String("status", string(app.Status)))
	return nil
}
