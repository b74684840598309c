package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"preschool/internal/logging"
	"preschool/internal/queue"
)

// Worker consumes status changes and mails them.
type Worker struct {
	q      queue.Queue
	mailer Mailer
	from   string
	log    *slog.Logger
}

func NewWorker(q queue.Queue, mailer Mailer, from string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{q: q, mailer: mailer, from: from, log: log.With(logging.Module("notify.worker"))}
}

// Run processes messages until ctx is cancelled or the queue closes.
// A message that fails is logged and dropped.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.q.Consume(ctx)
	if err != nil {
		return err
	}
	w.log.Info("worker started, waiting for messages")
	for msg := range messages {
		w.handle(ctx, msg)
	}
	w.log.Info("worker stopped")
	return nil
}

func (w *Worker) handle(ctx context.Context, msg queue.Message) {
	if msg.Type != TypeApplicationStatus {
		w.log.Warn("unknown message type", slog.String("type", msg.Type), slog.String("msg_id", msg.ID))
		return
	}
	var change StatusChange
	if err := json.Unmarshal(msg.Body, &change); err != nil {
		w.log.Error("decode status change", slog.String("msg_id", msg.ID), logging.Err(err))
		return
	}
	if change.Email == "" {
		w.log.Warn("status change without email", slog.Int64("id", change.ApplicationID))
		return
	}
	if err := w.mailer.Send(ctx, Render(w.from, change)); err != nil {
		w.log.Error("send status email", slog.Int64("id", change.ApplicationID), logging.Err(err))
		return
	}
	w.log.Info("status email sent", slog.Int64("id", change.ApplicationID), slog.String("status", string(change.Status)))
}
