package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"preschool/internal/config"
	"preschool/internal/logging"
	"preschool/internal/notify"
	"preschool/internal/queue"
	"preschool/internal/store"
)

// Worker consumes application status changes and emails the parents.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel).With(logging.Module("worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.QueueBackend == "memory" {
		log.Error("the in-memory queue lives inside the API process; set QUEUE_BACKEND=redis to run a separate worker")
		os.Exit(1)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Warn("redis not reachable yet, consumer will keep retrying")
	}

	q := queue.NewRedisQueue(redisClient.Client, "")
	w := notify.NewWorker(q, notify.NewLogMailer(log), cfg.MailFrom, log)
	if err := w.Run(ctx); err != nil {
		log.Error("worker failed", logging.Err(err))
		os.Exit(1)
	}
}
