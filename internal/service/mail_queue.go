package service

import (
	"sync/atomic"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MailQueue dispatches thank-you mails on a small worker pool so the
// donate response never waits on SMTP. Enqueue never blocks, a full
// queue drops the notification.
type MailQueue struct {
	jobs    chan *ThankYouMail
	mailer  *Mailer
	workers int
	running atomic.Int32
}

// NewMailQueue initializes a new mail queue that limits the
// max amount of pending notifications
func NewMailQueue(m *Mailer) *MailQueue {
	workers := viper.GetInt("mail.workers")
	if workers <= 0 {
		workers = 2
	}

	size := viper.GetInt("mail.queue_size")
	if size <= 0 {
		size = 64
	}

	zap.L().Debug("Initializing mail queue",
		zap.Int("workers", workers),
		zap.Int("queue_size", size))

	return &MailQueue{
		jobs:    make(chan *ThankYouMail, size),
		mailer:  m,
		workers: workers,
	}
}

func (q *MailQueue) StartWorkerPool() {
	for i := 0; i < q.workers; i++ {
		go q.worker()
	}
}

func (q *MailQueue) worker() {
	for job := range q.jobs {
		q.running.Add(1)

		if !q.mailer.Configured() {
			zap.L().Debug("Mailer not configured, dropping thank-you mail",
				zap.String("to", job.To))
			q.running.Add(-1)
			continue
		}

		// Send failures are logged and swallowed, the donation
		// already went through
		if err := q.mailer.SendThankYou(job); err != nil {
			zap.L().Warn("Failed to send thank-you mail",
				zap.String("to", job.To),
				zap.Error(err))
		}

		q.running.Add(-1)
	}
}

// Enqueue hands a notification to the pool without blocking the caller.
func (q *MailQueue) Enqueue(job *ThankYouMail) {
	select {
	case q.jobs <- job:
	default:
		zap.L().Warn("Mail queue full, dropping thank-you mail",
			zap.String("to", job.To))
	}
}
