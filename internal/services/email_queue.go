package services

import (
	"blog/internal/logger"
	"blog/internal/utils/helpers"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// MailTransport — то, чем воркеры реально отправляют письма.
type MailTransport interface {
	Send(to []string, subject, body string) error
	SendHTML(to []string, subject, body string) error
}

var ErrQueueFull = errors.New("email queue is full")

// EmailQueue — очередь писем; запросы не ждут SMTP.
type EmailQueue struct {
	jobs     chan EmailJob
	resetTTL time.Duration
	wg       sync.WaitGroup
}

func NewEmailQueue(size int, resetTTL time.Duration) *EmailQueue {
	return &EmailQueue{jobs: make(chan EmailJob, size), resetTTL: resetTTL}
}

// Enqueue не блокирует: при переполненной очереди письмо отбрасывается.
func (q *EmailQueue) Enqueue(job EmailJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start запускает workers воркеров; они завершаются при отмене ctx.
func (q *EmailQueue) Start(ctx context.Context, transport MailTransport, workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-q.jobs:
					deliver(transport, job)
				}
			}
		}()
	}
}

// Wait ждёт завершения воркеров после отмены контекста.
func (q *EmailQueue) Wait() {
	q.wg.Wait()
}

func deliver(transport MailTransport, job EmailJob) {
	var err error
	if job.IsHTML {
		err = transport.SendHTML(job.To, job.Subject, job.Body)
	} else {
		err = transport.Send(job.To, job.Subject, job.Body)
	}
	if err != nil {
		logger.Log.Error("Не удалось отправить письмо", zap.String("subject", job.Subject), zap.Error(err))
	}
}

func (q *EmailQueue) SendPasswordReset(_ context.Context, to, resetLink string) error {
	return q.Enqueue(EmailJob{
		To:      []string{to},
		Subject: "Password Reset Request",
		Body:    helpers.BuildPasswordResetHTML(resetLink, q.resetTTL),
		IsHTML:  true,
	})
}

func (q *EmailQueue) SendPasswordChanged(_ context.Context, to, username string) error {
	return q.Enqueue(EmailJob{
		To:      []string{to},
		Subject: "Your password has been changed",
		Body:    helpers.BuildPasswordChangedHTML(username),
		IsHTML:  true,
	})
}
