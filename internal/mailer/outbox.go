package mailer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"gorm.io/gorm"
)

const dispatchBatchSize = 25

// Queue inserts a pending outbox row using the given handle. Callers pass
// their open transaction so the email intent commits or rolls back together
// with the state change that triggered it.
func Queue(tx *gorm.DB, to, subject, body string) error {
	row := models.EmailOutbox{
		ID:            uuid.New(),
		Recipient:     to,
		Subject:       subject,
		Body:          body,
		Status:        models.OutboxPending,
		NextAttemptAt: time.Now(),
	}
	return tx.Create(&row).Error
}

// Dispatcher drains the outbox on a fixed interval. Delivery failures are
// retried with exponential backoff until MaxAttempts, then the row is marked
// failed and left for operators.
type Dispatcher struct {
	db          *gorm.DB
	mailer      Mailer
	interval    time.Duration
	maxAttempts int
	done        chan struct{}
}

func NewDispatcher(db *gorm.DB, m Mailer, interval time.Duration, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		db:          db,
		mailer:      m,
		interval:    interval,
		maxAttempts: maxAttempts,
		done:        make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.DispatchDue(time.Now())
			case <-d.done:
				return
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	close(d.done)
}

// DispatchDue sends every pending row whose next attempt is due and returns
// the number of rows it handled.
func (d *Dispatcher) DispatchDue(now time.Time) int {
	var batch []models.EmailOutbox
	err := d.db.
		Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, now).
		Order("next_attempt_at").
		Limit(dispatchBatchSize).
		Find(&batch).Error
	if err != nil {
		slog.Error("outbox query failed", "error", err)
		return 0
	}

	for i := range batch {
		d.deliver(&batch[i], now)
	}
	return len(batch)
}

func (d *Dispatcher) deliver(row *models.EmailOutbox, now time.Time) {
	err := d.mailer.Send(row.Recipient, row.Subject, row.Body)
	if err == nil {
		sentAt := now
		d.db.Model(row).Updates(map[string]interface{}{
			"status":  models.OutboxSent,
			"sent_at": &sentAt,
		})
		return
	}

	attempts := row.Attempts + 1
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": err.Error(),
	}
	if attempts >= d.maxAttempts {
		updates["status"] = models.OutboxFailed
		slog.Error("outbox delivery abandoned", "recipient", row.Recipient, "attempts", attempts, "error", err)
	} else {
		updates["next_attempt_at"] = now.Add(backoff(attempts))
		slog.Warn("outbox delivery failed, will retry", "recipient", row.Recipient, "attempts", attempts, "error", err)
	}
	d.db.Model(row).Updates(updates)
}

// backoff doubles per attempt starting at 30s: 30s, 1m, 2m, 4m, ...
func backoff(attempts int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempts; i++ {
		d *= 2
		if d > 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}
