package store

import (
	"context"
	"fmt"

	"github.com/nutriplan/backend/internal/models"
)

// MailboxRepository persists the per-user simulated inbox,
// newest-first. Messages are never deleted.
type MailboxRepository struct {
	rs RecordStore
}

func NewMailboxRepository(rs RecordStore) *MailboxRepository {
	return &MailboxRepository{rs: rs}
}

func mailboxKey(email string) string {
	return fmt.Sprintf("emails_%s", NormalizeEmail(email))
}

func (r *MailboxRepository) List(ctx context.Context, email string) ([]models.EmailMessage, error) {
	messages := []models.EmailMessage{}
	if _, err := loadJSON(ctx, r.rs, mailboxKey(email), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Prepend adds a message at the head of the mailbox.
func (r *MailboxRepository) Prepend(ctx context.Context, email string, msg models.EmailMessage) error {
	messages, err := r.List(ctx, email)
	if err != nil {
		return err
	}
	messages = append([]models.EmailMessage{msg}, messages...)
	return saveJSON(ctx, r.rs, mailboxKey(email), messages)
}

// MarkRead flips IsRead on the message with the given id.
func (r *MailboxRepository) MarkRead(ctx context.Context, email, id string) error {
	messages, err := r.List(ctx, email)
	if err != nil {
		return err
	}
	for i := range messages {
		if messages[i].ID == id {
			messages[i].IsRead = true
		}
	}
	return saveJSON(ctx, r.rs, mailboxKey(email), messages)
}
