// Package mailbox implements the simulated per-user inbox.
package mailbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/bus"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/store"
)

const (
	welcomeSender  = "Automated Onboarding Node"
	welcomeSubject = "Welcome to your Clinical Wellness Ecosystem"
)

// WelcomeComposer is the slice of the AI gateway the mailbox needs.
type WelcomeComposer interface {
	SynthesizeWelcomeEmail(ctx context.Context, name, email, clinicalID string) string
}

type Service struct {
	repo     *store.MailboxRepository
	composer WelcomeComposer
	events   *bus.Bus
}

func NewService(repo *store.MailboxRepository, composer WelcomeComposer, events *bus.Bus) *Service {
	return &Service{repo: repo, composer: composer, events: events}
}

// DeliverWelcome composes and delivers the onboarding mail for a new
// registration, then raises the unread-mail signal. Composition never
// fails: an empty upstream response degrades to a fallback body.
func (s *Service) DeliverWelcome(ctx context.Context, session models.Session) error {
	content := s.composer.SynthesizeWelcomeEmail(ctx, session.Name, session.Email, session.ClinicalID)
	msg := models.EmailMessage{
		ID:        uuid.New().String(),
		Sender:    welcomeSender,
		Subject:   welcomeSubject,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		IsRead:    false,
	}
	if err := s.repo.Prepend(ctx, session.Email, msg); err != nil {
		return err
	}
	s.events.Publish(bus.Event{Topic: bus.TopicNewMail, Email: session.Email})
	return nil
}

func (s *Service) List(ctx context.Context, email string) ([]models.EmailMessage, error) {
	return s.repo.List(ctx, email)
}

func (s *Service) MarkRead(ctx context.Context, email, id string) error {
	return s.repo.MarkRead(ctx, email, id)
}
