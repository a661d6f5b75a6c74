package models

// EmailMessage is a simulated inbox message. Messages are created by
// the system (welcome mail on registration), mutated only to flip
// IsRead, and never auto-deleted.
type EmailMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Content   string `json:"content"` // markdown
	Timestamp int64  `json:"timestamp"`
	IsRead    bool   `json:"isRead"`
}
