package models

// UserAccount is one entry in the clinical registry, keyed by
// lower-cased email. Password holds a bcrypt hash, never plaintext.
// ClinicalID is assigned at registration and immutable afterwards.
type UserAccount struct {
	ID         string `json:"id"` // internal unique key (UUID)
	Name       string `json:"name"`
	Password   string `json:"password"`
	ClinicalID string `json:"clinicalId"`
}

// Session identifies the authenticated user. At most one session is
// kept in the record store's single session slot at a time.
type Session struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	ClinicalID string `json:"clinicalId,omitempty"`
}
