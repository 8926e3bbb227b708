package models

// Participant is one side of a challenge, identified by a normalized email.
// Rows are created on first reference and never change identity afterwards.
type Participant struct {
	ID    string  `gorm:"primaryKey;type:uuid" json:"id"`
	Email string  `gorm:"uniqueIndex;not null;type:varchar(320)" json:"email"`
	Name  *string `json:"name,omitempty"`

	Timestamps
}
