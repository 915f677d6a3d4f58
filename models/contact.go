package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is an address book entry. The UI attaches at most one tag, the
// store allows any number.
type Contact struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Contact   string    `json:"contact" db:"contact" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_contacts_created_at"`
	Tags      []Tag     `json:"tags,omitempty" gorm:"many2many:contact_tags;constraint:OnDelete:CASCADE"`
}

func (Contact) TableName() string { return "contacts" }

// BeforeCreate assigns the id on the client side so every engine behaves the same.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FirstTag returns the first attached tag, or nil when untagged.
func (c Contact) FirstTag() *Tag {
	if len(c.Tags) == 0 {
		return nil
	}
	return &c.Tags[0]
}
