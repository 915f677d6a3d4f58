package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels contacts. Slug is unique.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_tags_slug"`
	Color     string    `json:"color" db:"color" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_tags_created_at"`
	Contacts  []Contact `json:"-" gorm:"many2many:contact_tags;constraint:OnDelete:CASCADE"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TagSummary is a tag with the number of contacts attached to it.
type TagSummary struct {
	ID        uuid.UUID `json:"id" gorm:"column:id"`
	Slug      string    `json:"slug" gorm:"column:slug"`
	Color     string    `json:"color" gorm:"column:color"`
	Count     int64     `json:"count" gorm:"column:count"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

// All persisted models, in migration order.
func All() []any {
	return []any{&Tag{}, &Contact{}}
}
