package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/quickdialer/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	contactHandler contactHandler
	tagHandler     tagHandler
	healthHandler  healthHandler
}

// Response messages shared by every write endpoint.
const (
	msgCreated = "Created successfully!"
	msgUpdated = "Updated successfully!"
	msgDeleted = "Deleted successfully!"
)

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Contact not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message" example:"Created successfully!"`
}

// DataResponse wraps a single payload under "data".
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ContactListItem is a contact flattened with its first tag, if any.
type ContactListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
	TagSlug   *string   `json:"tag_slug"`
	TagColor  *string   `json:"tag_color"`
}

type ContactListResponse struct {
	Contacts  []ContactListItem `json:"contacts"`
	PageCount int               `json:"pageCount"`
}

type TagListResponse struct {
	Tags      []models.Tag `json:"tags"`
	PageCount int          `json:"pageCount"`
}

// ContactRequest is the body of contact create and update.
type ContactRequest struct {
	Name    string   `json:"name" validate:"required,min=2"`
	Contact string   `json:"contact" validate:"required,min=2"`
	Tags    []string `json:"tags" validate:"required,min=1"`
}

// TagRequest is the body of tag create and update.
type TagRequest struct {
	Slug  string  `json:"slug" validate:"required,min=2"`
	Color *string `json:"color" validate:"required"`
}

func newContactListItem(c models.Contact) ContactListItem {
	item := ContactListItem{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		CreatedAt: c.CreatedAt,
	}
	if tag := c.FirstTag(); tag != nil {
		item.TagSlug = &tag.Slug
		item.TagColor = &tag.Color
	}
	return item
}
