package domain

import "time"

// Status is the publication state of a wizard document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Document is the base shape every wizard produces. Domain-specific fields
// (price, coordinates, images, ...) live in Fields and are treated opaquely
// by the engine; only the step schemas give them meaning.
type Document struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Fields map[string]any `json:"fields,omitempty"`
}

// AssembleDocument builds a Document from accumulated form data.
// Base attributes are lifted from well-known keys; everything else stays
// in Fields untouched.
func AssembleDocument(data map[string]any, now time.Time) Document {
	doc := Document{
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    make(map[string]any, len(data)),
	}
	for k, v := range data {
		switch k {
		case "id":
			if s, ok := v.(string); ok {
				doc.ID = s
			}
		case "title":
			if s, ok := v.(string); ok {
				doc.Title = s
			}
		case "description":
			if s, ok := v.(string); ok {
				doc.Description = s
			}
		case "status":
			if s, ok := v.(string); ok {
				doc.Status = Status(s)
			}
		default:
			doc.Fields[k] = v
		}
	}
	return doc
}
