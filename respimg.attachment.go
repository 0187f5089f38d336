package respimg

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttachmentID is a unique identifier for a stored attachment ("att_<uuid>").
type AttachmentID string

// Attachment is a stored image together with its pre-generated variant URLs.
// It implements Image.
type Attachment struct {
	// ID is assigned by the store on first save.
	ID AttachmentID `json:"id" yaml:"id"`

	// Name is the lookup key. It must not contain path separators.
	Name string `json:"name" yaml:"name"`

	// Original is the unmodified image URL.
	Original string `json:"original" yaml:"original"`

	// Variants maps variant identifiers to URLs.
	Variants map[string]string `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// URL implements Image.
func (a *Attachment) URL() string {
	return a.Original
}

// VariantURL implements Image.
func (a *Attachment) VariantURL(variant string) (string, error) {
	url, ok := a.Variants[variant]
	if !ok {
		return "", NewUnknownVariantError(variant)
	}
	return url, nil
}

// HasTags reports whether the attachment carries all of tags.
func (a *Attachment) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range a.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NewAttachmentID generates a new attachment identifier.
func NewAttachmentID() AttachmentID {
	return AttachmentID(AttachmentIDPrefix + uuid.NewString())
}

// ValidateAttachment checks the fields every store requires.
func ValidateAttachment(a *Attachment) error {
	if a == nil {
		return NewInvalidAttachmentError(ErrMsgInvalidAttachmentName, "")
	}
	if err := validateAttachmentName(a.Name); err != nil {
		return err
	}
	if a.Original == "" {
		return NewInvalidAttachmentError(ErrMsgEmptyOriginalURL, a.Name)
	}
	return nil
}

// validateAttachmentName rejects names that are empty or unsafe as file names.
func validateAttachmentName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "..") ||
		strings.ContainsAny(name, "/\\:*?\"<>|") {
		return NewInvalidAttachmentError(ErrMsgInvalidAttachmentName, name)
	}
	return nil
}

// prepareForSave assigns the ID and timestamps a store sets on save.
// existing is the stored version, or nil for a new attachment.
func prepareForSave(a *Attachment, existing *Attachment, now time.Time) {
	if existing != nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		if a.ID == "" {
			a.ID = NewAttachmentID()
		}
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// copyAttachment returns a deep copy so callers cannot mutate stored state.
func copyAttachment(a *Attachment) *Attachment {
	if a == nil {
		return nil
	}
	out := *a
	if a.Variants != nil {
		out.Variants = make(map[string]string, len(a.Variants))
		for k, v := range a.Variants {
			out.Variants[k] = v
		}
	}
	if a.Metadata != nil {
		out.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			out.Metadata[k] = v
		}
	}
	if a.Tags != nil {
		out.Tags = append([]string(nil), a.Tags...)
	}
	return &out
}
