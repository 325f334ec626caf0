// Package domain defines forms and responses.
//
// A form's content is either a plain definition or an encrypted one; a response's content is
// either plain answers or answers encrypted under a per-response key. Both are modelled as
// closed variants so code handling a form cannot forget which kind it holds.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldType is the input type of a form field.
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldTextarea       FieldType = "textarea"
	FieldEmail          FieldType = "email"
	FieldSingleChoice   FieldType = "single_choice"
	FieldMultipleChoice FieldType = "multiple_choice"
	FieldRating         FieldType = "rating"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldEmail, FieldSingleChoice, FieldMultipleChoice, FieldRating,
}

// HasOptions reports whether fields of this type choose among fixed options.
func (t FieldType) HasOptions() bool {
	return t == FieldSingleChoice || t == FieldMultipleChoice
}

// Field is one question of a form.
type Field struct {
	Question string    `json:"question"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required,omitempty"`
}

// Definition is the list of fields of a form. For encrypted forms it is the plaintext of the
// encrypted fields envelope.
type Definition struct {
	Fields []Field `json:"fields"`
}

// Content is the stored content of a form: PlainContent or EncryptedContent.
type Content interface {
	isContent()
}

// PlainContent is the content of a form stored in the clear.
type PlainContent struct {
	Definition Definition
}

// EncryptedContent is the content of an encrypted form. EncryptedFields is a payload envelope
// of the Definition under the form key; EncryptedFormKey is the form key wrapped under the
// organization public key of version KeyVersion.
type EncryptedContent struct {
	EncryptedFormKey string
	KeyVersion       uint
	EncryptedFields  string
}

func (PlainContent) isContent()     {}
func (EncryptedContent) isContent() {}

// Form is a stored form.
type Form struct {
	ID        uuid.UUID
	OrgID     string
	Title     string
	Content   Content
	CreatedAt time.Time
}

// Encrypted reports whether the form content is encrypted.
func (f *Form) Encrypted() bool {
	_, ok := f.Content.(EncryptedContent)
	return ok
}

// CreateFormInput contains the parameters for creating a form.
type CreateFormInput struct {
	OrgID     string
	Title     string
	Fields    []Field
	Encrypted bool
}
