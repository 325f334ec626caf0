package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answers maps a field question to the respondent's answer.
type Answers map[string]any

// ResponseContent is the stored content of a response: PlainAnswers or EncryptedAnswers.
type ResponseContent interface {
	isResponseContent()
}

// PlainAnswers holds the answers to a plain form.
type PlainAnswers struct {
	Answers Answers
}

// EncryptedAnswers holds the answers to an encrypted form. Payload is a payload envelope of the
// Answers under a key generated for this response alone; EncryptedKey is that key wrapped under
// the organization public key of version KeyVersion.
type EncryptedAnswers struct {
	EncryptedKey string
	KeyVersion   uint
	Payload      string
}

func (PlainAnswers) isResponseContent()     {}
func (EncryptedAnswers) isResponseContent() {}

// Response is a stored form response. The respondent is only identified by a pseudonym.
type Response struct {
	ID                  uuid.UUID
	FormID              uuid.UUID
	RespondentPseudonym string
	Content             ResponseContent
	SubmittedAt         time.Time
}

// Encrypted reports whether the response content is encrypted.
func (r *Response) Encrypted() bool {
	_, ok := r.Content.(EncryptedAnswers)
	return ok
}

// SubmitResponseInput contains the parameters for submitting a response.
type SubmitResponseInput struct {
	FormID          uuid.UUID
	RespondentEmail string
	Answers         Answers
}

// DecryptedResponse is a response with its answers in the clear.
type DecryptedResponse struct {
	ID                  uuid.UUID `json:"id"`
	FormID              uuid.UUID `json:"form_id"`
	RespondentPseudonym string    `json:"respondent"`
	Answers             Answers   `json:"answers"`
	SubmittedAt         time.Time `json:"submitted_at"`
}
