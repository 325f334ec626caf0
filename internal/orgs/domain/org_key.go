// Package domain defines the organization key records of PollSay.
//
// Each organization owns an RSA-OAEP keypair. The public half is stored in the clear so form
// creators and respondents can wrap keys under it; the private half is only ever stored inside a
// passphrase envelope (and optionally a KMS escrow copy). Keys are versioned: rotation creates a
// new version and retires the previous one.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrgKey is a stored organization keypair version.
type OrgKey struct {
	ID                  uuid.UUID
	OrgID               string
	Version             uint
	PublicKey           string
	EncryptedPrivateKey string
	EscrowedPrivateKey  string
	CreatedAt           time.Time
	RetiredAt           *time.Time
}

// Active reports whether the version has not been retired.
func (k *OrgKey) Active() bool {
	return k.RetiredAt == nil
}

// HasEscrow reports whether a KMS escrow copy of the private key is stored.
func (k *OrgKey) HasEscrow() bool {
	return k.EscrowedPrivateKey != ""
}

// UnlockedOrgKey holds a decrypted organization private key for the duration of one operation.
// It must never be persisted or logged.
type UnlockedOrgKey struct {
	OrgID      string
	Version    uint
	PublicKey  string
	PrivateKey string
}

// WrappedKeyKind identifies the record type holding a wrapped symmetric key.
type WrappedKeyKind string

const (
	// WrappedFormKey is the encrypted form key of an encrypted form.
	WrappedFormKey WrappedKeyKind = "form"

	// WrappedResponseKey is the per-response key of an encrypted response.
	WrappedResponseKey WrappedKeyKind = "response"
)

// WrappedKey is a symmetric key stored wrapped under an organization public key, together with
// the key version it was wrapped under. Rotation re-wraps every WrappedKey of an organization.
type WrappedKey struct {
	Kind         WrappedKeyKind
	RecordID     uuid.UUID
	EncryptedKey string
	KeyVersion   uint
}

// InitializeInput contains the parameters for creating an organization's first keypair.
type InitializeInput struct {
	OrgID      string
	Passphrase string
}

// RotateOutput summarizes a completed rotation.
type RotateOutput struct {
	OrgKey      *OrgKey
	PrevVersion uint
	Rewrapped   int
}
