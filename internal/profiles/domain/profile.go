// Package domain defines user profiles. Profile data is stored encrypted under key material
// derived from the user's password, next to a password verifier.
package domain

import "time"

// Profile is a stored user profile.
type Profile struct {
	UserID           string
	OrgID            string
	PasswordHash     string
	EncryptedProfile string
	CreatedAt        time.Time
}

// ProfileData is the plaintext of Profile.EncryptedProfile.
type ProfileData struct {
	Email     string `json:"email"`
	Pseudonym string `json:"pseudonym"`
}

// RegisterProfileInput contains the parameters for registering a profile.
type RegisterProfileInput struct {
	UserID   string
	OrgID    string
	Email    string
	Password string
}
