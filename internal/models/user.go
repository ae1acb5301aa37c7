package models

// User represents a registered account.
//
// A user is created unverified on the first registration attempt. Until the
// one-time passcode is confirmed the record may be overwritten in place by a
// repeated registration for the same email. Verification is permanent and
// clears the passcode fields.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the globally unique display name (leading/trailing
	// whitespace trimmed).
	Username string

	// Email is the globally unique, lower-cased email address.
	Email string

	// Phone is an optional contact number.
	Phone string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// OTPCode is the pending one-time passcode, empty once verified.
	OTPCode string

	// OTPExpires is the Unix timestamp after which OTPCode is invalid.
	OTPExpires int64

	// Verified reports whether the email has been confirmed.
	Verified bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
