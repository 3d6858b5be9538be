// Package models defines the core data structures for user accounts and sessions.
package models

// Profile holds the persisted per-user fields from the user:<id> hash.
type Profile struct {
	// ID is the unique numeric identifier allocated at registration.
	ID int64
	// Username is the login name chosen by the user. Immutable after creation.
	Username string
	// Password is the stored credential in whatever form the configured
	// CredentialVerifier produces (bcrypt hash by default).
	Password string
	// AuthSecret is the account's current session secret. Exactly one value
	// is valid at any instant; rotation replaces it atomically.
	AuthSecret string
}

// Session is the result of resolving a session secret.
type Session struct {
	// UserID identifies the authenticated account.
	UserID int64
	// Secret is the opaque token presented by the caller.
	Secret string
}

// Tweet is a single post in the (unimplemented) feed subsystem.
type Tweet struct {
	// UserID is the author of the tweet.
	UserID int64
	// UnixTime is the posting timestamp.
	UnixTime int64
	// Body is the tweet text.
	Body string
}
