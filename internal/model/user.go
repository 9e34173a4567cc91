package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  JSON tags
// are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types so that the
// password hash can never leak into a payload.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	Username     – unique login name (3–50 chars, alphanumeric/underscore).
//	PasswordHash – bcrypt hashed password.
//	IsActive     – whether the account is active.  Checked on every
//	               authenticated request; there is no mutation path for it
//	               through the API.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
}
