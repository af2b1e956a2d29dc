// Package errors carries the error taxonomy shared by every chatkit
// operation. Each error resolves to a Kind; callers branch on KindOf
// rather than on concrete types.
package errors

var (
	ErrMissingAuthor     = Weak("a channel cannot be created without an author")
	ErrChannelExists     = Weak("a channel already exists for this set of users")
	ErrChannelNotFound   = Weak("no channel exists for this set of users")
	ErrMissingChannel    = Weak("message must point to a channel")
	ErrMissingSender     = Weak("message must contain a sender")
	ErrNoRecipients      = Weak("message must contain at least one recipient")
	ErrEmptyMessage      = Weak("no message has been given")
	ErrMissingMediaData  = Weak("media item has no data")
	ErrEmptyNotification = Weak("notification title and body cannot both be empty")

	ErrFieldsRequired     = Weak("all fields must be completed")
	ErrPasswordMismatch   = Weak("passwords do not match")
	ErrDomainNotAllowed   = Weak("email domain is not allowed")
	ErrInvalidCredentials = Weak("invalid credentials")
	ErrUserAlreadyExists  = Weak("a user already exists for this email")
	ErrNoCurrentUser      = Weak("no user is signed in")
	ErrTokenGeneration    = System("session token could not be generated")
)
