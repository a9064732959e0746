package models

// Identity is the authenticated caller resolved by the access guard.
// It is attached to the request context and is the only source of the
// owner identifier used for task scoping.
type Identity struct {
	UserID  string
	Profile UserProfile
}
