package crypto

import "errors"

var (
	// ErrInvalidInput is returned by Hash for an empty password or one that
	// exceeds the bcrypt input limit.
	ErrInvalidInput = errors.New("invalid password input")
	// ErrInvalidCost is returned by NewPasswordHasher for a cost outside
	// [bcrypt.MinCost, bcrypt.MaxCost].
	ErrInvalidCost = errors.New("invalid bcrypt cost")
)

// MaxPasswordBytes is the longest input bcrypt hashes without truncation.
const MaxPasswordBytes = 72
