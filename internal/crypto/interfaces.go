package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// PasswordHasher turns plaintext passwords into one-way bcrypt hashes and
// checks candidates against them. The salt is random per call and embedded
// in the returned hash, so two hashes of the same password differ.
type PasswordHasher interface {
	// Hash returns the bcrypt encoding of plaintext.
	// An empty plaintext or one longer than 72 bytes fails with ErrInvalidInput
	// before any work is done.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. The comparison is
	// constant time. A malformed hash yields false, never an error.
	Verify(plaintext, hash string) bool
}
