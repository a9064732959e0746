package models

import "time"

// Token is a signed bearer token issued for a single user.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the owner identifier carried in the "sub" claim.
	UserID string `json:"-"`

	// IssuedAt and ExpiresAt mirror the "iat" and "exp" claims.
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
