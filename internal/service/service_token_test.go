package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(nil)

	token, err := svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", token.UserID)
	assert.Equal(t, time.Hour, token.ExpiresAt.Sub(token.IssuedAt))

	subject, err := svc.Verify(context.Background(), token.String())
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(func() time.Time { return issuedAt })

	token, err := svc.Issue(context.Background(), "user-1")
	require.NoError(t, err)
	expiry := token.ExpiresAt

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "right after issue", at: issuedAt},
		{name: "one second before expiry", at: expiry.Add(-time.Second)},
		{name: "exactly at expiry", at: expiry, wantErr: ErrTokenIsExpired},
		{name: "after expiry", at: expiry.Add(time.Minute), wantErr: ErrTokenIsExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.now = func() time.Time { return tt.at }

			subject, err := svc.Verify(context.Background(), token.String())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrTokenIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", subject)
		})
	}
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := newTestTokenService(nil)

	foreign := NewTokenService(config.App{
		TokenSignKey:  "another-sign-key-which-is-long-enough",
		TokenIssuer:   "test-issuer",
		TokenDuration: time.Hour,
	}, logger.Nop())
	forged, err := foreign.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	otherIssuer := NewTokenService(config.App{
		TokenSignKey:  testSignKey,
		TokenIssuer:   "someone-else",
		TokenDuration: time.Hour,
	}, logger.Nop())
	wrongIssuer, err := otherIssuer.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "test-issuer",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	expiredForged, err := NewTokenService(config.App{
		TokenSignKey:  "another-sign-key-which-is-long-enough",
		TokenIssuer:   "test-issuer",
		TokenDuration: time.Nanosecond,
	}, logger.Nop()).Issue(context.Background(), "user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong signature", token: forged.String()},
		{name: "wrong issuer", token: wrongIssuer.String()},
		{name: "alg none", token: noneAlg},
		{name: "expired with wrong signature", token: expiredForged.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenIsInvalid)
			assert.NotErrorIs(t, err, ErrTokenIsExpired)
		})
	}
}
