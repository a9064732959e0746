package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/crypto"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It validates credentials, hashes passwords with a PasswordHasher,
// persists users through a UserRepository and delegates token work to a
// TokenService.
type authService struct {
	// userRepository is the credential store.
	userRepository store.UserRepository

	// hasher turns plaintext passwords into bcrypt hashes and verifies them.
	hasher crypto.PasswordHasher

	// tokens issues and verifies bearer tokens.
	tokens TokenService

	// validator checks register and login payloads.
	validator validators.Validator

	// ids generates new user identifiers.
	ids IDGenerator

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	hasher crypto.PasswordHasher,
	tokens TokenService,
	validator validators.Validator,
	ids IDGenerator,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
		validator:      validator,
		ids:            ids,
		now:            time.Now,
		logger:         logger,
	}
}

// Register creates a new user account and issues a token for it.
//
// Returns:
//   - a *validators.ValidationError if name, email or password is rejected;
//   - ErrUserExists if the normalized email is already taken, including when
//     a concurrent registration wins the race at the unique index;
//   - a wrapped error for hashing, signing or storage failures.
//
// The token is signed before the user is inserted, so a signing failure never
// leaves a persisted account behind.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	req.Normalize()
	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Str("func", "*authService.Register").Msg("invalid registration data")
		return models.AuthResponse{}, err
	}

	_, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		log.Debug().Str("func", "*authService.Register").Msg("email already registered")
		return models.AuthResponse{}, ErrUserExists
	case !errors.Is(err, store.ErrNoUserWasFound):
		log.Err(err).Str("func", "*authService.Register").Msg("user search by email failed")
		return models.AuthResponse{}, fmt.Errorf("user search by email failed: %w", err)
	}

	passwordHash, err := a.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidInput) {
			return models.AuthResponse{}, validators.NewValidationError("password", "must be between 1 and 72 bytes")
		}
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.AuthResponse{}, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		ID:           a.ids.Generate(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    a.now().UTC(),
	}

	token, err := a.tokens.Issue(ctx, user.ID)
	if err != nil {
		return models.AuthResponse{}, err
	}

	if err = a.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			log.Debug().Str("func", "*authService.Register").Msg("email taken by concurrent registration")
			return models.AuthResponse{}, ErrUserExists
		}
		log.Err(err).Str("func", "*authService.Register").Msg("user creation ended with error")
		return models.AuthResponse{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")

	return models.AuthResponse{
		Token: token.String(),
		User:  user.Profile(),
	}, nil
}

// Login authenticates an existing user by email and password.
//
// Returns:
//   - a *validators.ValidationError if email or password is missing;
//   - ErrUserNotFound if no account uses the email;
//   - ErrInvalidCredentials if the password does not match.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	req.Normalize()
	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Str("func", "*authService.Login").Msg("invalid login data")
		return models.AuthResponse{}, err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.AuthResponse{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.AuthResponse{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !a.hasher.Verify(req.Password, user.PasswordHash) {
		log.Debug().Str("func", "*authService.Login").Str("user_id", user.ID).Msg("wrong password")
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(ctx, user.ID)
	if err != nil {
		return models.AuthResponse{}, err
	}

	return models.AuthResponse{
		Token: token.String(),
		User:  user.Profile(),
	}, nil
}

// Authenticate resolves a bearer token to the identity of a live user.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	userID, err := a.tokens.Verify(ctx, tokenString)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Identity{}, fmt.Errorf("%w: token subject does not exist", ErrUnauthorized)
		}
		log.Err(err).Str("func", "*authService.Authenticate").Msg("user search by id failed")
		return models.Identity{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return models.Identity{
		UserID:  user.ID,
		Profile: user.Profile(),
	}, nil
}
