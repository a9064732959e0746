package service

import (
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/crypto"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
)

type Services struct {
	AuthService  AuthService
	TokenService TokenService
	TaskService  TaskService
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("error creating password hasher: %w", err)
	}

	validator := validators.NewRequestValidator()
	ids := utils.NewUUIDGenerator()
	tokens := NewTokenService(cfg, logger)

	return &Services{
		AuthService:  NewAuthService(storages.UserRepository, hasher, tokens, validator, ids, logger),
		TokenService: tokens,
		TaskService:  NewTaskValidationService(validator).Wrap(NewTaskService(storages.TaskRepository, ids, logger)),
	}, nil
}
