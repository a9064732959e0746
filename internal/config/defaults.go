package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Built-in values used for every field no other source sets.
const (
	DefaultHTTPAddress     = "localhost:8080"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultAuthRateLimit   = 5
	DefaultAuthRateBurst   = 10

	DefaultTokenIssuer   = "go-todo-keeper"
	DefaultTokenDuration = 7 * 24 * time.Hour
	DefaultLogLevel      = "info"

	DefaultDBDriver = DriverPostgres

	DefaultAdapterTimeout = 10 * time.Second
)

// DefaultPasswordHashCost is the bcrypt cost used when none is configured.
const DefaultPasswordHashCost = bcrypt.DefaultCost

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      DefaultTokenIssuer,
			TokenDuration:    DefaultTokenDuration,
			PasswordHashCost: DefaultPasswordHashCost,
			LogLevel:         DefaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver: DefaultDBDriver,
			},
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			AuthRateLimit:   DefaultAuthRateLimit,
			AuthRateBurst:   DefaultAuthRateBurst,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultAdapterTimeout,
		},
	}
}
