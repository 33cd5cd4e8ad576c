// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
)

// Config holds everything the binaries need to start.
type Config struct {
	// Port is the HTTP listen port for the API server.
	Port string

	// TableName is the DynamoDB table holding all entity records.
	TableName string

	// CognitoUserPoolID identifies the user pool for account operations.
	CognitoUserPoolID string

	// CognitoClientID is the app client used for authentication flows.
	CognitoClientID string
}

// FromEnv reads configuration from environment variables, applying
// defaults where a value is optional.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		TableName:         getenv("TABLE_NAME", "music_library"),
		CognitoUserPoolID: os.Getenv("COGNITO_USER_POOL_ID"),
		CognitoClientID:   os.Getenv("COGNITO_CLIENT_ID"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CognitoUserPoolID == "" {
		return errors.New("config: COGNITO_USER_POOL_ID is required")
	}
	if c.CognitoClientID == "" {
		return errors.New("config: COGNITO_CLIENT_ID is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
