// Package config provides editor credential configuration and password verification.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// EditorConfig holds the single-editor credentials the server authenticates
// against. The password is only ever stored as a bcrypt hash.
type EditorConfig struct {
	Username     string
	PasswordHash string
	BcryptCost   int
}

// NewEditorConfig creates editor credentials from environment variables.
// It reads EDITOR_PASSWORD_HASH (required), EDITOR_USERNAME (default:
// "editor"), and BCRYPT_COST (default: 12, used when hashing new passwords).
func NewEditorConfig() (*EditorConfig, error) {
	hash := os.Getenv("EDITOR_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("EDITOR_PASSWORD_HASH is required but not set")
	}

	username := os.Getenv("EDITOR_USERNAME")
	if username == "" {
		username = "editor"
	}

	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &EditorConfig{
		Username:     username,
		PasswordHash: hash,
		BcryptCost:   cost,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *EditorConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func (c *EditorConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a login attempt against the configured credentials.
func (c *EditorConfig) VerifyPassword(username, pw string) bool {
	if username != c.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pw)) == nil
}
