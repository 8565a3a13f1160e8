package config

import (
	"crypto/subtle"
	"errors"
)

// ErrAdminDisabled is returned when neither ADMIN_PASSWORD_HASH nor ADMIN_PASSWORD is set.
var ErrAdminDisabled = errors.New("admin access is disabled: set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")

// AdminConfig verifies the dashboard password. A bcrypt hash takes
// precedence over a plain password.
type AdminConfig struct {
	PasswordHash string
	Password     string
	hasher       *PasswordConfig
}

// Admin builds the dashboard credential check from the auth section.
func (c *Config) Admin() (*AdminConfig, error) {
	if c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == "" {
		return nil, ErrAdminDisabled
	}
	admin := &AdminConfig{
		PasswordHash: c.Auth.AdminPasswordHash,
		Password:     c.Auth.AdminPassword,
	}
	if admin.PasswordHash != "" {
		hasher, err := c.Password()
		if err != nil {
			return nil, err
		}
		admin.hasher = hasher
	}
	return admin, nil
}

// Verify reports whether password is the admin password.
func (a *AdminConfig) Verify(password string) bool {
	if password == "" {
		return false
	}
	if a.PasswordHash != "" {
		return a.hasher.VerifyPassword(password, a.PasswordHash)
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
}
