// Package credential stores the database password in the OS keyring.
package credential

import (
	"fmt"
	"net/url"

	"github.com/zalando/go-keyring"
)

const keyringService = "arangotui"

// Service handles password storage in the OS keyring.
type Service struct{}

// NewService creates a new credential service.
func NewService() *Service {
	return &Service{}
}

// Account returns the keyring account for a user on an endpoint,
// "user@host:port".
func Account(endpoint, username string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid endpoint: missing host in %q", endpoint)
	}
	return username + "@" + u.Host, nil
}

// SetPassword stores a password in the OS keyring. An empty password
// removes the entry.
func (s *Service) SetPassword(account, password string) error {
	if password == "" {
		_ = keyring.Delete(keyringService, account)
		return nil
	}
	return keyring.Set(keyringService, account, password)
}

// GetPassword retrieves a password from the OS keyring. A missing entry is
// not an error.
func (s *Service) GetPassword(account string) (string, error) {
	password, err := keyring.Get(keyringService, account)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	return password, err
}

// DeletePassword removes a password from the OS keyring.
func (s *Service) DeletePassword(account string) error {
	err := keyring.Delete(keyringService, account)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}
