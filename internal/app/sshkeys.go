package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opkr/offroad/internal/params"
)

const defaultSSHKeysRequestTimeout = 15 * time.Second

var (
	ErrNoSSHKeys     = errors.New("user has no keys")
	ErrUnknownUser   = errors.New("user does not exist")
	ErrEmptyUsername = errors.New("username is required")
)

// SSHKeyStore is the params subset used by SSHKeys.
type SSHKeyStore interface {
	Get(key string) string
	Put(key, value string) error
	Remove(key string) error
}

// SSHKeysConfig customizes where keys are fetched from.
type SSHKeysConfig struct {
	// URLTemplate contains one %s for the username.
	URLTemplate string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// SSHKeys installs GitHub public keys for SSH access to the device.
type SSHKeys struct {
	store       SSHKeyStore
	urlTemplate string
	client      *http.Client
	logger      *slog.Logger
}

func NewSSHKeys(store SSHKeyStore, cfg SSHKeysConfig) *SSHKeys {
	tmpl := strings.TrimSpace(cfg.URLTemplate)
	if tmpl == "" {
		tmpl = "https://github.com/%s.keys"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultSSHKeysRequestTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "ssh_keys")
	}

	return &SSHKeys{store: store, urlTemplate: tmpl, client: client, logger: logger}
}

// Username returns the GitHub user whose keys are installed, empty when none.
func (s *SSHKeys) Username() string {
	return s.store.Get(params.KeyGithubUsername)
}

// Add fetches the user's public keys and stores them. The returned error text is meant
// for display.
func (s *SSHKeys) Add(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}

	endpoint := fmt.Sprintf(s.urlTemplate, url.PathEscape(username))
	s.logger.Debug("requesting ssh keys", "username", username, "endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create ssh keys request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request ssh keys: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("Username '%s' doesn't exist on GitHub: %w", username, ErrUnknownUser)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("request ssh keys: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read ssh keys: %w", err)
	}
	keys := strings.TrimSpace(string(body))
	if keys == "" {
		return fmt.Errorf("Username '%s' has no keys on GitHub: %w", username, ErrNoSSHKeys)
	}

	if err := s.store.Put(params.KeyGithubUsername, username); err != nil {
		return fmt.Errorf("store github username: %w", err)
	}
	if err := s.store.Put(params.KeyGithubSSHKeys, keys+"\n"); err != nil {
		return fmt.Errorf("store github ssh keys: %w", err)
	}
	s.logger.Info("installed ssh keys", "username", username, "key_count", strings.Count(keys, "\n")+1)

	return nil
}

// Remove clears the stored username and keys.
func (s *SSHKeys) Remove() error {
	if err := s.store.Remove(params.KeyGithubUsername); err != nil {
		return fmt.Errorf("remove github username: %w", err)
	}
	if err := s.store.Remove(params.KeyGithubSSHKeys); err != nil {
		return fmt.Errorf("remove github ssh keys: %w", err)
	}
	s.logger.Info("removed ssh keys")

	return nil
}

// DisplayMessage strips the sentinel suffix from errors returned by Add.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrNoSSHKeys, ErrUnknownUser} {
		if errors.Is(err, sentinel) {
			return strings.TrimSuffix(msg, ": "+sentinel.Error())
		}
	}

	return msg
}
