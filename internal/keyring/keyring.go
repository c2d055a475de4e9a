package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for names outside KnownSecrets
	ErrUnknownSecret = errors.New("unknown secret name")
)

// Provider credential names. They match the environment variables the relay reads.
const (
	GeminiAPIKey      = "GEMINI_API_KEY"
	OpenAIAPIKey      = "OPENAI_API_KEY"
	HuggingFaceAPIKey = "HUGGINGFACE_API_KEY"
	AzureAPIKey       = "AZURE_OPENAI_API_KEY"
	AzureEndpoint     = "AZURE_OPENAI_ENDPOINT"
	AzureDeployment   = "AZURE_OPENAI_DEPLOYMENT"

	// ConnectionStringName holds the PostgreSQL connection string.
	ConnectionStringName = constants.DefaultKeyringUser
)

// KnownSecrets lists every name that may be stored.
var KnownSecrets = []string{
	ConnectionStringName,
	GeminiAPIKey,
	OpenAIAPIKey,
	HuggingFaceAPIKey,
	AzureAPIKey,
	AzureEndpoint,
	AzureDeployment,
}

// IsKnown reports whether name may be stored in the keyring.
func IsKnown(name string) bool {
	for _, s := range KnownSecrets {
		if s == name {
			return true
		}
	}
	return false
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored under name.
func Get(name string) (string, error) {
	if !IsKnown(name) {
		return "", fmt.Errorf("%w: %s (expected one of %s)", ErrUnknownSecret, name, strings.Join(KnownSecrets, ", "))
	}
	value, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(name, value string) error {
	if !IsKnown(name) {
		return fmt.Errorf("%w: %s (expected one of %s)", ErrUnknownSecret, name, strings.Join(KnownSecrets, ", "))
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value cannot be empty")
	}
	if err := keyring.Set(constants.AppName, name, value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(name string) error {
	if !IsKnown(name) {
		return fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}
	if err := keyring.Delete(constants.AppName, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return Set(constants.DefaultKeyringUser, connStr)
}

// DeleteConnectionString removes the PostgreSQL connection string.
func DeleteConnectionString() error {
	return Delete(constants.DefaultKeyringUser)
}

// Lookup adapts Get to the (value, ok) shape used for credential fallbacks.
// Any keyring error counts as absent.
func Lookup(name string) (string, bool) {
	value, err := Get(name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// IsAvailable is a best-effort check that the OS keyring can be reached.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
