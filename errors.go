package remix

import (
	"errors"
	"fmt"
)

// ErrNoImageReturned is wrapped by a GenerationFailure when the remote call
// succeeded but the model did not produce an inline image.
var ErrNoImageReturned = errors.New("the model did not return an image, try a different prompt")

// ErrStorageNotConfigured is returned when an export is attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

// ConfigurationError is returned when a required configuration value is
// missing at startup. It is fatal: nothing that depends on the value can be
// constructed.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// IsConfigurationError checks if an error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// GenerationFailure is returned when a generation request fails, either in
// transport, on the remote side, or because no image came back.
type GenerationFailure struct {
	Message string
	Err     error // Underlying error from the provider
}

func (e *GenerationFailure) Error() string {
	return "Failed to generate image: " + e.Message
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// NewGenerationFailure wraps err, deriving the message from it.
func NewGenerationFailure(err error) *GenerationFailure {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &GenerationFailure{Message: msg, Err: err}
}

// IsGenerationFailure checks if an error is a GenerationFailure.
func IsGenerationFailure(err error) bool {
	var genErr *GenerationFailure
	return errors.As(err, &genErr)
}
