package remix

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrEmptyPrompt    = errors.New("prompt cannot be empty")
	ErrEmptyImageData = errors.New("image data cannot be empty")
	ErrImageTooLarge  = errors.New("image data exceeds maximum size")
	ErrMissingImage   = errors.New("both images are required")
	ErrNotAnImage     = errors.New("file is not an image")
	ErrInvalidSlot    = errors.New("invalid image slot")
)

// MaxImageSize is the maximum allowed image size in bytes (20MB)
const MaxImageSize = 20 * 1024 * 1024

// ValidatePrompt validates a text prompt. Whitespace-only prompts are empty.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateInputImage validates an input image.
//
// The MIME type is not checked against a list of image formats: explicit
// file selection accepts whatever the user picked and the remote model
// decides what it can read.
func ValidateInputImage(img ImageInput) error {
	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}

	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
	}

	return nil
}
