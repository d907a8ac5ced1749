package remix

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageInput is an uploaded image held in memory.
type ImageInput struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType as declared by whoever supplied the file (e.g., "image/jpeg")
	MIMEType string
}

// Clone returns a deep copy of the image.
func (img ImageInput) Clone() ImageInput {
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	return ImageInput{Data: data, MIMEType: img.MIMEType}
}

// Slot identifies one of the two image inputs of a session.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

// ParseSlot parses "a" or "b" (case-insensitive).
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return SlotA, nil
	case "b":
		return SlotB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
}

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "a"
	case SlotB:
		return "b"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Source is the way a file reached the application.
type Source string

const (
	// SourcePicker is an explicit file selection. Any file is accepted.
	SourcePicker Source = "picker"

	// SourceDrop is a drag-and-drop. Only image/* files are accepted.
	SourceDrop Source = "drop"
)

// ParseSource parses a source name; empty means SourcePicker.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourcePicker:
		return SourcePicker, nil
	case SourceDrop:
		return SourceDrop, nil
	default:
		return "", fmt.Errorf("unknown image source %q", s)
	}
}

// Accept reports whether an image arriving from src may be placed in a slot.
func (src Source) Accept(img ImageInput) error {
	if src == SourceDrop && !IsImageMIMEType(img.MIMEType) {
		return fmt.Errorf("%w: %s", ErrNotAnImage, img.MIMEType)
	}
	return nil
}

// IsImageMIMEType reports whether mime is in the image/* family.
func IsImageMIMEType(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}

// ReadImageFile reads a file from disk and tags it with its detected MIME type.
func ReadImageFile(path string) (ImageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageInput{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ImageFromBytes(data, ""), nil
}

// ImageFromBytes builds an ImageInput. When mimeType is empty it is sniffed
// from the content.
func ImageFromBytes(data []byte, mimeType string) ImageInput {
	if mimeType == "" {
		mimeType = DetectMIMEType(data)
	}
	return ImageInput{
		Data:     data,
		MIMEType: mimeType,
	}
}

// DetectMIMEType sniffs the media type of data, without parameters.
func DetectMIMEType(data []byte) string {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}
