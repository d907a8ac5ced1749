package remix

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrNoResultImage is returned when a result carries no image.
var ErrNoResultImage = errors.New("result has no image")

// GenerationResult holds the normalized output of a remix request.
type GenerationResult struct {
	// ImageURL is a data URI (data:<mime>;base64,<payload>), empty if absent
	ImageURL string

	// Text contains the accompanying caption, empty if absent
	Text string

	// UsageMetadata contains token/billing information, when reported
	UsageMetadata *UsageMetadata
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
}

// HasImage reports whether the result carries an image.
func (r *GenerationResult) HasImage() bool {
	return r != nil && r.ImageURL != ""
}

// ImageBytes decodes the image data URI.
func (r *GenerationResult) ImageBytes() ([]byte, string, error) {
	if !r.HasImage() {
		return nil, "", ErrNoResultImage
	}
	return ParseDataURI(r.ImageURL)
}

// DataURI encodes data as a base64 data URI tagged with mimeType.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a base64 data URI built by DataURI.
func ParseDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64: %w", err)
	}
	return data, mimeType, nil
}
