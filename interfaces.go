package remix

import "context"

// Generator turns a two-image remix request into a result.
// Implement this interface to add support for new providers.
//
// Implementations make exactly one remote call per Generate and never retry.
// Every failure is reported as a *GenerationFailure.
type Generator interface {
	// Generate sends both images and the prompt, in that order, and
	// normalizes the response into a GenerationResult.
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)

	// Close releases any resources held by the generator.
	Close() error
}
