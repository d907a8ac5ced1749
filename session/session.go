// Package session implements the remix session: two image slots, a prompt,
// and at most one generation in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhpenta/remix"
)

// Session owns the inputs and outcome of a remix. It is safe for
// concurrent use; the lock is never held across the remote call.
type Session struct {
	generator remix.Generator
	logger    *slog.Logger
	timeout   time.Duration

	mu         sync.Mutex
	imageA     *remix.ImageInput
	imageB     *remix.ImageInput
	prompt     string
	generating bool
	result     *remix.GenerationResult
	errMsg     string
	settled    bool

	// token identifies the generation in flight; uuid.Nil when none.
	// A completion whose token no longer matches is stale and dropped.
	token uuid.UUID
}

// attempt is an accepted generation waiting to run.
type attempt struct {
	token uuid.UUID
	req   remix.GenerationRequest
	err   error
}

// New creates an empty session that generates through generator.
func New(generator remix.Generator, opts ...Option) *Session {
	s := &Session{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetImage replaces the image in slot; nil clears it. The prompt and any
// previous result or error are left as they are.
func (s *Session) SetImage(slot remix.Slot, img *remix.ImageInput) error {
	var stored *remix.ImageInput
	if img != nil {
		clone := img.Clone()
		stored = &clone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case remix.SlotA:
		s.imageA = stored
	case remix.SlotB:
		s.imageB = stored
	default:
		return fmt.Errorf("%w: %d", remix.ErrInvalidSlot, int(slot))
	}
	s.settled = false

	return nil
}

// SetPrompt replaces the prompt text.
func (s *Session) SetPrompt(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompt = text
	s.settled = false
}

// Generate runs one generation and blocks until it completes. It returns
// false, without changing anything, unless both images are present, the
// prompt is non-empty and no generation is in flight. Errors never escape:
// they end up in the session's error field.
func (s *Session) Generate(ctx context.Context) bool {
	a, ok := s.begin()
	if !ok {
		return false
	}
	s.run(ctx, a)
	return true
}

// Start is Generate without blocking. The returned channel is closed once
// the generation has completed (or been discarded by a reset).
func (s *Session) Start(ctx context.Context) (<-chan struct{}, bool) {
	a, ok := s.begin()
	if !ok {
		return nil, false
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx, a)
	}()
	return done, true
}

// Reset clears every field. A generation still in flight is abandoned and
// its completion will be ignored.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		s.logger.Info("abandoning in-flight generation", "token", s.token.String())
	}

	s.imageA = nil
	s.imageB = nil
	s.prompt = ""
	s.generating = false
	s.result = nil
	s.errMsg = ""
	s.settled = false
	s.token = uuid.Nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Prompt:     s.prompt,
		Generating: s.generating,
		Error:      s.errMsg,
		settled:    s.settled,
	}
	if s.imageA != nil {
		a := s.imageA.Clone()
		snap.ImageA = &a
	}
	if s.imageB != nil {
		b := s.imageB.Clone()
		snap.ImageB = &b
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return s.Snapshot().State()
}

func (s *Session) begin() (attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		s.logger.Debug("generation rejected: already in progress")
		return attempt{}, false
	}
	if s.imageA == nil || s.imageB == nil || remix.ValidatePrompt(s.prompt) != nil {
		s.logger.Debug("generation rejected: session not ready",
			"has_image_a", s.imageA != nil,
			"has_image_b", s.imageB != nil,
			"prompt_length", len(s.prompt),
		)
		return attempt{}, false
	}

	req, err := remix.NewGenerationRequest(s.imageA, s.imageB, s.prompt)

	s.result = nil
	s.errMsg = ""
	s.settled = false
	s.generating = true
	s.token = uuid.New()

	return attempt{token: s.token, req: req, err: err}, true
}

func (s *Session) run(ctx context.Context, a attempt) {
	if a.err != nil {
		s.complete(a.token, nil, a.err)
		return
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug("starting generation",
		"token", a.token.String(),
		"prompt_length", len(a.req.Prompt()),
	)

	start := time.Now()
	result, err := s.generator.Generate(ctx, a.req)
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("generation failed",
			"token", a.token.String(),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
	} else {
		logAttrs := []any{
			"token", a.token.String(),
			"duration_ms", duration.Milliseconds(),
			"has_image", result.HasImage(),
			"has_text", result != nil && result.Text != "",
		}
		if result != nil && result.UsageMetadata != nil {
			logAttrs = append(logAttrs,
				"prompt_tokens", result.UsageMetadata.PromptTokens,
				"response_tokens", result.UsageMetadata.CandidatesTokens,
				"total_tokens", result.UsageMetadata.TotalTokens,
			)
		}
		s.logger.Info("generation completed", logAttrs...)
	}

	s.complete(a.token, result, err)
}

// complete records the outcome if token is still current. The in-progress
// flag is cleared in the same critical section that sets the outcome, so
// no reader sees both.
func (s *Session) complete(token uuid.UUID, result *remix.GenerationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != token {
		s.logger.Debug("discarding stale generation result", "token", token.String())
		return
	}

	s.generating = false
	s.token = uuid.Nil
	s.settled = true

	switch {
	case err != nil:
		s.errMsg = failureMessage(err)
	case !result.HasImage():
		s.errMsg = failureMessage(remix.ErrNoImageReturned)
	default:
		r := *result
		s.result = &r
	}
}

// failureMessage renders err as the user-facing GenerationFailure message.
func failureMessage(err error) string {
	var failure *remix.GenerationFailure
	if errors.As(err, &failure) {
		return failure.Error()
	}
	return remix.NewGenerationFailure(err).Error()
}
