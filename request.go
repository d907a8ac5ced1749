package remix

import "fmt"

// GenerationRequest is an immutable pair of images plus a prompt.
// The zero value is not valid; use NewGenerationRequest.
type GenerationRequest struct {
	imageA ImageInput
	imageB ImageInput
	prompt string
}

// NewGenerationRequest validates its inputs and returns a request that owns
// private copies of both images. Images without a MIME type get one sniffed
// from their content.
func NewGenerationRequest(imageA, imageB *ImageInput, prompt string) (GenerationRequest, error) {
	if imageA == nil || imageB == nil {
		return GenerationRequest{}, ErrMissingImage
	}
	if err := ValidatePrompt(prompt); err != nil {
		return GenerationRequest{}, err
	}
	for slot, img := range []*ImageInput{imageA, imageB} {
		if err := ValidateInputImage(*img); err != nil {
			return GenerationRequest{}, fmt.Errorf("image %s: %w", Slot(slot), err)
		}
	}

	a, b := imageA.Clone(), imageB.Clone()
	if a.MIMEType == "" {
		a.MIMEType = DetectMIMEType(a.Data)
	}
	if b.MIMEType == "" {
		b.MIMEType = DetectMIMEType(b.Data)
	}

	return GenerationRequest{imageA: a, imageB: b, prompt: prompt}, nil
}

// ImageA returns a copy of the first image.
func (r GenerationRequest) ImageA() ImageInput { return r.imageA.Clone() }

// ImageB returns a copy of the second image.
func (r GenerationRequest) ImageB() ImageInput { return r.imageB.Clone() }

// Prompt returns the prompt text as given.
func (r GenerationRequest) Prompt() string { return r.prompt }

// Images returns copies of both images in submission order.
func (r GenerationRequest) Images() []ImageInput {
	return []ImageInput{r.ImageA(), r.ImageB()}
}
