package remix

// ModelCapabilities describes what a model can do with a remix request.
type ModelCapabilities struct {
	SupportsMultiImage bool // Several input images in one request
	SupportsThinking   bool // Emits thought parts alongside the answer

	MaxInputImages int // Max images per request
}

// ModelInfo contains metadata for a model.
type ModelInfo struct {
	Name         string   // Public model name (e.g., "nano-banana-1")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-2.5-flash-image")

	Capabilities  ModelCapabilities
	ContextLength int
}

// CanRemix reports whether the model accepts the two images of a remix.
func (m ModelInfo) CanRemix() bool {
	return m.Capabilities.SupportsMultiImage && m.Capabilities.MaxInputImages >= 2
}
