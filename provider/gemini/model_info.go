package gemini

import (
	"strings"

	"github.com/mhpenta/remix"
)

// NanoBanana2Info is the model info for Gemini 3 Pro Image (nano-banana-2).
var NanoBanana2Info = remix.ModelInfo{
	Name:         "nano-banana-2",
	Provider:     remix.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana2,

	Capabilities: remix.ModelCapabilities{
		SupportsMultiImage: true,
		SupportsThinking:   true,
		MaxInputImages:     14,
	},

	ContextLength: 1048576, // 1M tokens
}

// NanoBanana1Info is the model info for Gemini 2.5 Flash Image (nano-banana-1).
var NanoBanana1Info = remix.ModelInfo{
	Name:         "nano-banana-1",
	Provider:     remix.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,

	Capabilities: remix.ModelCapabilities{
		SupportsMultiImage: true,
		MaxInputImages:     3, // Best results with up to three inputs
	},

	ContextLength: 32768,
}

// Models returns the models known to this provider.
func Models() []remix.ModelInfo {
	return []remix.ModelInfo{
		NanoBanana1Info,
		NanoBanana2Info,
	}
}

// LookupModel finds a known model by public or API name.
func LookupModel(name string) (remix.ModelInfo, bool) {
	name = strings.TrimSpace(name)
	for _, info := range Models() {
		if strings.EqualFold(info.Name, name) || info.APIModelName == name {
			return info, true
		}
	}
	return remix.ModelInfo{}, false
}
