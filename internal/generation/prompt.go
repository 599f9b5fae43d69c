package generation

import (
	"fmt"
	"strings"

	"adventure-server/internal/domain"
)

// ImageStyleSuffix is appended to every scene illustration prompt.
const ImageStyleSuffix = ", hyperrealistic, dramatic lighting, 8k resolution, cinematic"

const narrativeInstruction = "Bu bilgileri kullanarak, yukarıdaki temel senaryoyu detaylandırarak mevcut sahneyi canlı, " +
	"sürükleyici ve Türk siyasi atmosferine uygun bir şekilde anlat. Anlatım yaklaşık 2-3 paragraf uzunluğunda olsun. " +
	"Dramatik ve gerçekçi bir ton kullan."

// Sampling parameters for narrative generation.
const (
	NarrativeTemperature float32 = 0.7
	NarrativeTopP        float32 = 0.95
	NarrativeTopK        int32   = 40
)

// BuildNarrativePrompt renders the Turkish narrative prompt for a scene.
func BuildNarrativePrompt(req NarrativeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sahne ID: %s\n", req.SceneID)

	stats := make([]string, 0, len(domain.StatNames))
	for _, v := range req.Stats.View() {
		stats = append(stats, fmt.Sprintf("%s=%d", v.Label, v.Value))
	}
	fmt.Fprintf(&b, "Oyuncunun Durumu: %s\n", strings.Join(stats, ", "))

	if req.LastChoiceText != "" {
		fmt.Fprintf(&b, "Oyuncunun Son Seçimi: \"%s\"\n", req.LastChoiceText)
	}
	fmt.Fprintf(&b, "Hikaye Başlangıç Noktası/Temel Senaryo: \"%s\"\n\n", req.Seed)
	b.WriteString(narrativeInstruction)
	return b.String()
}

// BuildImagePrompt decorates a scene image prompt with the house style.
func BuildImagePrompt(prompt string) string {
	return prompt + ImageStyleSuffix
}

// EncodedDataURI wraps an already base64-encoded payload.
func EncodedDataURI(mimeType, b64 string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + b64
}
