package generation

import (
	"strings"
	"testing"

	"adventure-server/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildNarrativePrompt(t *testing.T) {
	stats := domain.InitialStats()

	t.Run("with last choice", func(t *testing.T) {
		got := BuildNarrativePrompt(NarrativeRequest{
			SceneID:        "afisKrizi",
			Seed:           "Gece afişleme faaliyeti sırasındasın.",
			Stats:          stats,
			LastChoiceText: "İlk görevime hazırım!",
		})

		want := "Sahne ID: afisKrizi\n" +
			"Oyuncunun Durumu: İtibar=50, Parti Gücü=30, Etik=100, Medya=20, Moral=75\n" +
			"Oyuncunun Son Seçimi: \"İlk görevime hazırım!\"\n" +
			"Hikaye Başlangıç Noktası/Temel Senaryo: \"Gece afişleme faaliyeti sırasındasın.\"\n\n" +
			narrativeInstruction
		assert.Equal(t, want, got)
	})

	t.Run("without last choice", func(t *testing.T) {
		got := BuildNarrativePrompt(NarrativeRequest{SceneID: "welcome", Seed: "Hoş geldiniz", Stats: stats})
		assert.NotContains(t, got, "Oyuncunun Son Seçimi")
		assert.True(t, strings.HasPrefix(got, "Sahne ID: welcome\n"))
		assert.True(t, strings.HasSuffix(got, "Dramatik ve gerçekçi bir ton kullan."))
	})
}

func TestBuildImagePrompt(t *testing.T) {
	assert.Equal(t, "A street, hyperrealistic, dramatic lighting, 8k resolution, cinematic", BuildImagePrompt("A street"))
}

func TestEncodedDataURI(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,QUJD", EncodedDataURI("", "QUJD"))
	assert.Equal(t, "data:image/png;base64,QUJD", EncodedDataURI("image/png", "QUJD"))
}

func TestEstimateCounter(t *testing.T) {
	c := EstimateCounter()
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abc"))
	assert.Equal(t, 2, c.Count("İtibar=50"))
}
