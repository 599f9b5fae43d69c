package game

import (
	"testing"

	"adventure-server/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	mid := domain.Scene{ID: "afisKrizi", Title: "Afiş Krizi", NarrativeSeed: "seed"}
	start := domain.Scene{ID: "welcome", Title: "Hoş Geldiniz", NarrativeSeed: "seed", IsStart: true}
	terminal := domain.Scene{ID: domain.SceneImprisonment, Title: "Hapis", NarrativeSeed: "seed", IsTerminal: true}

	withStats := func(etik, moral int) domain.PlayerStats {
		s := domain.InitialStats()
		s.Etik, s.Moral = etik, moral
		return s
	}

	tests := []struct {
		name      string
		scene     domain.Scene
		stats     domain.PlayerStats
		choice    domain.Choice
		wantKind  string
		wantNext  string
		wantStats domain.PlayerStats
		wantLast  string
	}{
		{
			name:      "normal choice applies effects",
			scene:     mid,
			stats:     domain.InitialStats(),
			choice:    domain.Choice{Text: "Direniş", Next: "afisKrizi_sonuc_savun", Effects: "medya+5,partiGucu-3,etik-5"},
			wantKind:  KindNormal,
			wantNext:  "afisKrizi_sonuc_savun",
			wantStats: domain.PlayerStats{Itibar: 50, PartiGucu: 27, Etik: 95, Medya: 25, Moral: 75},
			wantLast:  "Direniş",
		},
		{
			name:      "imprisonment when ethics and morale are low",
			scene:     mid,
			stats:     withStats(20, 30),
			choice:    domain.Choice{Text: "Kötü", Next: "x", Effects: "etik-5,moral-5"},
			wantKind:  KindImprisonment,
			wantNext:  domain.SceneImprisonment,
			wantStats: withStats(15, 25),
			wantLast:  "Kötü",
		},
		{
			name:      "ethics collapse with high morale",
			scene:     mid,
			stats:     withStats(12, 80),
			choice:    domain.Choice{Text: "Kötü", Next: "x", Effects: "etik-7"},
			wantKind:  KindEthicsCollapse,
			wantNext:  domain.SceneEthicsCollapse,
			wantStats: withStats(5, 80),
			wantLast:  "Kötü",
		},
		{
			name:      "imprisonment wins over ethics collapse",
			scene:     mid,
			stats:     withStats(10, 10),
			choice:    domain.Choice{Text: "Kötü", Next: "x", Effects: "etik-5,moral-5"},
			wantKind:  KindImprisonment,
			wantNext:  domain.SceneImprisonment,
			wantStats: withStats(5, 5),
			wantLast:  "Kötü",
		},
		{
			name:      "thresholds are strict",
			scene:     mid,
			stats:     withStats(20, 30),
			choice:    domain.Choice{Text: "Nötr", Next: "x", Effects: "etik+0"},
			wantKind:  KindNormal,
			wantNext:  "x",
			wantStats: withStats(20, 30),
			wantLast:  "Nötr",
		},
		{
			name:      "low stats already below threshold still branch without effects",
			scene:     mid,
			stats:     withStats(5, 90),
			choice:    domain.Choice{Text: "Devam", Next: "x"},
			wantKind:  KindEthicsCollapse,
			wantNext:  domain.SceneEthicsCollapse,
			wantStats: withStats(5, 90),
			wantLast:  "Devam",
		},
		{
			name:      "leaving start resets and ignores effects",
			scene:     start,
			stats:     withStats(3, 3),
			choice:    domain.Choice{Text: "Başla", Next: "start", Effects: "etik-100"},
			wantKind:  KindReset,
			wantNext:  "start",
			wantStats: domain.InitialStats(),
		},
		{
			name:      "leaving terminal resets",
			scene:     terminal,
			stats:     withStats(0, 0),
			choice:    domain.Choice{Text: "Yeniden Başla", Next: "welcome"},
			wantKind:  KindReset,
			wantNext:  "welcome",
			wantStats: domain.InitialStats(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Transition(tt.scene, tt.stats, tt.choice)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantNext, out.Next)
			assert.Equal(t, tt.wantStats, out.Stats)
			assert.Equal(t, tt.wantLast, out.LastChoice)
			assert.Equal(t, tt.wantKind == KindReset, out.Reset())
			assert.Equal(t, tt.wantKind == KindImprisonment || tt.wantKind == KindEthicsCollapse, out.Forced())
		})
	}
}
