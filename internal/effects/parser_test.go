package effects_test

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"adventure-server/internal/domain"
	"adventure-server/internal/effects"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	base := domain.InitialStats()

	tests := []struct {
		name    string
		stats   domain.PlayerStats
		effects string
		want    domain.PlayerStats
	}{
		{
			name:    "empty string keeps stats",
			stats:   base,
			effects: "",
			want:    base,
		},
		{
			name:    "whitespace only keeps stats",
			stats:   base,
			effects: "   ",
			want:    base,
		},
		{
			name:    "clamps at upper bound",
			stats:   domain.PlayerStats{Itibar: 50},
			effects: "itibar+200",
			want:    domain.PlayerStats{Itibar: 100},
		},
		{
			name:    "clamps at lower bound",
			stats:   domain.PlayerStats{Etik: 100},
			effects: "etik-999",
			want:    domain.PlayerStats{Etik: 0},
		},
		{
			name:    "unknown stat is ignored",
			stats:   base,
			effects: "unknownStat+10,itibar+5",
			want: func() domain.PlayerStats {
				s := base
				s.Itibar += 5
				return s
			}(),
		},
		{
			name:    "tokens are trimmed",
			stats:   base,
			effects: "medya+10, itibar+5",
			want: func() domain.PlayerStats {
				s := base
				s.Medya += 10
				s.Itibar += 5
				return s
			}(),
		},
		{
			name:    "malformed tokens are skipped",
			stats:   base,
			effects: "itibar,+5,etik-,moral*3,partiGucu±0,medya+2",
			want: func() domain.PlayerStats {
				s := base
				s.Medya += 2
				return s
			}(),
		},
		{
			name:    "stat names are case sensitive",
			stats:   base,
			effects: "Itibar+10,ETIK-50",
			want:    base,
		},
		{
			name:    "zero delta is a no-op",
			stats:   base,
			effects: "itibar-5,etik+0",
			want: func() domain.PlayerStats {
				s := base
				s.Itibar -= 5
				return s
			}(),
		},
		{
			name:    "overflowing positive digit run clamps to max",
			stats:   base,
			effects: "itibar+99999999999999999999999999,moral-5",
			want: func() domain.PlayerStats {
				s := base
				s.Itibar = domain.StatMax
				s.Moral -= 5
				return s
			}(),
		},
		{
			name:    "overflowing negative digit run clamps to min",
			stats:   base,
			effects: "etik-99999999999999999999",
			want: func() domain.PlayerStats {
				s := base
				s.Etik = domain.StatMin
				return s
			}(),
		},
		{
			name:    "clamping applies per token in order",
			stats:   domain.PlayerStats{Moral: 90},
			effects: "moral+50,moral-20",
			want:    domain.PlayerStats{Moral: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effects.Apply(tt.stats, tt.effects))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("signed typed deltas", func(t *testing.T) {
		got := effects.Parse("medya+5,partiGucu-3,etik-5")
		assert.Equal(t, []effects.Delta{
			{Stat: domain.StatMedya, Amount: 5},
			{Stat: domain.StatPartiGucu, Amount: -3},
			{Stat: domain.StatEtik, Amount: -5},
		}, got)
	})

	t.Run("locale letters are accepted as names", func(t *testing.T) {
		got := effects.Parse("güç+3")
		assert.Equal(t, []effects.Delta{{Stat: "güç", Amount: 3}}, got)
	})

	t.Run("overflowing digit run saturates", func(t *testing.T) {
		got := effects.Parse("itibar+99999999999999999999,etik-99999999999999999999")
		assert.Equal(t, []effects.Delta{
			{Stat: domain.StatItibar, Amount: math.MaxInt},
			{Stat: domain.StatEtik, Amount: -math.MaxInt},
		}, got)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, effects.Parse(""))
	})

	t.Run("round trips through String", func(t *testing.T) {
		in := "itibar+10,etik-5"
		assert.Equal(t, in, effects.String(effects.Parse(in)))
	})
}

func TestValidate(t *testing.T) {
	assert.Empty(t, effects.Validate("itibar+10, etik-5"))
	assert.Equal(t, []string{"populerlik+5", "moral"}, effects.Validate("populerlik+5,moral,medya+1"))
}

func TestApplyKeepsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"itibar", "partiGucu", "etik", "medya", "moral", "bilinmeyen", ""}
	signs := []string{"+", "-", "", "*"}

	for i := 0; i < 500; i++ {
		stats := domain.PlayerStats{
			Itibar:    rng.Intn(101),
			PartiGucu: rng.Intn(101),
			Etik:      rng.Intn(101),
			Medya:     rng.Intn(101),
			Moral:     rng.Intn(101),
		}
		var tokens []string
		for j := 0; j < rng.Intn(6); j++ {
			tokens = append(tokens, names[rng.Intn(len(names))]+signs[rng.Intn(len(signs))]+strconv.Itoa(rng.Intn(1000)))
		}
		got := effects.Apply(stats, strings.Join(tokens, ","))
		for _, v := range got.View() {
			assert.GreaterOrEqual(t, v.Value, domain.StatMin)
			assert.LessOrEqual(t, v.Value, domain.StatMax)
		}
	}
}
