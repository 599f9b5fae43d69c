// Package effects parses and applies the compact stat-effect strings attached to choices,
// e.g. "itibar+10,etik-5".
//
// The parser is total: malformed tokens and unknown stat names are dropped silently. This is
// a compatibility rule for authored content, not an error path.
package effects

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"adventure-server/internal/domain"
)

// The first <letters><sign><digits> run inside a token wins; surrounding noise is ignored.
var tokenPattern = regexp.MustCompile(`(\p{L}+)([+-])(\d+)`)

// Delta is a single typed stat change.
type Delta struct {
	Stat   domain.StatName `json:"stat"`
	Amount int             `json:"amount"`
}

// Parse splits an effect string into typed deltas. Tokens without a
// <letters><+|-><digits> run are skipped. Stat names are not checked here.
func Parse(effects string) []Delta {
	if strings.TrimSpace(effects) == "" {
		return nil
	}
	var deltas []Delta
	for _, raw := range strings.Split(effects, ",") {
		d, ok := parseToken(raw)
		if !ok {
			continue
		}
		deltas = append(deltas, d)
	}
	return deltas
}

func parseToken(raw string) (Delta, bool) {
	m := tokenPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Delta{}, false
	}
	n, err := strconv.Atoi(m[3])
	if errors.Is(err, strconv.ErrRange) {
		// saturates; the stat is clamped when applied
		n = math.MaxInt
	} else if err != nil {
		return Delta{}, false
	}
	if m[2] == "-" {
		n = -n
	}
	return Delta{Stat: domain.StatName(m[1]), Amount: n}, true
}

// Apply returns stats with every recognised delta of the effect string applied and clamped.
func Apply(stats domain.PlayerStats, effects string) domain.PlayerStats {
	return ApplyDeltas(stats, Parse(effects))
}

// ApplyDeltas applies typed deltas in order. Each intermediate value is clamped, so a
// later delta on the same stat starts from the clamped value.
func ApplyDeltas(stats domain.PlayerStats, deltas []Delta) domain.PlayerStats {
	for _, d := range deltas {
		old, ok := stats.Get(d.Stat)
		if !ok {
			continue
		}
		stats.Set(d.Stat, saturatingAdd(old, d.Amount))
	}
	return stats
}

// saturatingAdd avoids wrap-around for huge authored deltas; the result is clamped anyway.
func saturatingAdd(a, b int) int {
	if b > 0 && a > domain.StatMax*2-b {
		return domain.StatMax
	}
	if b < 0 && a < -domain.StatMax-b {
		return domain.StatMin
	}
	return a + b
}

// Validate reports the tokens of an effect string that would be ignored at play time:
// malformed tokens and tokens naming an unknown stat. It is meant for authoring checks.
func Validate(effects string) []string {
	if strings.TrimSpace(effects) == "" {
		return nil
	}
	var bad []string
	for _, raw := range strings.Split(effects, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		d, ok := parseToken(tok)
		if !ok || !domain.IsStat(string(d.Stat)) {
			bad = append(bad, tok)
		}
	}
	return bad
}

// String renders deltas back into the compact notation.
func String(deltas []Delta) string {
	parts := make([]string, 0, len(deltas))
	for _, d := range deltas {
		sign := "+"
		n := d.Amount
		if n < 0 {
			sign = "-"
			n = -n
		}
		parts = append(parts, string(d.Stat)+sign+strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}
