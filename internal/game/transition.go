// Package game runs the single game session: it applies choices to the scene graph and
// fetches generated content for the scene the player lands on.
package game

import (
	"adventure-server/internal/domain"
	"adventure-server/internal/effects"
)

// Transition kinds, also used as journal and metric labels.
const (
	KindNormal         = "normal"
	KindReset          = "reset"
	KindImprisonment   = "imprisonment"
	KindEthicsCollapse = "ethics_collapse"
)

// Thresholds of the terminal predicates, checked on the stats after effects are applied.
const (
	imprisonmentEthicsBelow = 20
	imprisonmentMoraleBelow = 30
	ethicsCollapseBelow     = 10
)

// Outcome is the result of applying a choice to a scene.
type Outcome struct {
	Kind       string
	Next       string
	Stats      domain.PlayerStats
	LastChoice string
}

// Reset reports whether the outcome starts a fresh game.
func (o Outcome) Reset() bool { return o.Kind == KindReset }

// Forced reports whether a terminal predicate overrode the choice target.
func (o Outcome) Forced() bool {
	return o.Kind == KindImprisonment || o.Kind == KindEthicsCollapse
}

// Transition computes where choice leads from current. It is pure.
//
// Leaving a start or terminal scene resets the game: stats go back to the initial values and
// the choice's effects are not applied. Otherwise the effects are applied and the terminal
// predicates are checked in priority order: imprisonment when ethics < 20 and morale < 30,
// then ethics collapse when ethics < 10. The new stats are kept whichever branch is taken.
func Transition(current domain.Scene, stats domain.PlayerStats, choice domain.Choice) Outcome {
	if current.Resets() {
		return Outcome{Kind: KindReset, Next: choice.Next, Stats: domain.InitialStats()}
	}

	next := effects.Apply(stats, choice.Effects)
	out := Outcome{Kind: KindNormal, Next: choice.Next, Stats: next, LastChoice: choice.Text}
	switch {
	case next.Etik < imprisonmentEthicsBelow && next.Moral < imprisonmentMoraleBelow:
		out.Kind, out.Next = KindImprisonment, domain.SceneImprisonment
	case next.Etik < ethicsCollapseBelow:
		out.Kind, out.Next = KindEthicsCollapse, domain.SceneEthicsCollapse
	}
	return out
}
