package game

import (
	"adventure-server/internal/domain"
)

// ChoiceView is a selectable choice as shown to the player.
type ChoiceView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Snapshot is a read-only copy of the session together with what a UI needs to render it.
type Snapshot struct {
	domain.Session
	SceneTitle     string            `json:"sceneTitle"`
	Choices        []ChoiceView      `json:"choices"`
	IsStart        bool              `json:"isStart"`
	IsTerminal     bool              `json:"isTerminal"`
	StatViews      []domain.StatView `json:"statViews"`
	ChoicesEnabled bool              `json:"choicesEnabled"`
	// CanSearch is true on story scenes; the search panel is hidden on start and terminal scenes.
	CanSearch bool `json:"canSearch"`
	// CanRestart is false only on the start scene.
	CanRestart bool `json:"canRestart"`
}

func newSnapshot(s domain.Session, scene domain.Scene) Snapshot {
	snap := Snapshot{
		Session:        s,
		SceneTitle:     scene.Title,
		IsStart:        scene.IsStart,
		IsTerminal:     scene.IsTerminal,
		StatViews:      s.Stats.View(),
		ChoicesEnabled: !s.Loading,
		CanSearch:      !scene.IsStart && !scene.IsTerminal,
		CanRestart:     !scene.IsStart,
	}
	snap.Search.Citations = append([]domain.Citation(nil), s.Search.Citations...)
	snap.Choices = make([]ChoiceView, 0, len(scene.Choices))
	for i, ch := range scene.Choices {
		snap.Choices = append(snap.Choices, ChoiceView{Index: i, Text: ch.Text})
	}
	return snap
}
