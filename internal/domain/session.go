package domain

import "time"

// Citation is a web source returned by grounded search.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// DisplayTitle falls back to the URI when the provider returned no title.
func (c Citation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.URI
}

// SearchState is the auxiliary grounded search panel. It never influences the game.
type SearchState struct {
	Query     string     `json:"query"`
	Text      string     `json:"text,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	Error     string     `json:"error,omitempty"`
	Searching bool       `json:"searching"`
}

// Session is the mutable runtime state of the single game hosted by the process.
type Session struct {
	ID             string      `json:"sessionId"`
	CurrentSceneID string      `json:"currentSceneId"`
	Stats          PlayerStats `json:"stats"`
	LastChoiceText string      `json:"lastChoiceText,omitempty"`
	NarrativeText  string      `json:"narrativeText"`
	ImageRef       string      `json:"imageRef,omitempty"`
	Error          string      `json:"error,omitempty"`
	Loading        bool        `json:"loading"`
	Search         SearchState `json:"search"`
	StartedAt      time.Time   `json:"startedAt"`
}

// NewSession returns a session positioned on startSceneID with the initial stats.
func NewSession(id, startSceneID string, now time.Time) Session {
	return Session{
		ID:             id,
		CurrentSceneID: startSceneID,
		Stats:          InitialStats(),
		StartedAt:      now,
	}
}

// Turn is one committed transition, kept in the session journal.
type Turn struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"sessionId"`
	Sequence   int         `json:"sequence"`
	FromScene  string      `json:"fromScene"`
	ToScene    string      `json:"toScene"`
	ChoiceText string      `json:"choiceText"`
	Effects    string      `json:"effects,omitempty"`
	Kind       string      `json:"kind"`
	Stats      PlayerStats `json:"stats"`
	CreatedAt  time.Time   `json:"createdAt"`
}
