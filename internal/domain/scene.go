package domain

// Well-known scene ids referenced by game rules.
const (
	SceneWelcome        = "welcome"
	SceneImprisonment   = "gameOver_hapis"
	SceneEthicsCollapse = "gameOver_etikDusuk"
)

// Choice is an edge of the story graph.
type Choice struct {
	Text    string `json:"text" validate:"required"`
	Next    string `json:"next" validate:"required"`
	Effects string `json:"effects"`
}

// Scene is a node of the story graph. Scenes are immutable once the graph is built.
type Scene struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	NarrativeSeed string   `json:"storyPromptSeed" validate:"required"`
	ImagePrompt   string   `json:"imgPrompt,omitempty"`
	Choices       []Choice `json:"choices" validate:"dive"`
	IsStart       bool     `json:"isGameStart,omitempty"`
	IsTerminal    bool     `json:"isGameOver,omitempty"`
}

// Resets reports whether leaving this scene starts a fresh game instead of applying effects.
func (s Scene) Resets() bool {
	return s.IsStart || s.IsTerminal
}

// HasImage reports whether the scene asks for an illustration.
func (s Scene) HasImage() bool {
	return s.ImagePrompt != ""
}
