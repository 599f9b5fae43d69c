// Package scenes holds the immutable story graph and its loaders.
package scenes

import (
	"errors"
	"fmt"
	"sort"

	"adventure-server/internal/domain"
	"adventure-server/internal/effects"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Graph maps scene ids to scenes. It is safe for concurrent reads and never mutated after New.
type Graph struct {
	scenes  map[string]domain.Scene
	startID string
}

// Reference points at a choice whose target could not be resolved.
type Reference struct {
	SceneID     string `json:"sceneId"`
	ChoiceIndex int    `json:"choiceIndex"`
	Next        string `json:"next"`
}

// Issue is an authoring problem that does not prevent the graph from loading.
type Issue struct {
	SceneID     string `json:"sceneId"`
	ChoiceIndex int    `json:"choiceIndex"`
	Token       string `json:"token"`
}

// New validates the scene list and builds the graph. It rejects empty lists, structurally
// invalid scenes, duplicate ids and tables without exactly one start scene. Dangling choice
// targets are allowed; they surface at play time as domain.ErrSceneNotFound.
func New(list []domain.Scene) (*Graph, error) {
	if len(list) == 0 {
		return nil, errors.New("scene table is empty")
	}
	g := &Graph{scenes: make(map[string]domain.Scene, len(list))}
	for _, sc := range list {
		if err := validate.Struct(sc); err != nil {
			return nil, fmt.Errorf("invalid scene %q: %w", sc.ID, err)
		}
		if _, dup := g.scenes[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate scene id %q", sc.ID)
		}
		if sc.IsStart {
			if g.startID != "" {
				return nil, fmt.Errorf("more than one start scene: %q and %q", g.startID, sc.ID)
			}
			g.startID = sc.ID
		}
		sc.Choices = append([]domain.Choice(nil), sc.Choices...)
		g.scenes[sc.ID] = sc
	}
	if g.startID == "" {
		return nil, errors.New("scene table has no start scene")
	}
	return g, nil
}

// Get returns the scene with the given id or an error wrapping domain.ErrSceneNotFound.
func (g *Graph) Get(id string) (domain.Scene, error) {
	sc, ok := g.scenes[id]
	if !ok {
		return domain.Scene{}, fmt.Errorf("%w: %s", domain.ErrSceneNotFound, id)
	}
	sc.Choices = append([]domain.Choice(nil), sc.Choices...)
	return sc, nil
}

// Has reports whether id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.scenes[id]
	return ok
}

// Start returns the designated start scene.
func (g *Graph) Start() domain.Scene {
	sc, _ := g.Get(g.startID)
	return sc
}

// StartID returns the id of the start scene.
func (g *Graph) StartID() string {
	return g.startID
}

// Len returns the number of scenes.
func (g *Graph) Len() int {
	return len(g.scenes)
}

// IDs returns all scene ids sorted.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.scenes))
	for id := range g.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DanglingReferences lists choices pointing at scenes that do not exist, ordered by scene id.
func (g *Graph) DanglingReferences() []Reference {
	var refs []Reference
	for _, id := range g.IDs() {
		for i, ch := range g.scenes[id].Choices {
			if !g.Has(ch.Next) {
				refs = append(refs, Reference{SceneID: id, ChoiceIndex: i, Next: ch.Next})
			}
		}
	}
	return refs
}

// EffectIssues lists effect tokens that will be ignored at play time.
func (g *Graph) EffectIssues() []Issue {
	var issues []Issue
	for _, id := range g.IDs() {
		for i, ch := range g.scenes[id].Choices {
			for _, tok := range effects.Validate(ch.Effects) {
				issues = append(issues, Issue{SceneID: id, ChoiceIndex: i, Token: tok})
			}
		}
	}
	return issues
}
