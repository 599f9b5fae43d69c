package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"adventure-server/internal/domain"
	"adventure-server/internal/generation"
	"adventure-server/internal/generation/mocks"
	"adventure-server/internal/repository"
	"adventure-server/internal/scenes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	welcomeImg  = "kürsüde bekleyen genç bir aday"
	campaignImg = "seçim otobüsü"
	fakeImage   = "data:image/jpeg;base64,AAAA"
)

func testGraph(t *testing.T) *scenes.Graph {
	t.Helper()
	g, err := scenes.New([]domain.Scene{
		{
			ID: "welcome", Title: "Hoş Geldiniz", NarrativeSeed: "Siyasete adım atıyorsunuz.",
			ImagePrompt: welcomeImg, IsStart: true,
			Choices: []domain.Choice{{Text: "Oyuna Başla", Next: "kampanya", Effects: "etik-50"}},
		},
		{
			ID: "kampanya", Title: "Kampanya", NarrativeSeed: "Kampanya başlıyor.", ImagePrompt: campaignImg,
			Choices: []domain.Choice{
				{Text: "Dürüst ol", Next: "miting", Effects: "etik+5,moral+5"},
				{Text: "Rüşvet al", Next: "miting", Effects: "etik-95"},
				{Text: "Broşür bas", Next: "yok"},
				{Text: "Her şeyi bırak", Next: "miting", Effects: "etik-85,moral-50"},
			},
		},
		{
			ID: "miting", Title: "Miting", NarrativeSeed: "Meydan dolu.",
			Choices: []domain.Choice{{Text: "Geri dön", Next: "kampanya", Effects: "medya+1"}},
		},
		{
			ID: domain.SceneImprisonment, Title: "Hapis", NarrativeSeed: "Tutuklandınız.", IsTerminal: true,
			Choices: []domain.Choice{{Text: "Yeniden Başla", Next: "welcome", Effects: "etik-10"}},
		},
		{
			ID: domain.SceneEthicsCollapse, Title: "Etik Çöküş", NarrativeSeed: "Güven kalmadı.", IsTerminal: true,
			Choices: []domain.Choice{{Text: "Yeniden Başla", Next: "welcome"}},
		},
	})
	require.NoError(t, err)
	return g
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Broadcast(messageType, topic string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, topic+"/"+messageType)
}

func (n *recordingNotifier) count(messageType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == TopicSession+"/"+messageType {
			c++
		}
	}
	return c
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestController(t *testing.T, prov generation.Provider, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }),
	}
	return NewController(testGraph(t), prov, append(base, opts...)...)
}

func forScene(id string) interface{} {
	return mock.MatchedBy(func(r generation.NarrativeRequest) bool { return r.SceneID == id })
}

func expectScene(prov *mocks.MockProvider, sceneID, narrative, imgPrompt string) {
	prov.On("GenerateNarrative", mock.Anything, forScene(sceneID)).Return(narrative, nil).Once()
	if imgPrompt != "" {
		prov.On("GenerateImage", mock.Anything, imgPrompt).Return(fakeImage, nil).Once()
	}
}

// startOnCampaign starts the game and moves past the welcome scene.
func startOnCampaign(t *testing.T, c *Controller, prov *mocks.MockProvider) {
	t.Helper()
	expectScene(prov, "welcome", "Hoş geldiniz.", welcomeImg)
	expectScene(prov, "kampanya", "Otobüs yola çıktı.", campaignImg)
	c.Start(context.Background())
	_, err := c.SelectChoice(context.Background(), 0)
	require.NoError(t, err)
}

func TestNewControllerStartsOnStartScene(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)

	snap := c.Snapshot()
	assert.Equal(t, "id-1", snap.ID)
	assert.Equal(t, "welcome", snap.CurrentSceneID)
	assert.Equal(t, domain.InitialStats(), snap.Stats)
	assert.False(t, snap.Loading)
	assert.True(t, snap.IsStart)
	assert.False(t, snap.CanRestart)
	assert.False(t, snap.CanSearch)
	assert.Equal(t, []ChoiceView{{Index: 0, Text: "Oyuna Başla"}}, snap.Choices)
}

func TestStartLoadsNarrativeAndImage(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	notifier := &recordingNotifier{}
	c := newTestController(t, prov, WithNotifier(notifier))
	expectScene(prov, "welcome", "Hoş geldiniz.", welcomeImg)

	snap := c.Start(context.Background())

	assert.Equal(t, "Hoş geldiniz.", snap.NarrativeText)
	assert.Equal(t, fakeImage, snap.ImageRef)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Loading)
	assert.True(t, snap.ChoicesEnabled)
	// loading, narrative, image
	assert.Equal(t, 3, notifier.count(EventSessionUpdated))
	assert.Equal(t, "welcome", c.Graph().StartID())
}

func TestNarrativeFailureFallsBackToSeed(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	prov.On("GenerateNarrative", mock.Anything, forScene("welcome")).Return("", errors.New("quota exceeded")).Once()
	prov.On("GenerateImage", mock.Anything, welcomeImg).Return(fakeImage, nil).Once()

	snap := c.Start(context.Background())

	assert.Equal(t, "Siyasete adım atıyorsunuz.", snap.NarrativeText)
	assert.Equal(t, "Sahne yüklenirken hata: quota exceeded", snap.Error)
	assert.Equal(t, fakeImage, snap.ImageRef, "image is still requested")
	assert.False(t, snap.Loading)
}

func TestEmptyNarrativeFallsBackToSeed(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	prov.On("GenerateNarrative", mock.Anything, forScene("welcome")).Return("  \n", nil).Once()
	prov.On("GenerateImage", mock.Anything, welcomeImg).Return(fakeImage, nil).Once()

	snap := c.Start(context.Background())

	assert.Equal(t, "Siyasete adım atıyorsunuz.", snap.NarrativeText)
	assert.Contains(t, snap.Error, domain.ErrEmptyResponse.Error())
}

func TestImageFailureIsSilent(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	prov.On("GenerateNarrative", mock.Anything, forScene("welcome")).Return("Hoş geldiniz.", nil).Once()
	prov.On("GenerateImage", mock.Anything, welcomeImg).Return("", errors.New("safety filter")).Once()

	snap := c.Start(context.Background())

	assert.Equal(t, "Hoş geldiniz.", snap.NarrativeText)
	assert.Empty(t, snap.ImageRef)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Loading)
}

func TestSceneWithoutImageClearsPreviousImage(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)
	require.Equal(t, fakeImage, c.Snapshot().ImageRef)

	prov.On("GenerateNarrative", mock.Anything, forScene("miting")).Return("Meydan coştu.", nil).Once()
	snap, err := c.SelectChoice(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "miting", snap.CurrentSceneID)
	assert.Equal(t, "Meydan coştu.", snap.NarrativeText)
	assert.Empty(t, snap.ImageRef)
	assert.False(t, snap.Loading)
	prov.AssertNumberOfCalls(t, "GenerateImage", 2)
}

func TestLeavingStartSceneResetsStats(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)

	snap := c.Snapshot()
	assert.Equal(t, "kampanya", snap.CurrentSceneID)
	assert.Equal(t, domain.InitialStats(), snap.Stats, "effects of the start scene are ignored")
	assert.Empty(t, snap.LastChoiceText)
	assert.Equal(t, "id-1", snap.ID, "a session without turns keeps its id")
	assert.True(t, snap.CanSearch)
	assert.True(t, snap.CanRestart)
}

func TestSelectChoiceAppliesEffects(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	journal := repository.NewMemoryTurnRepository()
	c := newTestController(t, prov, WithJournal(journal))
	startOnCampaign(t, c, prov)

	want := domain.InitialStats()
	want.Etik = 100
	want.Moral = 80
	prov.On("GenerateNarrative", mock.Anything, mock.MatchedBy(func(r generation.NarrativeRequest) bool {
		return r.SceneID == "miting" && r.LastChoiceText == "Dürüst ol" && r.Stats == want && r.Seed == "Meydan dolu."
	})).Return("Alkışlar.", nil).Once()

	snap, err := c.SelectChoice(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "miting", snap.CurrentSceneID)
	assert.Equal(t, want, snap.Stats)
	assert.Equal(t, "Dürüst ol", snap.LastChoiceText)

	turns, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, KindReset, turns[0].Kind)
	assert.Equal(t, "welcome", turns[0].FromScene)
	assert.Equal(t, 2, turns[1].Sequence)
	assert.Equal(t, KindNormal, turns[1].Kind)
	assert.Equal(t, "kampanya", turns[1].FromScene)
	assert.Equal(t, "miting", turns[1].ToScene)
	assert.Equal(t, "etik+5,moral+5", turns[1].Effects)
	assert.Equal(t, want, turns[1].Stats)
}

func TestTerminalPredicatesOverrideTarget(t *testing.T) {
	tests := []struct {
		name      string
		choice    int
		wantScene string
		wantEtik  int
		wantMoral int
	}{
		{name: "imprisonment", choice: 3, wantScene: domain.SceneImprisonment, wantEtik: 15, wantMoral: 25},
		{name: "ethics collapse", choice: 1, wantScene: domain.SceneEthicsCollapse, wantEtik: 5, wantMoral: 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov := mocks.NewMockProvider(t)
			c := newTestController(t, prov)
			startOnCampaign(t, c, prov)
			prov.On("GenerateNarrative", mock.Anything, forScene(tt.wantScene)).Return("Son.", nil).Once()

			snap, err := c.SelectChoice(context.Background(), tt.choice)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScene, snap.CurrentSceneID)
			assert.Equal(t, tt.wantEtik, snap.Stats.Etik)
			assert.Equal(t, tt.wantMoral, snap.Stats.Moral)
			assert.True(t, snap.IsTerminal)
			assert.False(t, snap.CanSearch)
		})
	}
}

func TestLeavingTerminalSceneStartsNewSession(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)
	prov.On("GenerateNarrative", mock.Anything, forScene(domain.SceneImprisonment)).Return("Son.", nil).Once()
	_, err := c.SelectChoice(context.Background(), 3)
	require.NoError(t, err)
	oldID := c.Snapshot().ID

	expectScene(prov, "welcome", "Yeniden hoş geldiniz.", welcomeImg)
	snap, err := c.SelectChoice(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "welcome", snap.CurrentSceneID)
	assert.Equal(t, domain.InitialStats(), snap.Stats)
	assert.Empty(t, snap.LastChoiceText)
	assert.NotEqual(t, oldID, snap.ID)
	assert.Equal(t, "Yeniden hoş geldiniz.", snap.NarrativeText)

	turns, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, 1, turns[0].Sequence)
	assert.Equal(t, domain.SceneImprisonment, turns[0].FromScene)
}

func TestSelectChoiceRejectsInvalidIndex(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)
	before := c.Snapshot()

	for _, idx := range []int{-1, 4, 100} {
		snap, err := c.SelectChoice(context.Background(), idx)
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)
		assert.Equal(t, before, snap)
	}
}

func TestSelectChoiceMissingSceneKeepsState(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)
	before := c.Snapshot()

	snap, err := c.SelectChoice(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrSceneNotFound)

	assert.Equal(t, "Sahne bulunamadı: yok", snap.Error)
	assert.Equal(t, before.CurrentSceneID, snap.CurrentSceneID)
	assert.Equal(t, before.Stats, snap.Stats)
	assert.Equal(t, before.NarrativeText, snap.NarrativeText)
	assert.Equal(t, before.ImageRef, snap.ImageRef)
	assert.False(t, snap.Loading)

	turns, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestSelectChoiceWhileLoadingIsBusy(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)

	started := make(chan struct{})
	release := make(chan struct{})
	prov.On("GenerateNarrative", mock.Anything, forScene("miting")).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("Meydan.", nil).Once()

	done := make(chan Snapshot)
	go func() {
		snap, _ := c.SelectChoice(context.Background(), 0)
		done <- snap
	}()
	<-started

	loading := c.Snapshot()
	assert.True(t, loading.Loading)
	assert.False(t, loading.ChoicesEnabled)
	assert.Empty(t, loading.ImageRef)

	_, err := c.SelectChoice(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	snap := <-done
	assert.Equal(t, "Meydan.", snap.NarrativeText)
	assert.False(t, snap.Loading)
}

func TestRestartDiscardsResultsOfAbandonedRound(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)

	started := make(chan struct{})
	release := make(chan struct{})
	prov.On("GenerateNarrative", mock.Anything, forScene("miting")).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("Eski anlatı.", nil).Once()
	expectScene(prov, "welcome", "Yeni oyun.", welcomeImg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.SelectChoice(context.Background(), 0)
	}()
	<-started
	oldID := c.Snapshot().ID

	snap := c.Restart(context.Background())
	assert.Equal(t, "welcome", snap.CurrentSceneID)
	assert.Equal(t, "Yeni oyun.", snap.NarrativeText)
	assert.False(t, snap.Loading)

	close(release)
	<-done

	after := c.Snapshot()
	assert.Equal(t, "welcome", after.CurrentSceneID)
	assert.Equal(t, "Yeni oyun.", after.NarrativeText)
	assert.Equal(t, fakeImage, after.ImageRef)
	assert.Equal(t, domain.InitialStats(), after.Stats)
	assert.NotEqual(t, oldID, after.ID)
	assert.False(t, after.Loading)
}

func TestRestartClearsEverything(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)
	startOnCampaign(t, c, prov)
	prov.On("GenerateNarrative", mock.Anything, forScene("miting")).Return("", errors.New("boom")).Once()
	_, err := c.SelectChoice(context.Background(), 0)
	require.NoError(t, err)
	prov.On("GroundedSearch", mock.Anything, "seçim barajı").
		Return(generation.SearchResult{Text: "Baraj yüzde 7."}, nil).Once()
	_, err = c.Search(context.Background(), "seçim barajı")
	require.NoError(t, err)

	prov.On("GenerateNarrative", mock.Anything, forScene("welcome")).Return("", errors.New("down")).Once()
	prov.On("GenerateImage", mock.Anything, welcomeImg).Return("", errors.New("down")).Once()
	snap := c.Restart(context.Background())

	assert.Equal(t, "welcome", snap.CurrentSceneID)
	assert.Equal(t, domain.InitialStats(), snap.Stats)
	assert.Empty(t, snap.LastChoiceText)
	assert.Empty(t, snap.ImageRef)
	assert.Equal(t, domain.SearchState{}, snap.Search)
	assert.Equal(t, "Siyasete adım atıyorsunuz.", snap.NarrativeText)
	assert.Equal(t, "Sahne yüklenirken hata: down", snap.Error)

	turns, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAwait(t *testing.T) {
	prov := mocks.NewMockProvider(t)
	c := newTestController(t, prov)

	snap, err := c.Await(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Loading)

	release := make(chan struct{})
	prov.On("GenerateNarrative", mock.Anything, forScene("welcome")).
		Run(func(mock.Arguments) { <-release }).
		Return("Hoş geldiniz.", nil).Once()
	prov.On("GenerateImage", mock.Anything, welcomeImg).Return(fakeImage, nil).Once()
	go c.Start(context.Background())
	assert.Eventually(t, func() bool { return c.Snapshot().Loading }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	snap, err = c.Await(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Loading)
	assert.Equal(t, fakeImage, snap.ImageRef)
}
