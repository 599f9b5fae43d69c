// Package http exposes the game session over a JSON API.
package http

import (
	"context"
	"net/http"

	"adventure-server/internal/domain"
	"adventure-server/internal/game"
	"adventure-server/internal/scenes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameService is the part of game.Controller the API drives.
type GameService interface {
	Snapshot() game.Snapshot
	SelectChoice(ctx context.Context, index int) (game.Snapshot, error)
	Restart(ctx context.Context) game.Snapshot
	Search(ctx context.Context, query string) (domain.SearchState, error)
	History(ctx context.Context) ([]domain.Turn, error)
}

var _ GameService = (*game.Controller)(nil)

// Handler serves the /api routes.
type Handler struct {
	game    GameService
	graph   *scenes.Graph
	version string
	logger  *zap.Logger
}

// NewHandler creates a Handler. version is the scene table version shown in the catalogue.
func NewHandler(svc GameService, graph *scenes.Graph, version string, logger *zap.Logger) *Handler {
	return &Handler{
		game:    svc,
		graph:   graph,
		version: version,
		logger:  logger.Named("HTTPHandler"),
	}
}

// RegisterRoutes mounts the API on api. searchLimiter, if not nil, guards the search route.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, searchLimiter gin.HandlerFunc) {
	session := api.Group("/session")
	{
		session.GET("", h.getSession)
		session.POST("/choices", h.selectChoice)
		session.POST("/restart", h.restart)
		session.GET("/history", h.history)
	}

	search := []gin.HandlerFunc{h.search}
	if searchLimiter != nil {
		search = append([]gin.HandlerFunc{searchLimiter}, search...)
	}
	api.POST("/search", search...)

	api.GET("/scenes", h.listScenes)
	api.GET("/scenes/:id", h.getScene)
}

// @Summary Current session
// @Description Returns the session state with the current scene's title, choices and stat bars.
// @Tags session
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 503 {object} ErrorResponse "Generation credential missing"
// @Router /session [get]
func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Snapshot())
}

// @Summary Select a choice
// @Description Applies the choice and waits until the next scene's narrative and image are loaded.
// @Tags session
// @Accept json
// @Produce json
// @Param request body ChoiceRequest true "Choice index"
// @Success 200 {object} game.Snapshot
// @Failure 400 {object} ErrorResponse "Invalid request or choice index"
// @Failure 404 {object} ErrorResponse "Target scene does not exist"
// @Failure 409 {object} ErrorResponse "Scene content is still loading"
// @Router /session/choices [post]
func (h *Handler) selectChoice(c *gin.Context) {
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: err.Error()})
		return
	}

	snap, err := h.game.SelectChoice(c.Request.Context(), *req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary Restart the game
// @Description Resets stats and search, starts a new session on the start scene.
// @Tags session
// @Produce json
// @Success 200 {object} game.Snapshot
// @Router /session/restart [post]
func (h *Handler) restart(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Restart(c.Request.Context()))
}

// @Summary Session history
// @Description Lists the committed turns of the current session.
// @Tags session
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /session/history [get]
func (h *Handler) history(c *gin.Context) {
	turns, err := h.game.History(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	c.JSON(http.StatusOK, HistoryResponse{SessionID: h.game.Snapshot().ID, Turns: turns})
}

// @Summary Grounded web search
// @Description Answers a question with web grounding. Provider failures are reported in the error field.
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Query"
// @Success 200 {object} domain.SearchState
// @Failure 400 {object} ErrorResponse "Empty query"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Router /search [post]
func (h *Handler) search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: err.Error()})
		return
	}

	state, err := h.game.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary Scene catalogue
// @Tags scenes
// @Produce json
// @Success 200 {object} SceneCatalogue
// @Router /scenes [get]
func (h *Handler) listScenes(c *gin.Context) {
	ids := h.graph.IDs()
	resp := SceneCatalogue{Version: h.version, Scenes: make([]SceneSummary, 0, len(ids))}
	for _, id := range ids {
		sc, err := h.graph.Get(id)
		if err != nil {
			continue
		}
		resp.Scenes = append(resp.Scenes, SceneSummary{
			ID:          sc.ID,
			Title:       sc.Title,
			ChoiceCount: len(sc.Choices),
			HasImage:    sc.HasImage(),
			IsStart:     sc.IsStart,
			IsTerminal:  sc.IsTerminal,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Scene by id
// @Tags scenes
// @Produce json
// @Param id path string true "Scene id"
// @Success 200 {object} domain.Scene
// @Failure 404 {object} ErrorResponse "Scene not found"
// @Router /scenes/{id} [get]
func (h *Handler) getScene(c *gin.Context) {
	sc, err := h.graph.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}
