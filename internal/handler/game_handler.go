package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"gamerent/internal/model"
	"gamerent/internal/repository"
	"gamerent/internal/service/catalog"
	"gamerent/pkg/utils"
)

// GameHandler catalog handler
type GameHandler struct {
	gameService catalog.GameService
}

// NewGameHandler creates a game handler
func NewGameHandler(gameService catalog.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// ListGames lists the catalog, title ascending. Supports ?platform= and
// ?available=true filters.
func (h *GameHandler) ListGames(c *gin.Context) {
	filter := catalog.ListFilter{
		Platform:      c.Query("platform"),
		AvailableOnly: c.Query("available") == "true",
	}

	if filter.Platform != "" && !model.Platform(filter.Platform).IsValid() {
		utils.Error(c, utils.CodeInvalidParam, "Unsupported platform")
		return
	}

	games, err := h.gameService.List(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, utils.CodeInternalError, "Failed to list games")
		return
	}

	utils.SuccessResponse(c, games)
}

// GetGame gets a game by ID
func (h *GameHandler) GetGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "Invalid game ID")
		return
	}

	game, err := h.gameService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			utils.Error(c, utils.CodeNotFound, "Game not found")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to load game")
		return
	}

	utils.SuccessResponse(c, game)
}

// CreateGame adds a game to the catalog
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req catalog.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPlatform) {
			utils.Error(c, utils.CodeInvalidParam, "Unsupported platform")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to create game")
		return
	}

	utils.CreatedResponse(c, game)
}

// UpdateGame updates a catalog entry
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "Invalid game ID")
		return
	}

	var req catalog.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	game, err := h.gameService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPlatform):
			utils.Error(c, utils.CodeInvalidParam, "Unsupported platform")
		case errors.Is(err, repository.ErrGameNotFound):
			utils.Error(c, utils.CodeNotFound, "Game not found")
		default:
			utils.Error(c, utils.CodeInternalError, "Failed to update game")
		}
		return
	}

	utils.SuccessResponse(c, game)
}

// DeleteGame removes a game from the catalog
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "Invalid game ID")
		return
	}

	if err := h.gameService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			utils.Error(c, utils.CodeNotFound, "Game not found")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to delete game")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": id})
}
