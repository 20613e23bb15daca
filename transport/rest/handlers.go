package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/service"
)

type Handler struct {
	logger *slog.Logger

	playerService  service.PlayerService
	gameService    service.GameService
	scoreService   service.ScoreService
	rankingService service.RankingService
}

func NewHandler(
	logger *slog.Logger,
	playerService service.PlayerService,
	gameService service.GameService,
	scoreService service.ScoreService,
	rankingService service.RankingService,
) *Handler {
	return &Handler{
		logger: logger.With("component", "rest"),

		playerService:  playerService,
		gameService:    gameService,
		scoreService:   scoreService,
		rankingService: rankingService,
	}
}

func (that *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/tic_tac_toe/v1")
	{
		api.POST("/user", that.createUser)

		api.POST("/game", that.newGame)
		api.GET("/game/:id", that.getGame)
		api.PUT("/game/:id", that.makeMove)
		api.PUT("/game/:id/cancel", that.cancelGame)
		api.GET("/game/:id/history", that.getGameHistory)

		api.GET("/scores", that.getScores)
		api.GET("/scores/user/:name", that.getUserScores)
		api.GET("/games/user/:name", that.getUserGames)
		api.GET("/ranking", that.getRankings)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type gameResponse struct {
	*entity.Game
	Message string `json:"message"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

func (that *Handler) createUser(c *gin.Context) {
	var req struct {
		Name  string `json:"user_name" binding:"required"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := that.playerService.CreatePlayer(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: service.PlayerCreatedMessage(player.Name)})
}

func (that *Handler) newGame(c *gin.Context) {
	var req struct {
		Player1 string `json:"player1" binding:"required"`
		Player2 string `json:"player2" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := that.gameService.NewGame(c.Request.Context(), req.Player1, req.Player2)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameResponse{Game: state.Game, Message: state.Message})
}

func (that *Handler) getGame(c *gin.Context) {
	state, err := that.gameService.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameResponse{Game: state.Game, Message: state.Message})
}

// makeMove answers 200 for rejected moves too; the message says why.
func (that *Handler) makeMove(c *gin.Context) {
	var req struct {
		Player string `json:"player" binding:"required"`
		Move   *int   `json:"move" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := that.gameService.MakeMove(c.Request.Context(), c.Param("id"), req.Player, *req.Move)
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameResponse{Game: state.Game, Message: state.Message})
}

func (that *Handler) cancelGame(c *gin.Context) {
	message, err := that.gameService.CancelGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: message})
}

func (that *Handler) getGameHistory(c *gin.Context) {
	history, err := that.gameService.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemsResponse[entity.HistoryEntry]{Items: history})
}

func (that *Handler) getScores(c *gin.Context) {
	scores, err := that.scoreService.ListScores(c.Request.Context())
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemsResponse[entity.ScoreRecord]{Items: scores})
}

func (that *Handler) getUserScores(c *gin.Context) {
	scores, err := that.scoreService.ListPlayerScores(c.Request.Context(), c.Param("name"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemsResponse[entity.ScoreRecord]{Items: scores})
}

func (that *Handler) getUserGames(c *gin.Context) {
	games, err := that.gameService.ListPlayerGames(c.Request.Context(), c.Param("name"))
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemsResponse[*entity.Game]{Items: games})
}

func (that *Handler) getRankings(c *gin.Context) {
	rankings, err := that.rankingService.ListRankings(c.Request.Context())
	if err != nil {
		that.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemsResponse[*entity.Ranking]{Items: rankings})
}
