package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{apperror.ErrPlayerNotFound, http.StatusNotFound},
	{apperror.ErrGameNotFound, http.StatusNotFound},
	{apperror.ErrNotFound, http.StatusNotFound},
	{apperror.ErrPlayerExists, http.StatusConflict},
	{apperror.ErrConflict, http.StatusConflict},
	{apperror.ErrGameFinished, http.StatusBadRequest},
	{apperror.ErrSamePlayer, http.StatusBadRequest},
	{apperror.ErrInvalidInput, http.StatusBadRequest},
}

var errorMessages = map[error]string{
	apperror.ErrPlayerNotFound: "A User with that name does not exist!",
	apperror.ErrGameNotFound:   "Game not found!",
	apperror.ErrPlayerExists:   "A User with that name already exists!",
	apperror.ErrGameFinished:   "Cannot cancel completed game",
}

// abortWithError writes the status of a known application error, or 500.
func (that *Handler) abortWithError(c *gin.Context, err error) {
	for _, known := range errorStatuses {
		if !errors.Is(err, known.err) {
			continue
		}

		message, ok := errorMessages[known.err]
		if !ok {
			message = err.Error()
		}

		c.AbortWithStatusJSON(known.status, gin.H{"error": message})
		return
	}

	that.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
