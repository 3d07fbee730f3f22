package handlers

import (
	"errors"
	"net/http"

	"levi/database/repository"
	"levi/middleware"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// abortWithError answers with the status matching err's kind. Store errors map onto 404
// and 400; anything else is a 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found.", err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		utils.JSONError(c, http.StatusBadRequest, "Record already exists.", err.Error())
	case utils.KindOf(err) != "":
		var e *utils.Error
		errors.As(err, &e)
		utils.JSONError(c, utils.StatusFor(err), e.Message, string(e.Kind))
	default:
		getLogger(c).Error("Request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
