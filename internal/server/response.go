package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/pkg/logger"
)

// envelope is the uniform response shape for every API endpoint
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *pageMeta   `json:"meta,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pageMeta accompanies paginated listings
type pageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondPage(c *gin.Context, data interface{}, total, limit, offset int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Meta:    &pageMeta{Total: total, Limit: limit, Offset: offset},
	})
}

// respondError maps application errors to HTTP status codes. Unclassified
// errors surface as 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), envelope{
			Success: false,
			Error:   &errorBody{Code: string(appErr.Type), Message: appErr.Message},
		})
		return
	}

	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)

	c.JSON(http.StatusInternalServerError, envelope{
		Success: false,
		Error:   &errorBody{Code: string(apperrors.TypeStorage), Message: "internal error"},
	})
}
