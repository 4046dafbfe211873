package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/clinicbill/internal/middleware"
	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/pkg/errcode"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
	"github.com/xxxsen/clinicbill/internal/pkg/response"
)

func getSubject(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextSubjectKey)
	subject, _ := value.(string)
	return subject
}

func filtersFromQuery(c *gin.Context) model.ViewFilters {
	return model.ViewFilters{
		Period:       c.Query("period"),
		Unit:         c.Query("unit"),
		Professional: c.Query("professional"),
		Payer:        c.Query("payer"),
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("subject", getSubject(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrCorrupted):
		response.Error(c, errcode.ErrStorageCorrupted, "stored data is corrupted")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
