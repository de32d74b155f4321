package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

var kindStatus = map[service.Kind]int{
	service.KindInvalidInput:        http.StatusBadRequest,
	service.KindInvalidGender:       http.StatusBadRequest,
	service.KindIncompleteProfile:   http.StatusBadRequest,
	service.KindUnauthorized:        http.StatusUnauthorized,
	service.KindForbidden:           http.StatusForbidden,
	service.KindNotFound:            http.StatusNotFound,
	service.KindAlreadyStarred:      http.StatusConflict,
	service.KindConflict:            http.StatusConflict,
	service.KindUpstreamUnavailable: http.StatusBadGateway,
	service.KindPartialUpstreamData: http.StatusBadGateway,
	service.KindStorage:             http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind service.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the error body for err. Internal details of storage
// and upstream failures stay in the logs.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := StatusFor(kind)
	_ = c.Error(err)

	message := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	if status >= http.StatusInternalServerError && svcErr == nil {
		message = "internal server error"
	}

	c.JSON(status, types.ErrorResponse{Error: string(kind), Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: string(service.KindInvalidInput), Message: message})
}

// uintParam parses a positive numeric path parameter
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
