package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/pkg/logging"
)

type APIResponse struct {
	Status     string      `json:"status"`
	Code       int         `json:"code"`
	Message    string      `json:"message,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *PageMeta   `json:"pagination,omitempty"`
}

type errorMapping struct {
	err      error
	code     int
	category ErrorCategory
}

// errorTable is matched in order with errors.Is.
var errorTable = []errorMapping{
	{ErrInvalidRequest, http.StatusBadRequest, CategoryValidation},
	{ErrInvalidCoordinates, http.StatusBadRequest, CategoryGeolocation},
	{ErrInvalidQuiz, http.StatusBadRequest, CategoryValidation},
	{ErrInvalidAnswers, http.StatusBadRequest, CategoryValidation},
	{ErrSamePassword, http.StatusBadRequest, CategoryValidation},
	{ErrInvalidResetToken, http.StatusBadRequest, CategoryAuth},

	{ErrInvalidCredentials, http.StatusUnauthorized, CategoryAuth},
	{ErrInvalidToken, http.StatusUnauthorized, CategoryAuth},
	{ErrForbidden, http.StatusForbidden, CategoryPermission},

	{ErrAccountNotFound, http.StatusNotFound, CategoryAuth},
	{ErrEventNotFound, http.StatusNotFound, CategoryAPI},
	{ErrPlaceNotFound, http.StatusNotFound, CategoryAPI},
	{ErrVisitNotFound, http.StatusNotFound, CategoryAPI},
	{ErrQuizNotFound, http.StatusNotFound, CategoryAPI},
	{ErrRewardNotFound, http.StatusNotFound, CategoryAPI},
	{ErrRedemptionNotFound, http.StatusNotFound, CategoryAPI},
	{ErrSpotNotFound, http.StatusNotFound, CategoryAPI},
	{ErrEmergencyNotFound, http.StatusNotFound, CategoryAPI},
	{ErrNoNearbyEmergency, http.StatusNotFound, CategoryGeolocation},
	{ErrAlertNotFound, http.StatusNotFound, CategoryAPI},
	{ErrChatSessionNotFound, http.StatusNotFound, CategoryAPI},

	{ErrEmailAlreadyExists, http.StatusConflict, CategoryAuth},
	{ErrEventEnded, http.StatusConflict, CategoryApp},
	{ErrEventNotStarted, http.StatusConflict, CategoryApp},
	{ErrEventFull, http.StatusConflict, CategoryApp},
	{ErrAlreadyCheckedIn, http.StatusConflict, CategoryApp},
	{ErrCheckinCooldown, http.StatusConflict, CategoryApp},
	{ErrSpotReportedRecently, http.StatusConflict, CategoryApp},
	{ErrRewardUnavailable, http.StatusConflict, CategoryApp},
	{ErrOutOfStock, http.StatusConflict, CategoryApp},
	{ErrInsufficientCoins, http.StatusConflict, CategoryApp},
	{ErrRedemptionNotOpen, http.StatusConflict, CategoryApp},

	{ErrTooFar, http.StatusUnprocessableEntity, CategoryGeolocation},

	{ErrStorageUnavailable, http.StatusBadGateway, CategoryStorage},
	{ErrStorageDisabled, http.StatusServiceUnavailable, CategoryStorage},
	{ErrAssistantFailed, http.StatusServiceUnavailable, CategoryNetwork},
	{ErrMailFailed, http.StatusBadGateway, CategoryNetwork},
	{ErrDatabaseError, http.StatusInternalServerError, CategoryStorage},
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message, nil)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message, nil)
}

// RespondPaged writes a list together with its pagination block.
func RespondPaged(c *gin.Context, data interface{}, p Pagination, total int64, message string) {
	meta := NewPageMeta(p, total)
	respond(c, http.StatusOK, data, message, &meta)
}

func respond(c *gin.Context, code int, data interface{}, message string, meta *PageMeta) {
	c.JSON(code, APIResponse{
		Status:     "success",
		Code:       code,
		Message:    message,
		TraceID:    traceID(c),
		Data:       data,
		Pagination: meta,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// Classify returns the HTTP status and category for a service error.
func Classify(err error) (int, ErrorCategory) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.code, m.category
		}
	}
	return http.StatusInternalServerError, CategoryApp
}

func HandleServiceError(c *gin.Context, err error) {
	code, category := Classify(err)
	logger := logging.Ctx(c.Request.Context())

	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("category", string(category)).
			Str("path", c.FullPath()).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("category", string(category)).
			Str("path", c.FullPath()).Msg("request rejected")
	}

	message := publicMessage(err, code)

	var geoErr *GeoError
	if errors.As(err, &geoErr) {
		c.JSON(code, APIResponse{
			Status:  "error",
			Code:    code,
			Message: message,
			TraceID: traceID(c),
			Data: gin.H{
				"distance_m": geoErr.DistanceMeters,
				"radius_m":   geoErr.RadiusMeters,
			},
		})
		return
	}

	RespondError(c, code, message)
}

// publicMessage hides internal causes of server errors.
func publicMessage(err error, code int) string {
	if code == http.StatusInternalServerError {
		return "Internal server error"
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			var geoErr *GeoError
			if errors.As(err, &geoErr) {
				return geoErr.Error()
			}
			return m.err.Error()
		}
	}
	return err.Error()
}
