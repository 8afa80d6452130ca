package utils

import (
	"errors"
	"fmt"
)

// ErrorCategory groups failures for logging and client handling.
type ErrorCategory string

const (
	CategoryAPI         ErrorCategory = "API"
	CategoryAuth        ErrorCategory = "AUTH"
	CategoryNetwork     ErrorCategory = "NETWORK"
	CategoryValidation  ErrorCategory = "VALIDATION"
	CategoryPermission  ErrorCategory = "PERMISSION"
	CategoryGeolocation ErrorCategory = "GEOLOCATION"
	CategoryStorage     ErrorCategory = "STORAGE"
	CategoryApp         ErrorCategory = "APP"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrDatabaseError      = errors.New("database error")

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset code")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrForbidden          = errors.New("insufficient permissions")

	ErrEventNotFound       = errors.New("event not found")
	ErrPlaceNotFound       = errors.New("place not found")
	ErrVisitNotFound       = errors.New("visit not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrRedemptionNotFound  = errors.New("redemption not found")
	ErrSpotNotFound        = errors.New("connectivity spot not found")
	ErrEmergencyNotFound   = errors.New("emergency service not found")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrNoNearbyEmergency   = errors.New("no emergency service found")
	ErrChatSessionNotFound = errors.New("chat session not found")

	ErrEventEnded         = errors.New("event has ended")
	ErrEventNotStarted    = errors.New("check-in is not open yet")
	ErrEventFull          = errors.New("event is full")
	ErrAlreadyCheckedIn   = errors.New("already checked in")
	ErrCheckinCooldown    = errors.New("already checked in recently")
	ErrTooFar             = errors.New("too far from location")
	ErrRewardUnavailable  = errors.New("reward is not available")
	ErrOutOfStock         = errors.New("out of stock")
	ErrInsufficientCoins  = errors.New("insufficient AmaCoins")
	ErrRedemptionNotOpen  = errors.New("redemption is not pending")
	ErrInvalidQuiz        = errors.New("invalid quiz definition")
	ErrInvalidAnswers     = errors.New("invalid quiz answers")
	ErrStorageDisabled    = errors.New("photo storage is not configured")
	ErrStorageUnavailable = errors.New("photo storage unavailable")
	ErrAssistantFailed    = errors.New("assistant unavailable")
	ErrMailFailed         = errors.New("mail delivery failed")

	ErrSpotReportedRecently = errors.New("already reported this spot recently")
)

// GeoError reports a check-in rejected by the geofence.
type GeoError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeoError) Error() string {
	return fmt.Sprintf("%s: %.0fm away, limit is %.0fm", ErrTooFar, e.DistanceMeters, e.RadiusMeters)
}

func (e *GeoError) Unwrap() error { return ErrTooFar }
