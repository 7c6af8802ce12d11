package errors

import (
	"errors"
	"net/http"
)

// Domain sentinel errors. Handlers never branch on error prose; each sentinel
// maps to a stable machine-readable code in MapErrorToHTTP.
var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailAlreadyInUse is returned when registering an email that already has an account.
	ErrEmailAlreadyInUse = errors.New("email already in use")
	// ErrEmailNotVerified is returned when an unverified account attempts to sign in.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrInvalidVerificationToken is returned for unknown, expired or consumed tokens.
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidPendingToken is returned when a two-factor pending login token is invalid or expired.
	ErrInvalidPendingToken = errors.New("invalid or expired pending login token")
	// ErrInvalidCodeFormat is returned when a one-time code is not exactly six digits.
	ErrInvalidCodeFormat = errors.New("code must be 6 digits")
	// ErrInvalidCode is returned when a well-formed one-time code does not match.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrNoVerifiedFactor is returned when an account has no verified TOTP factor to challenge.
	ErrNoVerifiedFactor = errors.New("no verified TOTP factor found")
	// ErrFactorNotFound is returned when a factor id does not belong to the caller.
	ErrFactorNotFound = errors.New("factor not found")
	// ErrProfileNotFound is returned when a profile lookup misses.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoActiveSession is returned when the role resolver denies a caller whose profile cannot be read.
	ErrNoActiveSession = errors.New("no active session")
	// ErrRoleAlreadySet is returned when a profile's role is written a second time.
	ErrRoleAlreadySet = errors.New("role already set")
	// ErrInvalidRole is returned for a role outside administrator/teacher/student.
	ErrInvalidRole = errors.New("invalid role")
	// ErrPlacementNotFound is returned when a placement lookup misses.
	ErrPlacementNotFound = errors.New("placement not found")
	// ErrInvalidGrade is returned when a subject score is outside 0..100.
	ErrInvalidGrade = errors.New("grades must be between 0 and 100")
	// ErrInvalidPathway is returned for a pathway outside stem/social_sciences/arts.
	ErrInvalidPathway = errors.New("invalid pathway")
	// ErrAppealNotFound is returned when an appeal lookup misses.
	ErrAppealNotFound = errors.New("appeal not found")
	// ErrAppealLimitReached is returned when a student exceeds the appeal quota.
	ErrAppealLimitReached = errors.New("appeal limit reached")
	// ErrAppealAlreadyDecided is returned when changing the status of an approved/rejected appeal.
	ErrAppealAlreadyDecided = errors.New("appeal already decided")
	// ErrRejectionReasonRequired is returned when rejecting an appeal without a reason.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	// ErrInvalidAppealStatus is returned for a status outside pending/approved/rejected.
	ErrInvalidAppealStatus = errors.New("invalid appeal status")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors with stable codes.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailAlreadyInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_ALREADY_IN_USE")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrInvalidVerificationToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_VERIFICATION_TOKEN")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrInvalidPendingToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_PENDING_TOKEN")
	case errors.Is(err, ErrInvalidCodeFormat):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CODE_FORMAT")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CODE")
	case errors.Is(err, ErrNoVerifiedFactor):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_VERIFIED_FACTOR")
	case errors.Is(err, ErrFactorNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FACTOR_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrNoActiveSession):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NO_ACTIVE_SESSION")
	case errors.Is(err, ErrRoleAlreadySet):
		return NewHTTPError(http.StatusConflict, err.Error(), "ROLE_ALREADY_SET")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrPlacementNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PLACEMENT_NOT_FOUND")
	case errors.Is(err, ErrInvalidGrade):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_GRADE")
	case errors.Is(err, ErrInvalidPathway):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PATHWAY")
	case errors.Is(err, ErrAppealNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPEAL_NOT_FOUND")
	case errors.Is(err, ErrAppealLimitReached):
		return NewHTTPError(http.StatusForbidden, err.Error(), "APPEAL_LIMIT_REACHED")
	case errors.Is(err, ErrAppealAlreadyDecided):
		return NewHTTPError(http.StatusConflict, err.Error(), "APPEAL_ALREADY_DECIDED")
	case errors.Is(err, ErrRejectionReasonRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REJECTION_REASON_REQUIRED")
	case errors.Is(err, ErrInvalidAppealStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_APPEAL_STATUS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
