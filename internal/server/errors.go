package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	conversationdomain "github.com/openclub/clubhub/internal/conversation/domain"
	enrollmentdomain "github.com/openclub/clubhub/internal/enrollment/domain"
	feedbackdomain "github.com/openclub/clubhub/internal/feedback/domain"
	postdomain "github.com/openclub/clubhub/internal/post/domain"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Status  string            `json:"status,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	// A lifecycle transition on a closed request is neither a validation
	// failure nor a permission problem; it reports which action was refused
	// and the status that refused it.
	var naErr *enrollmentdomain.ActionNotAvailableError
	if errors.As(err, &naErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "action_unavailable",
			Message: naErr.Error(),
			Action:  naErr.Action,
			Status:  naErr.Status.Display(),
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidPassword):
		return true
	case isClubValidationError(err),
		isEnrollmentValidationError(err),
		isChannelValidationError(err),
		isPostValidationError(err),
		isConversationValidationError(err),
		isProjectValidationError(err),
		isFeedbackValidationError(err):
		return true
	default:
		return false
	}
}

func isClubValidationError(err error) bool {
	switch err {
	case clubdomain.ErrInvalidName,
		clubdomain.ErrInvalidClub,
		clubdomain.ErrInvalidRole,
		clubdomain.ErrInvalidPrivilege,
		clubdomain.ErrInvalidUser,
		clubdomain.ErrRoleClubMismatch,
		clubdomain.ErrImmutableUser:
		return true
	default:
		return false
	}
}

func isEnrollmentValidationError(err error) bool {
	switch err {
	case enrollmentdomain.ErrAlreadyMember,
		enrollmentdomain.ErrPendingRequest,
		enrollmentdomain.ErrInvalidClub:
		return true
	default:
		return false
	}
}

func isChannelValidationError(err error) bool {
	return err == channeldomain.ErrInvalidChannel
}

func isPostValidationError(err error) bool {
	switch err {
	case postdomain.ErrInvalidChannel,
		postdomain.ErrInvalidContent:
		return true
	default:
		return false
	}
}

func isConversationValidationError(err error) bool {
	switch err {
	case conversationdomain.ErrInvalidChannel,
		conversationdomain.ErrInvalidContent,
		conversationdomain.ErrInvalidParent:
		return true
	default:
		return false
	}
}

func isProjectValidationError(err error) bool {
	switch err {
	case projectdomain.ErrInvalidName,
		projectdomain.ErrInvalidLeader,
		projectdomain.ErrInvalidClub,
		projectdomain.ErrInvalidProject,
		projectdomain.ErrLeaderNotClubMember,
		projectdomain.ErrUserNotClubMember,
		projectdomain.ErrUserNotOwnerClubMember:
		return true
	default:
		return false
	}
}

func isFeedbackValidationError(err error) bool {
	switch err {
	case feedbackdomain.ErrInvalidClub,
		feedbackdomain.ErrInvalidContent,
		feedbackdomain.ErrInvalidFeedback,
		feedbackdomain.ErrReplyExists:
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
