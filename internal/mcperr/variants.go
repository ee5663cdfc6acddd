package mcperr

import "fmt"

// DefaultAuthURL is where users approve device codes.
const DefaultAuthURL = "https://trakt.tv/activate"

// Option attaches request context to an error's data. Options never
// overwrite keys a constructor has already set.
type Option func(*Error)

// WithEndpoint records the upstream endpoint.
func WithEndpoint(endpoint string) Option {
	return setString("endpoint", endpoint)
}

// WithResource records the addressed entity.
func WithResource(resourceType, resourceID string) Option {
	return func(e *Error) {
		setString("resource_type", resourceType)(e)
		setString("resource_id", resourceID)(e)
	}
}

// WithCorrelationID records the request correlation id.
func WithCorrelationID(id string) Option {
	return setString("correlation_id", id)
}

// WithHTTPStatus records the upstream status code.
func WithHTTPStatus(status int) Option {
	return func(e *Error) {
		if status != 0 {
			e.Merge(map[string]any{"http_status": status})
		}
	}
}

// WithData merges arbitrary diagnostic fields.
func WithData(data map[string]any) Option {
	return func(e *Error) { e.Merge(data) }
}

// WithMessage replaces the derived message.
func WithMessage(message string) Option {
	return func(e *Error) {
		if message != "" {
			e.message = message
		}
	}
}

// Caused records the underlying error.
func Caused(err error) Option {
	return func(e *Error) { e.cause = err }
}

func setString(key, val string) Option {
	return func(e *Error) {
		if val != "" {
			e.Merge(map[string]any{key: val})
		}
	}
}

// Internal is an unclassified failure.
func Internal(message string, opts ...Option) *Error {
	return newError(KindInternal, message, nil, opts)
}

// InvalidParams reports malformed or missing caller arguments.
func InvalidParams(message string, opts ...Option) *Error {
	return newError(KindInvalidParams, message, nil, opts)
}

// InvalidRequest reports a request the upstream semantically rejected.
func InvalidRequest(message string, opts ...Option) *Error {
	return newError(KindInvalidRequest, message, nil, opts)
}

// AuthenticationRequired reports that action needs a user token.
func AuthenticationRequired(action string, opts ...Option) *Error {
	return newError(KindAuthenticationRequired, "Authentication required to "+action, map[string]any{
		"error_type": "auth_required",
		"auth_url":   DefaultAuthURL,
		"action":     action,
		"instructions": "Please complete authentication at the provided URL, " +
			"then check authorization status.",
	}, opts)
}

// WithAuthURL overrides the verification URL of an authentication error.
func WithAuthURL(url string) Option {
	return func(e *Error) {
		if url != "" && e.kind == KindAuthenticationRequired {
			e.data["auth_url"] = url
		}
	}
}

// AuthorizationPending reports a device code the user has not approved.
// Empty deviceCode and zero expiresIn are omitted.
func AuthorizationPending(deviceCode string, expiresIn int, opts ...Option) *Error {
	data := map[string]any{"error_type": "auth_pending"}
	if deviceCode != "" {
		data["device_code"] = deviceCode
	}
	if expiresIn > 0 {
		data["expires_in"] = expiresIn
	}
	return newError(KindAuthorizationPending,
		"Authorization pending. User must approve device code.", data, opts)
}

// ValidationDetails describes which arguments failed validation.
type ValidationDetails struct {
	InvalidParams []string
	MissingParams []string
	Details       map[string]any
}

// Validation reports parameters rejected by local checks or the upstream.
func Validation(message string, details ValidationDetails, opts ...Option) *Error {
	data := map[string]any{"error_type": "validation_error"}
	if len(details.InvalidParams) > 0 {
		data["invalid_params"] = details.InvalidParams
	}
	if len(details.MissingParams) > 0 {
		data["missing_params"] = details.MissingParams
	}
	if len(details.Details) > 0 {
		data["validation_details"] = details.Details
	}
	return newError(KindValidation, message, data, opts)
}

// NotFound reports a missing upstream entity.
func NotFound(resourceType, resourceID string, opts ...Option) *Error {
	if resourceType == "" {
		resourceType = "resource"
	}
	if resourceID == "" {
		resourceID = "unknown"
	}
	return newError(KindNotFound,
		fmt.Sprintf("The requested %s '%s' was not found", resourceType, resourceID),
		map[string]any{
			"resource_type": resourceType,
			"resource_id":   resourceID,
			"http_status":   404,
		}, opts)
}

// RateLimit reports upstream throttling. retryAfter is in seconds; zero
// means unknown.
func RateLimit(retryAfter int, opts ...Option) *Error {
	message := "Rate limit exceeded. Please try again later."
	data := map[string]any{"http_status": 429}
	if retryAfter > 0 {
		message = fmt.Sprintf("Rate limit exceeded. Please retry in %d seconds.", retryAfter)
		data["retry_after"] = retryAfter
	}
	return newError(KindRateLimit, message, data, opts)
}

// Server reports an upstream 5xx. All server errors are flagged temporary.
func Server(httpStatus int, opts ...Option) *Error {
	var message string
	switch httpStatus {
	case 502:
		message = "Bad gateway. The Trakt API server is experiencing issues."
	case 503:
		message = "Service unavailable. Please try again in 30 seconds."
	default:
		message = fmt.Sprintf("Trakt API server error (HTTP %d)", httpStatus)
	}
	return newError(KindServer, message, map[string]any{
		"http_status":  httpStatus,
		"is_temporary": true,
	}, opts)
}
