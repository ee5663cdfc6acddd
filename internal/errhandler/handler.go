package errhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogicError is implemented by failures of caller-visible validation made
// deeper in a call. Handle returns them unchanged; turning them into a
// structured error is the job of the tool boundary.
type LogicError interface {
	error
	LogicError()
}

type logicError struct{ err error }

func (e *logicError) Error() string { return e.err.Error() }
func (e *logicError) Unwrap() error { return e.err }
func (e *logicError) LogicError()   {}

// Logic marks err as a LogicError.
func Logic(err error) error {
	if err == nil {
		return nil
	}
	return &logicError{err: err}
}

// Logicf formats a new LogicError.
func Logicf(format string, args ...any) error {
	return &logicError{err: fmt.Errorf(format, args...)}
}

// IsLogic reports whether err's chain holds a LogicError.
func IsLogic(err error) bool {
	var le LogicError
	return errors.As(err, &le)
}

// Handler converts failures of wrapped upstream operations.
type Handler struct {
	classifier *Classifier
	logger     *logging.Logger
}

// NewHandler returns a Handler using classifier for status failures.
func NewHandler(classifier *Classifier, logger *logging.Logger) *Handler {
	return &Handler{classifier: classifier, logger: logger.Named("errors")}
}

// Call runs op and returns its result, or the structured error its failure
// translates to. It is the only wrapping mechanism for upstream calls;
// methods pass a closure over their receiver.
func Call[T any](ctx context.Context, h *Handler, op func(context.Context) (T, error)) (T, error) {
	v, err := op(ctx)
	if err != nil {
		var zero T
		return zero, h.Handle(ctx, err)
	}
	return v, nil
}

// Handle translates err. nil stays nil, structured and logic errors are
// returned as they are, everything else becomes an *mcperr.Error carrying
// the sanitized request context.
func (h *Handler) Handle(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := mcperr.As(err); ok {
		return err
	}
	if IsLogic(err) {
		return err
	}

	rc, hasCtx := reqctx.FromContext(ctx)
	contextData := requestData(ctx)

	var sf StatusFailure
	if errors.As(err, &sf) {
		t := Target{}
		if hasCtx {
			t = Target{
				Endpoint:      rc.Endpoint(),
				ResourceType:  rc.ResourceType(),
				ResourceID:    rc.ResourceID(),
				CorrelationID: rc.CorrelationID(),
			}
		}
		return h.classifier.Classify(ctx, sf, t).Merge(contextData)
	}

	if isConnectionFailure(err) {
		h.logger.Error(ctx, "Request error", zap.String("error", err.Error()))
		return mcperr.Internal("Unable to connect to Trakt API. Please check your internet connection.",
			mcperr.WithData(map[string]any{
				"error_type": "request_error",
				"details":    err.Error(),
			}),
			mcperr.Caused(err),
		).Merge(contextData)
	}

	if isDecodeFailure(err) {
		h.logger.Error(ctx, "JSON decode error", zap.String("error", err.Error()))
		return mcperr.Internal("Invalid response format from Trakt API. Please try again later.",
			mcperr.WithData(map[string]any{
				"error_type": "json_decode_error",
				"details":    err.Error(),
			}),
			mcperr.Caused(err),
		).Merge(contextData)
	}

	h.logger.Error(ctx, "Unexpected error", logging.Exception(err))
	return mcperr.Internal("An unexpected error occurred: "+err.Error(),
		mcperr.WithData(map[string]any{"error_type": "unexpected_error"}),
		mcperr.Caused(err),
	).Merge(contextData)
}

// Annotate merges the sanitized request context of ctx into e, for
// structured errors built inside a wrapped operation rather than by the
// classifier. e always carries a correlation id afterwards.
func Annotate(ctx context.Context, e *mcperr.Error) *mcperr.Error {
	data := requestData(ctx)
	if _, ok := data["correlation_id"]; !ok {
		data["correlation_id"] = uuid.NewString()
	}
	return e.Merge(data)
}

func requestData(ctx context.Context) map[string]any {
	rc, ok := reqctx.FromContext(ctx)
	if !ok {
		return map[string]any{}
	}
	return sanitize.Value(rc.ToMap(), "").(map[string]any)
}

func isConnectionFailure(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isDecodeFailure(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
