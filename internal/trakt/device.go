package trakt

import (
	"context"
	"errors"
	"net/http"

	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"go.uber.org/zap"
)

// DeviceCode starts the OAuth device flow.
func (c *Client) DeviceCode(ctx context.Context) (DeviceCode, error) {
	return call[DeviceCode](ctx, c, request{
		method: http.MethodPost,
		path:   "/oauth/device/code",
		body:   map[string]string{"client_id": c.cfg.ClientID},
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("device_code", "")
	})
}

// DeviceToken polls once for the token of deviceCode. Statuses the device
// flow assigns meaning to are mapped here; pending and slow-down both yield
// an AuthorizationPending error.
func (c *Client) DeviceToken(ctx context.Context, deviceCode string) (*Token, error) {
	path := "/oauth/device/token"
	ctx = reqctx.Update(ctx, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithEndpoint(path, http.MethodPost).WithResource("device_token", "")
	})
	return errhandler.Call(ctx, c.errs, func(ctx context.Context) (*Token, error) {
		var tok Token
		_, err := c.do(ctx, request{
			method: http.MethodPost,
			path:   path,
			body: map[string]string{
				"code":          deviceCode,
				"client_id":     c.cfg.ClientID,
				"client_secret": c.cfg.ClientSecret,
			},
		}, &tok)
		if err != nil {
			return nil, c.deviceTokenError(ctx, err)
		}
		return &tok, nil
	})
}

// deviceTokenError maps the statuses the device flow gives meaning to. The
// result carries the request context like a classified error does; other
// failures are left for the classifier.
func (c *Client) deviceTokenError(ctx context.Context, err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}
	e := deviceTokenStatus(se.StatusCode())
	if e == nil {
		return err
	}
	e = errhandler.Annotate(ctx, e)
	correlationID, _ := e.Get("correlation_id")
	level := c.logger.Warn
	if e.Kind() == mcperr.KindAuthorizationPending {
		level = c.logger.Debug
	}
	level(ctx, "Device token poll failed",
		zap.Int("http_status", se.StatusCode()),
		zap.String("error_kind", e.Kind().String()),
		zap.Any("correlation_id", correlationID),
	)
	return e
}

func deviceTokenStatus(code int) *mcperr.Error {
	status := mcperr.WithHTTPStatus(code)
	switch code {
	case http.StatusBadRequest:
		return mcperr.AuthorizationPending("", 0, status)
	case http.StatusTooManyRequests:
		return mcperr.AuthorizationPending("", 0, status,
			mcperr.WithMessage("Polling too quickly. Wait before checking again."),
			mcperr.WithData(map[string]any{"slow_down": true}))
	case http.StatusNotFound:
		return mcperr.InvalidParams("Invalid device code.", status,
			mcperr.WithData(map[string]any{"error_type": "invalid_device_code"}))
	case http.StatusConflict:
		return mcperr.InvalidRequest("Device code already used.", status,
			mcperr.WithData(map[string]any{"error_type": "device_code_used"}))
	case http.StatusGone:
		return mcperr.InvalidRequest("Device code expired. Start authentication again.", status,
			mcperr.WithData(map[string]any{"error_type": "device_code_expired"}))
	case http.StatusTeapot:
		return mcperr.InvalidRequest("Authorization denied by user.", status,
			mcperr.WithData(map[string]any{"error_type": "access_denied"}))
	}
	return nil
}

// RevokeToken invalidates the stored access token upstream. Callers treat
// failures as best effort.
func (c *Client) RevokeToken(ctx context.Context, tok *Token) error {
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	_, err := call[struct{}](ctx, c, request{
		method: http.MethodPost,
		path:   "/oauth/revoke",
		body: map[string]string{
			"token":         tok.AccessToken,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
		},
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("token", "")
	})
	return err
}
