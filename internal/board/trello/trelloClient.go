// internal/board/trello/trelloClient.go
package trelloClient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/adlio/trello"
	"github.com/rs/zerolog"

	bc "github.com/egobogo/trellofn/internal/board"
)

// DefaultBaseURI is the root of Trello's public REST API.
const DefaultBaseURI = "https://api.trello.com/1/"

// Gateway implements bc.Gateway against the Trello REST API. The adlio/trello
// client holds the credentials and the *http.Client; requests are built here
// because adlio's verbs throttle every call and put write arguments in the
// query string, while writes must be form bodies.
type Gateway struct {
	Client  *trello.Client
	BaseURI string
	logger  zerolog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithBaseURL points the gateway at another API root, e.g. a test server.
func WithBaseURL(base string) Option {
	return func(g *Gateway) {
		g.BaseURI = strings.TrimRight(base, "/") + "/"
	}
}

// WithHTTPClient replaces the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.Client.Client = hc
	}
}

// WithLogger attaches a logger. Requests are logged at debug level and
// failures at warn level.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// NewGateway constructs a Gateway authenticating with the given API key and
// token.
func NewGateway(apiKey, token string, opts ...Option) *Gateway {
	g := &Gateway{
		Client:  trello.NewClient(apiKey, token),
		BaseURI: DefaultBaseURI,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Client.BaseURL = strings.TrimRight(g.BaseURI, "/")
	return g
}

// Get issues a GET with params and the credentials in the query string.
func (g *Gateway) Get(ctx context.Context, endpoint string, params map[string]string) bc.Result {
	return g.do(ctx, http.MethodGet, endpoint, params)
}

// Post issues a POST with params merged with the credentials as a form body.
func (g *Gateway) Post(ctx context.Context, endpoint string, params map[string]string) bc.Result {
	return g.do(ctx, http.MethodPost, endpoint, params)
}

// Put issues a PUT with params merged with the credentials as a form body.
func (g *Gateway) Put(ctx context.Context, endpoint string, params map[string]string) bc.Result {
	return g.do(ctx, http.MethodPut, endpoint, params)
}

// do performs exactly one request, with no throttling or retry. The gateway's
// key and token replace any caller params of the same name.
func (g *Gateway) do(ctx context.Context, method, endpoint string, params map[string]string) bc.Result {
	args := trello.Arguments{}
	for k, v := range params {
		args[k] = v
	}
	args["key"] = g.Client.Key
	args["token"] = g.Client.Token
	values := args.ToURLValues()

	endpoint = strings.TrimLeft(endpoint, "/")
	target := g.BaseURI + endpoint
	g.logger.Debug().Str("method", method).Str("endpoint", endpoint).Msg("trello request")

	var body io.Reader
	if method == http.MethodGet {
		target += "?" + values.Encode()
	} else {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return g.fail(method, endpoint, bc.KindTransport, fmt.Sprintf("invalid %s request %s: %v", method, endpoint, err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	hc := g.Client.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		// url.Error repeats the full URL, query credentials included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return g.fail(method, endpoint, bc.KindTransport, fmt.Sprintf("HTTP request failure on %s: %v", endpoint, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.fail(method, endpoint, bc.KindTransport, fmt.Sprintf("failed to read response body from %s: %v", endpoint, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP request failure on %s:\n%d: %s", endpoint, resp.StatusCode, string(data))
		return g.fail(method, endpoint, kindForStatus(resp.StatusCode), msg)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return g.fail(method, endpoint, bc.KindDecode, fmt.Sprintf("JSON decode failed on %s: %v", endpoint, err))
	}
	return bc.Ok(value)
}

func (g *Gateway) fail(method, endpoint string, kind bc.ErrorKind, msg string) bc.Result {
	g.logger.Warn().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("kind", string(kind)).
		Msg(msg)
	return bc.Fail(kind, msg)
}

// kindForStatus maps a non-2xx status onto an ErrorKind for every verb.
func kindForStatus(code int) bc.ErrorKind {
	switch code {
	case http.StatusNotFound:
		return bc.KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return bc.KindPermissionDenied
	case http.StatusTooManyRequests:
		return bc.KindRateLimited
	default:
		return bc.KindStatus
	}
}
