// Package client talks to the task-manager REST API on behalf of one
// signed-in user.
package client

import (
	"bytes"
	"clementus360/task-manager/types"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	sessionExpiredMessage = "Your session has expired. Please log in again."
	loginRequiredMessage  = "Authentication required: Please log in to continue"
)

// Client is the remote store client. Every authenticated call carries the
// bearer token held by its Session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
		log:     logrus.StandardLogger(),
	}
	if c.session == nil {
		c.session = NewSession(nil)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

func (c *Client) Tasks() *TaskRepository { return &TaskRepository{c: c} }

func (c *Client) Categories() *CategoryRepository { return &CategoryRepository{c: c} }

// request describes one API call.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	public  bool   // sent without a bearer token
	context string // prefix for generic failure messages
}

// do sends req and decodes a 2xx body into out. Non-2xx responses become one
// of the typed errors in this package.
func (c *Client) do(ctx context.Context, req request, out any) error {
	token := c.session.Token()
	if !req.public && token == "" {
		return &AuthError{Message: loginRequiredMessage}
	}

	var body io.Reader
	if req.body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(req.body); err != nil {
			return &StoreError{Message: req.context, Err: err}
		}
		body = buf
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return &StoreError{Message: req.context, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.public {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &StoreError{Message: req.context, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method": req.method,
		"path":   req.path,
		"status": resp.StatusCode,
	}).Debug("api call")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &StoreError{Status: resp.StatusCode, Message: req.context, Err: fmt.Errorf("decoding response: %w", err)}
		}
		return nil
	}

	return c.statusError(req, resp)
}

func (c *Client) statusError(req request, resp *http.Response) error {
	var payload types.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &payload)

	message := payload.Error
	if message == "" {
		message = fmt.Sprintf("%s: %s", req.context, http.StatusText(resp.StatusCode))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if req.public {
			return &AuthError{Message: message}
		}
		if err := c.session.Invalidate(); err != nil {
			c.log.WithError(err).Warn("clearing rejected session")
		}
		return &AuthError{Message: sessionExpiredMessage}
	case http.StatusNotFound:
		return &NotFoundError{Message: message}
	case http.StatusConflict:
		return &ConflictError{Message: message}
	case http.StatusTooManyRequests:
		return &StoreError{Status: resp.StatusCode, Message: "Too many requests. Please try again later."}
	}

	if payload.Details != "" {
		message += ": " + payload.Details
	}
	return &StoreError{Status: resp.StatusCode, Message: message}
}
