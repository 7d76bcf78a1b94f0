package authoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vocalcoach/backend/internal/models"
)

// ErrTimeout marks a submission that did not complete within the client
// timeout or the context deadline.
var ErrTimeout = errors.New("request timed out")

// APIError is a non-2xx response from the backend, carrying the server
// message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// defaultTimeout is deliberately generous: course submissions can carry
// large lesson lists.
const defaultTimeout = 30 * time.Second

// Client talks to the course API on behalf of the authoring flow
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// NewClient creates an API client. baseURL is the API root including the
// version prefix (e.g. "https://host/api/v1"); token is the bearer access
// token of the authenticated instructor.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCourse submits a new course
func (c *Client) CreateCourse(ctx context.Context, req *models.SaveCourseRequest) (*models.Course, error) {
	return c.send(ctx, http.MethodPost, c.baseURL+"/courses", req)
}

// UpdateCourse rewrites an existing course
func (c *Client) UpdateCourse(ctx context.Context, courseID int, req *models.SaveCourseRequest) (*models.Course, error) {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/courses/%d", c.baseURL, courseID), req)
}

// send issues one JSON request and decodes the course response
func (c *Client) send(ctx context.Context, method, url string, payload *models.SaveCourseRequest) (*models.Course, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s %s", ErrTimeout, method, url)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp),
		}
	}

	course := &models.Course{}
	if err := json.NewDecoder(resp.Body).Decode(course); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return course, nil
}

// decodeErrorMessage pulls the server message out of an error response,
// falling back to the HTTP status text.
func decodeErrorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode)
}

// isTimeout reports whether err is a deadline or network timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
