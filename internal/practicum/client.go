package practicum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"homeworkbot/internal/homework"
)

// DefaultEndpoint is the production homework-status endpoint.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const bodyExcerptLimit = 512

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the homework-status API.
type Config struct {
	Endpoint string
	Token    string
	// Timeout applies when HTTPClient is nil. Zero means no client timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches homework statuses with an OAuth token.
type Client struct {
	endpoint   string
	token      string
	httpClient httpDoer
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	var doer httpDoer = &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		doer = cfg.HTTPClient
	}
	return &Client{
		endpoint:   endpoint,
		token:      cfg.Token,
		httpClient: doer,
		now:        time.Now,
	}
}

// Fetch requests every homework updated since fromDate (unix seconds).
// A zero fromDate means "now".
func (c *Client) Fetch(ctx context.Context, fromDate int64) (homework.StatusResponse, error) {
	if fromDate == 0 {
		fromDate = c.now().Unix()
	}
	req, err := c.buildRequest(ctx, fromDate)
	if err != nil {
		return homework.StatusResponse{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return homework.StatusResponse{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerptLimit))
		return homework.StatusResponse{}, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload homework.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return homework.StatusResponse{}, &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}
	return payload, nil
}

func (c *Client) buildRequest(ctx context.Context, fromDate int64) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
