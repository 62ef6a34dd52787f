// Package paratranz is a small client for the Paratranz REST API
// (https://paratranz.cn/api). It covers only what paralang needs: listing
// project files, fetching per-file translation entries and uploading source
// files.
//
// Every request carries the project token in the Authorization header.
// Non-2xx responses are returned as *APIError and are never retried;
// transport failures are retried with exponential backoff up to
// Client.Retries times.
package paratranz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jpillora/backoff"
)

// DefaultBaseURL is the public Paratranz API endpoint.
const DefaultBaseURL = "https://paratranz.cn/api"

// Stage codes attached to every translation entry by Paratranz.
const (
	StageHidden       = -1
	StageUntranslated = 0
	StageTranslated   = 1
	StageDisputed     = 2
	StageChecked      = 3
	StageReviewed     = 5
	StageLocked       = 9
)

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// File describes a file registered in a Paratranz project.
type File struct {
	ID         int    `json:"id"`
	Name       string `json:"name"` // slash-separated path, e.g. assets/mod/lang/en_us.json
	Folder     string `json:"folder,omitempty"`
	Format     string `json:"format,omitempty"`
	Total      int    `json:"total,omitempty"`
	Translated int    `json:"translated,omitempty"`
	Disputed   int    `json:"disputed,omitempty"`
	Checked    int    `json:"checked,omitempty"`
	Reviewed   int    `json:"reviewed,omitempty"`
	Hidden     int    `json:"hidden,omitempty"`
	Words      int    `json:"words,omitempty"`
	ModifiedAt string `json:"modifiedAt,omitempty"`
}

// Translation is one entry of a file's translation list.
type Translation struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Stage       int    `json:"stage"`
	Context     string `json:"context,omitempty"`
}

// UploadResult is the acknowledgement returned for an uploaded file.
type UploadResult struct {
	File   *File  `json:"file,omitempty"`
	Status string `json:"status,omitempty"`
	// Raw is the undecoded response body.
	Raw json.RawMessage `json:"-"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body, 500))
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client talks to a single Paratranz project.
type Client struct {
	// BaseURL is the API root (default DefaultBaseURL).
	BaseURL string
	// Project is the numeric project ID as a string.
	Project string
	// Token is sent verbatim as the Authorization header.
	Token string
	// Retries is the number of extra attempts after a transport failure.
	Retries int
	// HTTPClient is used for all requests (default: 60s timeout, proxy from environment).
	HTTPClient *http.Client
	// Backoff computes the delay between retries.
	Backoff *backoff.Backoff
}

// NewClient returns a client for project using token.
func NewClient(baseURL, project, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Project:    project,
		Token:      token,
		HTTPClient: makeHTTPClient(60 * time.Second),
		Backoff: &backoff.Backoff{
			Min:    time.Second,
			Max:    30 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}
}

func makeHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (c *Client) filesURL() string {
	return c.BaseURL + "/projects/" + url.PathEscape(c.Project) + "/files"
}

// ListFiles returns every file registered in the project.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	var files []File
	if err := c.getJSON(ctx, c.filesURL(), &files); err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Translations returns all translation entries of the file with the given ID.
func (c *Client) Translations(ctx context.Context, fileID int) ([]Translation, error) {
	endpoint := fmt.Sprintf("%s/%d/translation", c.filesURL(), fileID)
	var entries []Translation
	if err := c.getJSON(ctx, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("fetching translation of file %d: %w", fileID, err)
	}
	return entries, nil
}

// UploadFile uploads content as the file remotePath (slash-separated). The
// destination directory is sent alongside as the "path" field.
func (c *Client) UploadFile(ctx context.Context, remotePath string, content []byte) (*UploadResult, error) {
	respBody, err := c.do(ctx, http.MethodPost, c.filesURL(), func(r *resty.Request) {
		r.SetMultipartField("file", remotePath, "application/json", bytes.NewReader(content)).
			SetMultipartFormData(map[string]string{"path": path.Dir(remotePath)})
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", remotePath, err)
	}

	res := &UploadResult{Raw: json.RawMessage(respBody)}
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, res); err != nil {
			return nil, fmt.Errorf("decoding upload response for %s: %w", remotePath, err)
		}
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) rest() *resty.Client {
	hc := c.HTTPClient
	if hc == nil {
		hc = makeHTTPClient(60 * time.Second)
	}
	return resty.NewWithClient(hc).
		SetHeader("Authorization", c.Token).
		SetHeader("Accept", "application/json")
}

// do performs a request, retrying transport failures only. build, if set,
// adds the body; it runs again for every attempt.
func (c *Client) do(ctx context.Context, method, endpoint string, build func(*resty.Request)) ([]byte, error) {
	b := c.Backoff
	if b == nil {
		b = &backoff.Backoff{Min: time.Second, Max: 30 * time.Second, Factor: 2}
	}
	b.Reset()

	rc := c.rest()
	for attempt := 0; ; attempt++ {
		req := rc.R().SetContext(ctx)
		if build != nil {
			build(req)
		}

		resp, err := req.Execute(method, endpoint)
		if err != nil {
			if ctx.Err() != nil || attempt >= c.Retries {
				return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.Duration()):
			}
			continue
		}

		if !resp.IsSuccess() {
			return nil, &APIError{
				Method:     method,
				URL:        endpoint,
				StatusCode: resp.StatusCode(),
				Body:       resp.String(),
			}
		}
		return resp.Body(), nil
	}
}

// IsAPIError reports whether err wraps an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
