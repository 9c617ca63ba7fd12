// Package api is the typed HTTP client for the hotel service contract.
//
// Every remote call explicitly brackets itself with the work-indicator
// collaborator. Instrumentation lives at the call sites on purpose: nothing
// here wraps or replaces the transport globally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/hotel-staff-agent/internal/logging"
	"github.com/example/hotel-staff-agent/internal/view"
)

// DeviceIDHeader correlates every call with the registered device.
const DeviceIDHeader = "X-Device-Id"

// Client talks to the remote hotel service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	indicator  view.WorkIndicator
	deviceID   func() string
	logger     *slog.Logger
}

// ClientConfig collects the client's constructor-injected collaborators.
type ClientConfig struct {
	BaseURL string
	// HTTPClient should carry a cookie jar so the device id cookie mirror
	// reaches the server. Defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
	Indicator  view.WorkIndicator
	// DeviceID supplies the X-Device-Id header value per call.
	DeviceID func() string
	Logger   *slog.Logger
}

// NewClient constructs a client for the given service origin.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	indicator := cfg.Indicator
	if indicator == nil {
		indicator = &view.NopIndicator{}
	}
	deviceID := cfg.DeviceID
	if deviceID == nil {
		deviceID = func() string { return "" }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		indicator:  indicator,
		deviceID:   deviceID,
		logger:     logger,
	}, nil
}

// BaseURL returns the service origin the client talks to.
func (c *Client) BaseURL() *url.URL {
	copied := *c.baseURL
	return &copied
}

// RegisterDevice upserts this device with the service.
func (c *Client) RegisterDevice(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/device/register", nil, req, nil, "register-device")
}

// DeviceStatus queries the activation status for the given device.
func (c *Client) DeviceStatus(ctx context.Context, deviceID string) (StatusResponse, error) {
	query := url.Values{"device_id": {deviceID}}
	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/device/status", query, nil, &resp, "device-status"); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// SubmitReport posts one report as a multipart form with up to five photos.
func (c *Client) SubmitReport(ctx context.Context, submission ReportSubmission) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"type":            string(submission.Category),
		"room":            strconv.Itoa(submission.Room),
		"createdAtEpochMs": strconv.FormatInt(submission.CreatedAt.UnixMilli(), 10),
	}
	if submission.Description != "" {
		fields["description"] = submission.Description
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("api: encode report field %q: %w", name, err)
		}
	}

	for i, photo := range submission.Photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, escapeQuotes(photo.Name)))
		header.Set("Content-Type", photo.MIME)
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("api: encode photo %d: %w", i, err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return fmt.Errorf("api: write photo %d: %w", i, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finalize report form: %w", err)
	}

	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/reports",
		body:        &body,
		contentType: writer.FormDataContentType(),
		operation:   "submit-report",
	}, nil)
}

// OpenReports lists not-yet-done reports for the given category.
func (c *Client) OpenReports(ctx context.Context, category ReportCategory) ([]Report, error) {
	query := url.Values{"category": {string(category)}}
	var resp openReportsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/open", query, nil, &resp, "open-reports"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// MarkReportDone marks one report as terminal.
func (c *Client) MarkReportDone(ctx context.Context, reportID int64) error {
	query := url.Values{"id": {strconv.FormatInt(reportID, 10)}}
	return c.doJSON(ctx, http.MethodPost, "/api/reports/mark-done", query, nil, nil, "mark-report-done")
}

// BreakfastDay fetches the expected breakfast attendees for a calendar date
// (YYYY-MM-DD).
func (c *Client) BreakfastDay(ctx context.Context, date string) (BreakfastDayResponse, error) {
	query := url.Values{"date": {date}}
	var resp BreakfastDayResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/breakfast/day", query, nil, &resp, "breakfast-day"); err != nil {
		return BreakfastDayResponse{}, err
	}
	return resp, nil
}

// BreakfastCheckIn records a room's breakfast attendance for a date.
func (c *Client) BreakfastCheckIn(ctx context.Context, date string, room int) error {
	body := breakfastCheckRequest{Date: date, Room: room}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/breakfast/check", nil, body, nil, "breakfast-check-in")
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	operation   string
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any, operation string) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s request: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		query:       query,
		body:        body,
		contentType: contentType,
		operation:   operation,
	}, out)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + req.path
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), req.body)
	if err != nil {
		return fmt.Errorf("api: build %s request: %w", req.operation, err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if id := c.deviceID(); id != "" {
		httpReq.Header.Set(DeviceIDHeader, id)
	}

	// GET calls to API paths and all mutations block interaction; static
	// asset fetches never go through this client.
	token := c.indicator.BeginWork(view.WorkOptions{Label: req.operation, Blocking: true})
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.indicator.EndWork(token)

	logger := logging.Default(ctx, c.logger).With("operation", req.operation, "method", req.method, "path", req.path)
	if err != nil {
		logger.ErrorContext(ctx, "request failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("api: %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.ErrorContext(ctx, "request rejected", "status", resp.StatusCode, "duration", time.Since(start))
		return &StatusError{StatusCode: resp.StatusCode, Operation: req.operation, Body: string(raw)}
	}

	logger.DebugContext(ctx, "request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", req.operation, err)
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
