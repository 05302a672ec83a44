// Package client talks to the shift-log HTTP API and keeps local copies of
// the fetched collections.
package client

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// Client is a typed wrapper over the REST API. API error bodies come back
// as *apperr.Error carrying the server's kind.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New creates a client for the server at baseURL.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, logger: logger.Named("client")}
}

// SetToken attaches a bearer token to every subsequent request.
func (c *Client) SetToken(token string) {
	c.httpClient.SetAuthToken(token)
}

func (c *Client) request(ctx context.Context, result interface{}) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&models.ErrorResponse{})
}

// check turns a failed round trip or an error response into an apperr.
func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.logger.Error("API call failed", zap.String("op", op), zap.Error(err))
		return apperr.Transport(err, op)
	}
	if !resp.IsError() {
		return nil
	}

	body, _ := resp.Error().(*models.ErrorResponse)
	kind := kindForStatus(resp.StatusCode())
	message := resp.Status()
	if body != nil && body.Code != "" {
		kind = apperr.Kind(body.Code)
		message = body.Message
	}

	c.logger.Warn("API returned error",
		zap.String("op", op),
		zap.Int("status_code", resp.StatusCode()),
		zap.String("code", string(kind)),
	)
	return &apperr.Error{Kind: kind, Message: message}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusUnauthorized:
		return apperr.KindUnauthenticated
	case http.StatusForbidden:
		return apperr.KindAuthorization
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindState
	default:
		return apperr.KindTransport
	}
}

// Auth

func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	resp, err := c.request(ctx, &out).SetBody(req).Post("/api/auth/signup")
	if err := c.check(resp, err, "sign up"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	resp, err := c.request(ctx, &out).
		SetBody(models.LoginRequest{Email: email, Password: password}).
		Post("/api/auth/login")
	if err := c.check(resp, err, "login"); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var out models.IdentityResponse
	resp, err := c.request(ctx, &out).Get("/api/auth/me")
	if err := c.check(resp, err, "get identity"); err != nil {
		return nil, err
	}
	return &out.Identity, nil
}

// Reference data

func (c *Client) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var out models.CategoriesResponse
	resp, err := c.request(ctx, &out).SetQueryParams(activeParam(activeOnly)).Get("/api/categories")
	if err := c.check(resp, err, "list categories"); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) ListEquipment(ctx context.Context, activeOnly bool) ([]models.Equipment, error) {
	var out models.EquipmentListResponse
	resp, err := c.request(ctx, &out).SetQueryParams(activeParam(activeOnly)).Get("/api/equipment")
	if err := c.check(resp, err, "list equipment"); err != nil {
		return nil, err
	}
	return out.Equipment, nil
}

func (c *Client) ListLocations(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	var out models.LocationsResponse
	resp, err := c.request(ctx, &out).SetQueryParams(activeParam(activeOnly)).Get("/api/locations")
	if err := c.check(resp, err, "list locations"); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

func activeParam(activeOnly bool) map[string]string {
	if !activeOnly {
		return nil
	}
	return map[string]string{"active": "true"}
}

// Entries

func (c *Client) ListEntries(ctx context.Context, f filter.EntryFilter) ([]models.JournalEntry, error) {
	var out models.EntriesResponse
	resp, err := c.request(ctx, &out).SetQueryParamsFromValues(f.Query()).Get("/api/entries")
	if err := c.check(resp, err, "list entries"); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.JournalEntry, error) {
	var out models.EntryResponse
	resp, err := c.request(ctx, &out).SetBody(req).Post("/api/entries")
	if err := c.check(resp, err, "create entry"); err != nil {
		return nil, err
	}
	return out.Entry, nil
}

func (c *Client) ActivateEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	var out models.EntryResponse
	resp, err := c.request(ctx, &out).Post("/api/entries/" + url.PathEscape(id) + "/activate")
	if err := c.check(resp, err, "activate entry"); err != nil {
		return nil, err
	}
	return out.Entry, nil
}

func (c *Client) CancelEntry(ctx context.Context, id string, req models.CancelEntryRequest) (*models.JournalEntry, error) {
	var out models.EntryResponse
	resp, err := c.request(ctx, &out).SetBody(req).Post("/api/entries/" + url.PathEscape(id) + "/cancel")
	if err := c.check(resp, err, "cancel entry"); err != nil {
		return nil, err
	}
	return out.Entry, nil
}

// Handovers

func (c *Client) ListHandovers(ctx context.Context, f filter.HandoverFilter) ([]models.ShiftHandover, error) {
	var out models.HandoversResponse
	resp, err := c.request(ctx, &out).SetQueryParamsFromValues(f.Query()).Get("/api/handovers")
	if err := c.check(resp, err, "list handovers"); err != nil {
		return nil, err
	}
	return out.Handovers, nil
}

func (c *Client) CreateHandover(ctx context.Context, req models.CreateHandoverRequest) (*models.ShiftHandover, error) {
	var out models.HandoverResponse
	resp, err := c.request(ctx, &out).SetBody(req).Post("/api/handovers")
	if err := c.check(resp, err, "create handover"); err != nil {
		return nil, err
	}
	return out.Handover, nil
}

func (c *Client) AcceptHandover(ctx context.Context, id string, req models.AcceptHandoverRequest) (*models.ShiftHandover, error) {
	return c.handoverAction(ctx, id, "accept", req)
}

func (c *Client) CompleteHandover(ctx context.Context, id string) (*models.ShiftHandover, error) {
	return c.handoverAction(ctx, id, "complete", nil)
}

func (c *Client) CancelHandover(ctx context.Context, id string) (*models.ShiftHandover, error) {
	return c.handoverAction(ctx, id, "cancel", nil)
}

func (c *Client) handoverAction(ctx context.Context, id, action string, body interface{}) (*models.ShiftHandover, error) {
	var out models.HandoverResponse
	req := c.request(ctx, &out)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(fmt.Sprintf("/api/handovers/%s/%s", url.PathEscape(id), action))
	if err := c.check(resp, err, action+" handover"); err != nil {
		return nil, err
	}
	return out.Handover, nil
}

// Reports

// ReportRequest selects and shapes an exported report. Zone names the IANA
// time zone report timestamps and date groups are rendered in.
type ReportRequest struct {
	Filter         filter.EntryFilter
	Zone           string
	Format         string
	GroupBy        string
	Title          string
	IncludeStats   bool
	IncludeFilters bool
}

func (r ReportRequest) query() url.Values {
	q := r.Filter.Query()
	if r.Zone != "" {
		q.Set("tz", r.Zone)
	}
	if r.Format != "" {
		q.Set("format", r.Format)
	}
	if r.GroupBy != "" {
		q.Set("groupBy", r.GroupBy)
	}
	if r.Title != "" {
		q.Set("title", r.Title)
	}
	q.Set("stats", fmt.Sprint(r.IncludeStats))
	q.Set("filters", fmt.Sprint(r.IncludeFilters))
	return q
}

// Report is a downloaded report file
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DownloadReport fetches a rendered report. The filename comes from the
// server's Content-Disposition header.
func (c *Client) DownloadReport(ctx context.Context, req ReportRequest) (*Report, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&models.ErrorResponse{}).
		SetHeader("Accept", "*/*").
		SetQueryParamsFromValues(req.query()).
		Get("/api/reports/entries")
	if err := c.check(resp, err, "download report"); err != nil {
		return nil, err
	}

	filename := "report"
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	c.logger.Info("report downloaded", zap.String("filename", filename), zap.Int("bytes", len(resp.Body())))
	return &Report{
		Filename:    filename,
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}
