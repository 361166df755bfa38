package view

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ayurdiet/platform/internal/patient"
	"github.com/ayurdiet/platform/internal/shared/errors"
	"github.com/ayurdiet/platform/internal/shared/types"
)

// Client talks to the patient API over HTTP JSON
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds configuration for the patient API client
type ClientConfig struct {
	// BaseURL is the server root, e.g. "http://localhost:8080"
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new patient API client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListPatients fetches the full patient list, newest-created first
func (c *Client) ListPatients(ctx context.Context) ([]patient.PatientRecord, error) {
	var payload struct {
		Patients []patient.PatientRecord `json:"patients"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/patients", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Patients, nil
}

// GetPatient fetches a single record by id
func (c *Client) GetPatient(ctx context.Context, id types.ID) (*patient.PatientRecord, error) {
	var rec patient.PatientRecord
	if err := c.do(ctx, http.MethodGet, "/api/patients/"+id.String(), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreatePatient submits validated values for creation and returns the stored
// record with its server-assigned id
func (c *Client) CreatePatient(ctx context.Context, values *patient.PatientRecord) (*patient.PatientRecord, error) {
	var rec patient.PatientRecord
	if err := c.do(ctx, http.MethodPost, "/api/patients", values.Fields(), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdatePatient submits partial fields for a shallow merge onto the record
// with the given id
func (c *Client) UpdatePatient(ctx context.Context, id types.ID, fields map[string]any) (*patient.PatientRecord, error) {
	var rec patient.PatientRecord
	if err := c.do(ctx, http.MethodPut, "/api/patients/"+id.String(), fields, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// do performs one request/response cycle. Fetch-level failures (server down,
// connection dropped) surface as NetworkFailure errors; HTTP error statuses
// are decoded back into their AppError form.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "failed to decode response body")
		}
	}
	return nil
}

// decodeAPIError turns an error response back into an AppError
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error   string            `json:"error"`
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		payload.Error = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	appErr := &errors.AppError{
		Message:    payload.Error,
		Code:       payload.Code,
		HTTPStatus: resp.StatusCode,
		Details:    payload.Details,
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		appErr.Err = errors.ErrNotFound
	case http.StatusBadRequest:
		if payload.Code == "VALIDATION_ERROR" {
			appErr.Err = errors.ErrValidation
		} else {
			appErr.Err = errors.ErrBadRequest
		}
	default:
		appErr.Err = errors.ErrInternal
	}
	return appErr
}
