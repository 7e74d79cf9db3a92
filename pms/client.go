package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	breakfastChargeCode = "BRKFST"
	breakfastDepartment = "F&B"
)

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the PMS over its REST API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "pms").Logger(),
	}
}

type guestSearchResponse struct {
	Success  bool          `json:"success"`
	Guests   []GuestRecord `json:"guests"`
	Complete *bool         `json:"complete,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Message  string        `json:"message"`
}

// FetchGuests pulls the checked-in guest list for a property. A response with
// complete=false is not an error; the failed portion is reported via
// FetchResult.Errors and the caller decides how to merge.
func (c *Client) FetchGuests(ctx context.Context, propertyID string) (*FetchResult, error) {
	criteria := map[string]string{
		"property_id": propertyID,
		"status":      "checked_in",
	}

	var resp guestSearchResponse
	if err := c.post(ctx, "/guests/search", propertyID, criteria, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("pms guest search failed: %s", resp.Message)
	}

	complete := true
	if resp.Complete != nil {
		complete = *resp.Complete
	}
	return &FetchResult{
		Guests:   resp.Guests,
		Complete: complete,
		Errors:   resp.Errors,
	}, nil
}

// PostCharge posts a breakfast charge to the guest folio.
func (c *Client) PostCharge(ctx context.Context, charge ChargeRequest) (*ChargeResponse, error) {
	if charge.ChargeCode == "" {
		charge.ChargeCode = breakfastChargeCode
	}
	if charge.DepartmentCode == "" {
		charge.DepartmentCode = breakfastDepartment
	}
	if charge.Description == "" {
		charge.Description = "Breakfast Service"
	}
	if charge.TransactionDate == "" {
		charge.TransactionDate = time.Now().Format("2006-01-02")
	}

	var resp ChargeResponse
	if err := c.post(ctx, "/charges", charge.PropertyID, charge, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("pms charge rejected: %s", resp.Message)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path, propertyID string, payload, out interface{}) error {
	endpoint := c.cfg.BaseURL + path

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-Property-ID", propertyID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pms request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read pms response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("pms returned non-2xx")
		return fmt.Errorf("pms api error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal pms response: %w", err)
	}
	return nil
}
