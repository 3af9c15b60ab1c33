package adapter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/models"
	"github.com/lead-pruner/internal/retry"
	"github.com/lead-pruner/internal/types"
)

// SmartleadClient calls the SmartLead REST API: campaign listing, lead export
// and lead deletion. Every call authenticates with the api_key query parameter
// and runs inside the shared retry policy. The HTTP timeout applies per
// attempt, not per operation.
type SmartleadClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	retry   *retry.RetryConfig
	logger  logrus.FieldLogger
}

// NewSmartleadClient creates a new SmartLead API client
func NewSmartleadClient(cfg config.SmartLeadConfig, logger logrus.FieldLogger) *SmartleadClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	retryConfig := retry.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryConfig.MaxAttempts = cfg.MaxRetries
	}
	if cfg.BackoffFactor > 0 {
		retryConfig.Multiplier = cfg.BackoffFactor
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SmartleadClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retry:   retryConfig,
		logger:  logger,
	}
}

// ListCampaigns fetches every campaign visible to the API key.
func (c *SmartleadClient) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	endpoint := fmt.Sprintf("%s/campaigns?api_key=%s", c.baseURL, url.QueryEscape(c.apiKey))

	var campaigns []models.Campaign
	err := retry.Do(ctx, c.retry, func(ctx context.Context, attempt int) error {
		body, _, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &campaigns); err != nil {
			return retry.Permanent(fmt.Errorf("failed to parse campaign list: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Infof("[SmartLead] Fetched %d campaigns", len(campaigns))
	return campaigns, nil
}

// ExportLeads downloads the CSV lead export of one campaign. The endpoint
// must answer with a text/csv body; anything else is treated as a failed
// export rather than retried.
func (c *SmartleadClient) ExportLeads(ctx context.Context, campaignID int64) (*models.LeadExport, error) {
	endpoint := fmt.Sprintf("%s/campaigns/%d/leads-export?api_key=%s", c.baseURL, campaignID, url.QueryEscape(c.apiKey))

	c.logger.Debugf("[SmartLead] Exporting leads for campaign %d", campaignID)

	var export *models.LeadExport
	err := retry.Do(ctx, c.retry, func(ctx context.Context, attempt int) error {
		body, contentType, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		if !strings.Contains(contentType, "text/csv") {
			return retry.Permanent(fmt.Errorf("unexpected content type %q for lead export of campaign %d", contentType, campaignID))
		}
		parsed, err := parseLeadCSV(campaignID, body)
		if err != nil {
			return retry.Permanent(err)
		}
		export = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return export, nil
}

// DeleteLead removes one lead from one campaign. A 404 means the lead is
// already gone, which is the end state deletion is after, so it is reported
// as DeleteOutcomeAlreadyGone without burning retry attempts.
func (c *SmartleadClient) DeleteLead(ctx context.Context, campaignID int64, leadID string) (types.DeleteOutcome, error) {
	endpoint := fmt.Sprintf("%s/campaigns/%d/leads/%s?api_key=%s", c.baseURL, campaignID, url.PathEscape(leadID), url.QueryEscape(c.apiKey))

	outcome := types.DeleteOutcomeFailed
	err := retry.Do(ctx, c.retry, func(ctx context.Context, attempt int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			outcome = types.DeleteOutcomeAlreadyGone
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			outcome = types.DeleteOutcomeDeleted
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("rate limited (429)")
		default:
			return fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, truncateBody(body))
		}
	})
	if err != nil {
		return types.DeleteOutcomeFailed, err
	}

	return outcome, nil
}

// get performs a GET request and returns body and Content-Type for 200
// responses. Non-200 statuses come back as errors so the retry policy can
// decide what to do with them.
func (c *SmartleadClient) get(ctx context.Context, endpoint string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, truncateBody(body))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// parseLeadCSV parses an export body into its header and data rows.
func parseLeadCSV(campaignID int64, body []byte) (*models.LeadExport, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse lead export CSV for campaign %d: %w", campaignID, err)
	}

	export := &models.LeadExport{CampaignID: campaignID}
	if len(records) == 0 {
		return export, nil
	}

	export.Header = records[0]
	export.Rows = records[1:]
	return export, nil
}

// truncateBody keeps error messages readable when the API returns HTML pages
func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
