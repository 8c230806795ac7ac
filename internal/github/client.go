package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
)

const defaultAPIBase = "https://api.github.com"
const apiVersion = "2022-11-28"
const seatsPerPage = 50

// StatusError is a non-2xx response from the API. Hint carries
// endpoint-specific remediation guidance for the common 403/404 cases.
type StatusError struct {
	StatusCode int
	Body       string
	URL        string
	Hint       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Client talks to the GitHub Copilot metrics and billing endpoints for
// a single organization.
type Client struct {
	httpClient *http.Client
	apiBase    string
	token      string
	org        string
	enterprise string
	logger     *zap.Logger
}

func NewClient(token, org, enterprise string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		apiBase:    defaultAPIBase,
		token:      token,
		org:        org,
		enterprise: enterprise,
		logger:     logger,
	}
}

// SetAPIBase overrides the API base URL. Used by tests.
func (c *Client) SetAPIBase(base string) { c.apiBase = base }

// HasEnterprise reports whether an enterprise is configured.
func (c *Client) HasEnterprise() bool { return c.enterprise != "" }

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
}

func (c *Client) get(rawURL string, query url.Values, out any) error {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			URL:        rawURL,
		}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// metricsReport fetches one metrics report envelope. 403 and 404
// responses get the hints a user can actually act on.
func (c *Client) metricsReport(rawURL string, query url.Values) (*report.Envelope, error) {
	var env report.Envelope
	if err := c.get(rawURL, query, &env); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			switch se.StatusCode {
			case http.StatusForbidden:
				se.Hint = "check the token scopes: 'read:org' for organization metrics, 'manage_billing:copilot' or 'read:enterprise' for enterprise metrics"
			case http.StatusNotFound:
				se.Hint = fmt.Sprintf("check that organization %q exists and has Copilot metrics enabled", c.org)
			}
		}
		return nil, err
	}
	return &env, nil
}

// OrgMetrics returns the organization metrics report. With day == ""
// the latest 28-day window report is returned, otherwise the report
// for that single day (YYYY-MM-DD).
func (c *Client) OrgMetrics(day string) (*report.Envelope, error) {
	if day == "" {
		c.logger.Info("fetching 28-day organization metrics", zap.String("org", c.org))
		url := fmt.Sprintf("%s/orgs/%s/copilot/metrics/reports/organization-28-day/latest", c.apiBase, c.org)
		return c.metricsReport(url, nil)
	}
	c.logger.Info("fetching organization metrics for day", zap.String("org", c.org), zap.String("day", day))
	u := fmt.Sprintf("%s/orgs/%s/copilot/metrics/reports/organization-1-day", c.apiBase, c.org)
	return c.metricsReport(u, url.Values{"day": {day}})
}

// OrgUserMetrics returns the per-user metrics report, 28-day window
// when day == "", single day otherwise.
func (c *Client) OrgUserMetrics(day string) (*report.Envelope, error) {
	if day == "" {
		c.logger.Info("fetching 28-day per-user metrics", zap.String("org", c.org))
		url := fmt.Sprintf("%s/orgs/%s/copilot/metrics/reports/users-28-day/latest", c.apiBase, c.org)
		return c.metricsReport(url, nil)
	}
	c.logger.Info("fetching per-user metrics for day", zap.String("org", c.org), zap.String("day", day))
	u := fmt.Sprintf("%s/orgs/%s/copilot/metrics/reports/users-1-day", c.apiBase, c.org)
	return c.metricsReport(u, url.Values{"day": {day}})
}

// EnterpriseMetrics returns the enterprise-level 28-day metrics
// report. Requires an enterprise to be configured.
func (c *Client) EnterpriseMetrics() (*report.Envelope, error) {
	if c.enterprise == "" {
		return nil, fmt.Errorf("no enterprise configured, set GITHUB_ENTERPRISE")
	}
	c.logger.Info("fetching enterprise metrics", zap.String("enterprise", c.enterprise))
	url := fmt.Sprintf("%s/enterprises/%s/copilot/metrics/reports/enterprise-28-day/latest", c.apiBase, c.enterprise)
	return c.metricsReport(url, nil)
}

// ListSeats pages through the org's Copilot seat assignments. The
// first page's total_seats is authoritative; pagination stops at the
// first short page.
func (c *Client) ListSeats() (*SeatsReport, error) {
	c.logger.Info("listing copilot seats", zap.String("org", c.org))

	out := &SeatsReport{}
	page := 1
	for {
		u := fmt.Sprintf("%s/orgs/%s/copilot/billing/seats", c.apiBase, c.org)
		query := url.Values{
			"page":     {fmt.Sprint(page)},
			"per_page": {fmt.Sprint(seatsPerPage)},
		}

		var resp SeatsPage
		if err := c.get(u, query, &resp); err != nil {
			var se *StatusError
			if errors.As(err, &se) {
				switch se.StatusCode {
				case http.StatusForbidden:
					se.Hint = "check that the token has the 'GitHub Copilot Business' scope"
				case http.StatusNotFound:
					se.Hint = fmt.Sprintf("Copilot is not enabled for organization %q", c.org)
				}
			}
			return nil, fmt.Errorf("listing copilot seats page %d: %w", page, err)
		}

		if page == 1 {
			out.TotalSeats = resp.TotalSeats
		}
		out.Seats = append(out.Seats, resp.Seats...)

		if len(resp.Seats) < seatsPerPage {
			break
		}
		page++
	}
	return out, nil
}

// GetBillingSummary returns the org's Copilot billing overview.
func (c *Client) GetBillingSummary() (*BillingSummary, error) {
	c.logger.Info("fetching billing summary", zap.String("org", c.org))
	url := fmt.Sprintf("%s/orgs/%s/copilot/billing", c.apiBase, c.org)

	var out BillingSummary
	if err := c.get(url, nil, &out); err != nil {
		return nil, fmt.Errorf("getting billing summary: %w", err)
	}
	return &out, nil
}
