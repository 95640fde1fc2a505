package insights

import (
	"context"
	"log"
	"net/url"
	"time"

	apphttp "recruiter-assistant/pkg/http"
)

const (
	insightsPath      = "/recruiter/chatbot/insights"
	searchEmailsPath  = "/recruiter/chatbot/search-emails"
	userAnalyticsPath = "/recruiter/analytics/user/"
)

// Client reads the corpus from the recruiter backend over HTTP.
type Client struct {
	http *apphttp.Client
}

// NewClient builds a backend client. timeout bounds every call; a hung backend
// fails the turn instead of stalling it.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		http: apphttp.NewClient(timeout).WithBaseURL(baseURL).WithBearerToken(token),
	}
}

func (c *Client) LoadInsights(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.http.GetJSON(ctx, insightsPath, &snap); err != nil {
		log.Printf("[Insights] load failed: %v", err)
		return nil, Unavailable("load insights", err)
	}
	snap.LoadedAt = time.Now()
	return &snap, nil
}

func (c *Client) SearchEmails(ctx context.Context, query string) ([]EmailRecord, error) {
	var resp struct {
		Emails     []EmailRecord `json:"emails"`
		TotalFound int           `json:"total_found"`
	}
	if err := c.http.PostJSON(ctx, searchEmailsPath, map[string]string{"query": query}, &resp); err != nil {
		log.Printf("[Insights] email search %q failed: %v", query, err)
		return nil, Unavailable("search emails", err)
	}
	return resp.Emails, nil
}

func (c *Client) FetchUserAnalytics(ctx context.Context, id ID) (*UserAnalytics, error) {
	var detail UserAnalytics
	if err := c.http.GetJSON(ctx, userAnalyticsPath+url.PathEscape(id.String()), &detail); err != nil {
		log.Printf("[Insights] analytics for user %s failed: %v", id, err)
		return nil, Unavailable("fetch user analytics", err)
	}
	// The backend reports avg_score on the 0-100 quiz scale.
	if m := detail.LearningMetrics; m != nil && m.AvgScore > 1 {
		m.AvgScore /= 100
	}
	return &detail, nil
}
