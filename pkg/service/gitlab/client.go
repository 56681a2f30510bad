package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/interfaces"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

const (
	perPage     = 100
	maxAttempts = 3
	retryWait   = 500 * time.Millisecond
)

// Label conventions on the upstream board: "p:" carries the story-point
// estimate, "s:" the owning service, "#" the kanban status, "@" the fiscal
// quarter. Anything else is an ordinary label.
var pointLabelPattern = regexp.MustCompile(`^p:(\d+(?:\.\d+)?)$`)

// Client is a GitLab issues API client scoped to one project.
type Client struct {
	baseURL   string
	token     string
	projectID string
	http      *http.Client
}

var _ interfaces.GitLabClient = (*Client)(nil)

// New creates a GitLab client. baseURL is the instance root (e.g.
// "https://gitlab.example.com"), projectID a numeric ID or a
// namespace/name path.
func New(baseURL, token, projectID string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		projectID: projectID,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// issuePayload mirrors the subset of the GitLab issue JSON this service
// consumes. due_date arrives date-only, without a time component.
type issuePayload struct {
	ID          int64     `json:"id"`
	IID         int       `json:"iid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	DueDate     string    `json:"due_date"`
	Labels      []string  `json:"labels"`
	WebURL      string    `json:"web_url"`
	Milestone   *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	Assignee *struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"assignee"`
}

// ListIssues fetches every issue of the project tagged with the given
// fiscal-quarter label, walking all result pages.
func (c *Client) ListIssues(ctx context.Context, quarter types.QuarterLabel) ([]model.Issue, error) {
	if quarter.IsZero() {
		return nil, goerr.New("quarter label is empty")
	}

	var issues []model.Issue
	for page := 1; ; page++ {
		payloads, nextPage, err := c.listPage(ctx, quarter, page)
		if err != nil {
			return nil, err
		}
		for _, p := range payloads {
			issues = append(issues, p.toIssue())
		}
		if nextPage == 0 {
			break
		}
	}

	ctxlog.From(ctx).Debug("Fetched issues for quarter",
		"quarter", quarter,
		"count", len(issues),
	)
	return issues, nil
}

func (c *Client) listPage(ctx context.Context, quarter types.QuarterLabel, page int) ([]issuePayload, int, error) {
	q := url.Values{}
	// The upstream label carries the "@" sigil the domain strips at parse
	q.Set("labels", "@"+quarter.String())
	q.Set("state", "all")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/issues?%s",
		c.baseURL, url.PathEscape(c.projectID), q.Encode())

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, goerr.Wrap(ctx.Err(), "issue fetch cancelled")
			case <-time.After(retryWait * time.Duration(attempt)):
			}
		}

		payloads, nextPage, err := c.doList(ctx, endpoint)
		if err == nil {
			return payloads, nextPage, nil
		}
		if !isRetryable(err) {
			return nil, 0, err
		}
		lastErr = err
	}
	return nil, 0, goerr.Wrap(lastErr, "issue fetch failed after retries",
		goerr.V("quarter", quarter),
		goerr.V("page", page))
}

type httpStatusError struct {
	code int
	body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gitlab returned status %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.code == http.StatusTooManyRequests || statusErr.code >= 500
	}
	// Transport errors (timeouts, resets) are worth another attempt
	return true
}

func (c *Client) doList(ctx context.Context, endpoint string) ([]issuePayload, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to build request")
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "request failed", goerr.V("url", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, 0, goerr.Wrap(&httpStatusError{code: resp.StatusCode, body: string(body)},
			"unexpected response", goerr.V("url", endpoint))
	}

	var payloads []issuePayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, 0, goerr.Wrap(err, "failed to decode issue list")
	}

	nextPage := 0
	if v := resp.Header.Get("X-Next-Page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			nextPage = n
		}
	}
	return payloads, nextPage, nil
}

// toIssue maps a GitLab payload to a domain issue, deriving the analysis
// fields from the board's label conventions.
func (p issuePayload) toIssue() model.Issue {
	issue := model.Issue{
		ID:          types.IssueID(p.ID),
		IID:         types.IssueIID(p.IID),
		Title:       p.Title,
		Description: p.Description,
		State:       types.IssueState(p.State),
		CreatedAt:   p.CreatedAt,
		WebURL:      p.WebURL,
	}
	if p.Milestone != nil {
		issue.Milestone = p.Milestone.Title
	}
	if p.Assignee != nil {
		issue.Assignee = p.Assignee.Name
		if issue.Assignee == "" {
			issue.Assignee = p.Assignee.Username
		}
	}
	if p.DueDate != "" {
		if due, err := time.Parse(time.DateOnly, p.DueDate); err == nil {
			issue.DueDate = &due
		}
	}

	for _, label := range p.Labels {
		switch {
		case pointLabelPattern.MatchString(label):
			if v, err := strconv.ParseFloat(pointLabelPattern.FindStringSubmatch(label)[1], 64); err == nil {
				issue.Point = &v
			}
		case strings.HasPrefix(label, "#"):
			issue.KanbanStatus = types.KanbanStatus(label)
		case strings.HasPrefix(label, "@"):
			issue.Quarter = types.ParseQuarterLabel(label)
		case strings.HasPrefix(label, "s:"):
			issue.Service = strings.TrimPrefix(label, "s:")
		case strings.EqualFold(label, "epic"):
			issue.IsEpic = true
		}
	}

	issue.CompletedAt = p.completedAt(issue)
	return issue
}

// completedAt derives the completion timestamp: a closed issue completes on
// its due date when one is set; otherwise a done-like kanban status falls
// back to the last update. Anything else is still open.
func (p issuePayload) completedAt(issue model.Issue) *time.Time {
	if issue.DueDate != nil && issue.State == types.IssueStateClosed {
		return issue.DueDate
	}
	if issue.KanbanStatus.RequiresDueDate() {
		completed := p.UpdatedAt
		if completed.IsZero() {
			completed = p.CreatedAt
		}
		return &completed
	}
	return nil
}
