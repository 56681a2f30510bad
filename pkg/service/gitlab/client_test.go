package gitlab_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pbl-lab/pblview/pkg/domain/types"
	"github.com/pbl-lab/pblview/pkg/service/gitlab"
)

func issueJSON(id int, labels []string, state string) map[string]any {
	return map[string]any{
		"id":          id,
		"iid":         id,
		"title":       "issue",
		"description": "",
		"state":       state,
		"created_at":  "2025-04-10T09:00:00Z",
		"updated_at":  "2025-05-01T09:00:00Z",
		"labels":      labels,
		"web_url":     "https://gitlab.example.com/team/backlog/-/issues/1",
	}
}

func TestListIssues(t *testing.T) {
	t.Run("maps board labels to analysis fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.URL.EscapedPath(), "/api/v4/projects/team%2Fbacklog/issues")
			gt.Equal(t, r.Header.Get("PRIVATE-TOKEN"), "secret")
			gt.Equal(t, r.URL.Query().Get("labels"), "@FY25Q1")

			payload := issueJSON(1, []string{"p:2.5", "#作業中", "@FY25Q1", "s:backend"}, "opened")
			_ = json.NewEncoder(w).Encode([]any{payload})
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "secret", "team/backlog")
		issues, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.NoError(t, err)
		gt.A(t, issues).Length(1)

		issue := issues[0]
		gt.Equal(t, issue.ID, types.IssueID(1))
		gt.Equal(t, issue.StoryPoints(), 2.5)
		gt.Equal(t, issue.KanbanStatus, types.KanbanStatusInProgress)
		gt.Equal(t, issue.Quarter, types.QuarterLabel("FY25Q1"))
		gt.Equal(t, issue.Service, "backend")
		gt.V(t, issue.CompletedAt).Nil()
	})

	t.Run("derives completion from due date on closed issues", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := issueJSON(2, []string{"@FY25Q1"}, "closed")
			payload["due_date"] = "2025-05-20"
			_ = json.NewEncoder(w).Encode([]any{payload})
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "secret", "1234")
		issues, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.NoError(t, err)
		gt.V(t, issues[0].CompletedAt).NotNil()
		gt.Equal(t, issues[0].CompletedAt.Format(time.DateOnly), "2025-05-20")
	})

	t.Run("derives completion from done status without due date", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := issueJSON(3, []string{"#完了", "@FY25Q1"}, "opened")
			_ = json.NewEncoder(w).Encode([]any{payload})
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "secret", "1234")
		issues, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.NoError(t, err)
		gt.V(t, issues[0].CompletedAt).NotNil()
		gt.Equal(t, issues[0].CompletedAt.Format(time.DateOnly), "2025-05-01")
	})

	t.Run("walks paginated results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "1":
				w.Header().Set("X-Next-Page", "2")
				_ = json.NewEncoder(w).Encode([]any{issueJSON(1, []string{"@FY25Q1"}, "opened")})
			default:
				_ = json.NewEncoder(w).Encode([]any{issueJSON(2, []string{"@FY25Q1"}, "opened")})
			}
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "secret", "1234")
		issues, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.NoError(t, err)
		gt.A(t, issues).Length(2)
	})

	t.Run("retries on server errors", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode([]any{issueJSON(1, []string{"@FY25Q1"}, "opened")})
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "secret", "1234")
		issues, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.NoError(t, err)
		gt.A(t, issues).Length(1)
		gt.Equal(t, attempts, 3)
	})

	t.Run("does not retry on auth failure", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := gitlab.New(srv.URL, "bad-token", "1234")
		_, err := client.ListIssues(context.Background(), "FY25Q1")
		gt.Error(t, err)
		gt.Equal(t, attempts, 1)
	})

	t.Run("rejects empty quarter", func(t *testing.T) {
		client := gitlab.New("https://gitlab.example.com", "secret", "1234")
		_, err := client.ListIssues(context.Background(), "")
		gt.Error(t, err)
	})
}
