package pubmed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// Publication is the trimmed projection of a PubMed summary record that the
// library surface exposes.
type Publication struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Journal string   `json:"journal,omitempty"`
	PubDate string   `json:"pub_date,omitempty"`
	Authors []string `json:"authors,omitempty"`
	URL     string   `json:"url"`
}

type Client interface {
	Search(ctx context.Context, term string, limit int) ([]Publication, error)
}

type client struct {
	log   *logger.Logger
	resty *resty.Client
}

func NewClient(log *logger.Logger) Client {
	baseURL := envutil.String("PUBMED_BASE_URL", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(time.Duration(envutil.Int("PUBMED_TIMEOUT_SECONDS", 15)) * time.Second).
		SetRetryCount(envutil.Int("PUBMED_MAX_RETRIES", 2)).
		SetRetryWaitTime(500 * time.Millisecond)
	if key := envutil.String("PUBMED_API_KEY", ""); key != "" {
		rc.SetQueryParam("api_key", key)
	}
	return &client{log: log.With("client", "PubMedClient"), resty: rc}
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]summaryEntry `json:"result"`
}

// summaryEntry absorbs the per-id objects; the "uids" index key decodes to a
// zero entry and is skipped by id lookup.
type summaryEntry struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	PubDate string `json:"pubdate"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (c *client) Search(ctx context.Context, term string, limit int) ([]Publication, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Publication{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var search esearchResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"db":      "pubmed",
			"term":    term,
			"retmode": "json",
			"retmax":  fmt.Sprintf("%d", limit),
			"sort":    "relevance",
		}).
		SetResult(&search).
		Get("/esearch.fcgi")
	if err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pubmed esearch status %d", resp.StatusCode())
	}

	ids := search.ESearchResult.IDList
	if len(ids) == 0 {
		return []Publication{}, nil
	}

	var summary esummaryResponse
	resp, err = c.resty.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"db":      "pubmed",
			"id":      strings.Join(ids, ","),
			"retmode": "json",
		}).
		SetResult(&summary).
		Get("/esummary.fcgi")
	if err != nil {
		return nil, fmt.Errorf("pubmed esummary: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pubmed esummary status %d", resp.StatusCode())
	}

	out := make([]Publication, 0, len(ids))
	for _, id := range ids {
		entry, ok := summary.Result[id]
		if !ok || entry.Title == "" {
			continue
		}
		authors := make([]string, 0, len(entry.Authors))
		for _, a := range entry.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		out = append(out, Publication{
			ID:      id,
			Title:   entry.Title,
			Journal: entry.Source,
			PubDate: entry.PubDate,
			Authors: authors,
			URL:     "https://pubmed.ncbi.nlm.nih.gov/" + id + "/",
		})
	}
	return out, nil
}
