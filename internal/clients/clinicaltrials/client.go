package clinicaltrials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// Trial is the trimmed projection of a ClinicalTrials.gov study record.
type Trial struct {
	NCTID      string   `json:"nct_id"`
	Title      string   `json:"title"`
	Status     string   `json:"status,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	URL        string   `json:"url"`
}

type Client interface {
	Search(ctx context.Context, term string, limit int) ([]Trial, error)
}

type client struct {
	log   *logger.Logger
	resty *resty.Client
}

func NewClient(log *logger.Logger) Client {
	baseURL := envutil.String("CLINICALTRIALS_BASE_URL", "https://clinicaltrials.gov/api/v2")
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(time.Duration(envutil.Int("CLINICALTRIALS_TIMEOUT_SECONDS", 15)) * time.Second).
		SetRetryCount(envutil.Int("CLINICALTRIALS_MAX_RETRIES", 2)).
		SetRetryWaitTime(500 * time.Millisecond)
	return &client{log: log.With("client", "ClinicalTrialsClient"), resty: rc}
}

type studiesResponse struct {
	Studies []struct {
		ProtocolSection struct {
			IdentificationModule struct {
				NCTID      string `json:"nctId"`
				BriefTitle string `json:"briefTitle"`
			} `json:"identificationModule"`
			StatusModule struct {
				OverallStatus string `json:"overallStatus"`
			} `json:"statusModule"`
			ConditionsModule struct {
				Conditions []string `json:"conditions"`
			} `json:"conditionsModule"`
		} `json:"protocolSection"`
	} `json:"studies"`
}

func (c *client) Search(ctx context.Context, term string, limit int) ([]Trial, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Trial{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var body studiesResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query.term": term,
			"pageSize":   fmt.Sprintf("%d", limit),
		}).
		SetResult(&body).
		Get("/studies")
	if err != nil {
		return nil, fmt.Errorf("clinicaltrials search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("clinicaltrials search status %d", resp.StatusCode())
	}

	out := make([]Trial, 0, len(body.Studies))
	for _, s := range body.Studies {
		id := s.ProtocolSection.IdentificationModule.NCTID
		if id == "" {
			continue
		}
		out = append(out, Trial{
			NCTID:      id,
			Title:      s.ProtocolSection.IdentificationModule.BriefTitle,
			Status:     s.ProtocolSection.StatusModule.OverallStatus,
			Conditions: s.ProtocolSection.ConditionsModule.Conditions,
			URL:        "https://clinicaltrials.gov/study/" + id,
		})
	}
	return out, nil
}
