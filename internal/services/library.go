package services

import (
	"context"
	"strings"

	"github.com/curalink/curalink-backend/internal/clients/clinicaltrials"
	"github.com/curalink/curalink-backend/internal/clients/pubmed"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

const defaultLibraryLimit = 20

// LibraryService fronts the external research catalogs. Results are passed
// through as-is; nothing here is persisted.
type LibraryService interface {
	SearchPublications(ctx context.Context, term string, limit int) ([]pubmed.Publication, error)
	SearchTrials(ctx context.Context, term string, limit int) ([]clinicaltrials.Trial, error)
}

type libraryService struct {
	log    *logger.Logger
	pubmed pubmed.Client
	trials clinicaltrials.Client
}

func NewLibraryService(log *logger.Logger, pub pubmed.Client, trials clinicaltrials.Client) LibraryService {
	return &libraryService{
		log:    log.With("service", "LibraryService"),
		pubmed: pub,
		trials: trials,
	}
}

func (s *libraryService) SearchPublications(ctx context.Context, term string, limit int) ([]pubmed.Publication, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apierr.Invalid("search term required")
	}
	if limit <= 0 {
		limit = defaultLibraryLimit
	}
	pubs, err := s.pubmed.Search(ctx, term, limit)
	if err != nil {
		s.log.Warn("pubmed search failed", "term", term, "error", err)
		return nil, apierr.Upstream(err)
	}
	return pubs, nil
}

func (s *libraryService) SearchTrials(ctx context.Context, term string, limit int) ([]clinicaltrials.Trial, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apierr.Invalid("search term required")
	}
	if limit <= 0 {
		limit = defaultLibraryLimit
	}
	trials, err := s.trials.Search(ctx, term, limit)
	if err != nil {
		s.log.Warn("clinicaltrials search failed", "term", term, "error", err)
		return nil, apierr.Upstream(err)
	}
	return trials, nil
}
