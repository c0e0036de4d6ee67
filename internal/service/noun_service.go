package service

import (
	"context"
	"fmt"
	"io"

	"storyfusion/internal/csvimport"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
)

// NounService manages one noun cache. Entries are derived data; an import
// upserts by subject key and a clear drops the whole cache.
type NounService struct {
	nounRepo    repository.NounRepo
	subject     model.NounSubject
	broadcaster Broadcaster
	log         *logger.Logger
}

// NewNounService creates a noun service for subject
func NewNounService(nounRepo repository.NounRepo, subject model.NounSubject, log *logger.Logger) *NounService {
	return &NounService{
		nounRepo:    nounRepo,
		subject:     subject,
		broadcaster: nopBroadcaster{},
		log:         log.With("service", "NounService", "subject", subject),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *NounService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *NounService) Subject() model.NounSubject { return s.subject }

func (s *NounService) Init(ctx context.Context) error {
	if err := s.nounRepo.Init(ctx); err != nil {
		return fmt.Errorf("failed to init noun cache: %w", err)
	}
	return nil
}

// Import reads the noun export and keeps only rows of this cache's subject
func (s *NounService) Import(ctx context.Context, r io.Reader) (csvimport.Report, error) {
	if r == nil {
		return csvimport.Report{}, badRequest("file is required")
	}
	if err := s.Init(ctx); err != nil {
		return csvimport.Report{}, err
	}

	report, err := csvimport.Run(ctx, r, csvimport.ForSubject(s.subject), func(ctx context.Context, row csvimport.NounRow) error {
		return s.nounRepo.Upsert(ctx, &model.NounEntry{SubjectKey: row.Key, Nouns: row.Nouns})
	})
	if err != nil {
		return report, fmt.Errorf("failed to import nouns: %w", err)
	}

	s.log.Info("nouns imported", "imported", report.Imported, "skipped", report.Skipped)
	s.broadcaster.Broadcast(TopicNouns, EventNounsImported, map[string]interface{}{
		"subject":       s.subject,
		"importedCount": report.Imported,
	})
	return report, nil
}

func (s *NounService) Count(ctx context.Context) (int64, error) {
	n, err := s.nounRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count nouns: %w", err)
	}
	return n, nil
}

// Get returns nil when key has no cached entry
func (s *NounService) Get(ctx context.Context, key int) (*model.NounEntry, error) {
	entry, err := s.nounRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get nouns: %w", err)
	}
	return entry, nil
}

func (s *NounService) List(ctx context.Context) ([]*model.NounEntry, error) {
	entries, err := s.nounRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nouns: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed
func (s *NounService) Clear(ctx context.Context) (int64, error) {
	n, err := s.nounRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear nouns: %w", err)
	}
	s.log.Info("nouns cleared", "deleted", n)
	s.broadcaster.Broadcast(TopicNouns, EventNounsCleared, map[string]interface{}{
		"subject":      s.subject,
		"deletedCount": n,
	})
	return n, nil
}
