package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"storyfusion/internal/cache"
	"storyfusion/internal/csvimport"
	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
	"storyfusion/internal/scoring"
)

const (
	defaultUploadName     = "Unnamed"
	defaultLeaderboardLen = 10
	summaryWorkers        = 4
)

// UploadResult is the outcome of one prediction CSV import
type UploadResult struct {
	UploadID int64  `json:"uploadId"`
	Name     string `json:"name"`
	csvimport.Report
}

// PredictionService imports prediction batches and scores them against the
// practice answer key
type PredictionService struct {
	predictionRepo repository.PredictionRepo
	key            scoring.AnswerKey
	scoreCache     cache.ScoreCache       // optional
	leaderboard    cache.LeaderboardCache // optional
	broadcaster    Broadcaster
	log            *logger.Logger
	now            func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(predictionRepo repository.PredictionRepo, catalog *dataset.Catalog, log *logger.Logger) *PredictionService {
	return &PredictionService{
		predictionRepo: predictionRepo,
		key:            catalog.AnswerKey(),
		broadcaster:    nopBroadcaster{},
		log:            log.With("service", "PredictionService"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SetCaches enables Redis caching of summaries and the leaderboard
func (s *PredictionService) SetCaches(scores cache.ScoreCache, board cache.LeaderboardCache) {
	s.scoreCache = scores
	s.leaderboard = board
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *PredictionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *PredictionService) Init(ctx context.Context) error {
	if err := s.predictionRepo.Init(ctx); err != nil {
		return fmt.Errorf("failed to init predictions: %w", err)
	}
	return nil
}

// UploadName picks the display name of an upload: the given name, else
// the file name, else "Unnamed"
func UploadName(name, fileName string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if n := strings.TrimSpace(fileName); n != "" {
		return n
	}
	return defaultUploadName
}

// Import creates an upload and ingests r into it. Malformed rows are
// skipped and reported. A storage failure stops the import; rows already
// written stay.
func (s *PredictionService) Import(ctx context.Context, name string, r io.Reader) (*UploadResult, error) {
	if r == nil {
		return nil, badRequest("file is required")
	}
	upload := &model.PredictionUpload{Name: UploadName(name, ""), CreatedAt: s.now()}
	if err := s.predictionRepo.CreateUpload(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to create upload: %w", err)
	}

	var rows []scoring.Prediction
	report, err := csvimport.Run(ctx, r, csvimport.ParsePredictionRow, func(ctx context.Context, p scoring.Prediction) error {
		if err := s.predictionRepo.AddPrediction(ctx, &model.Prediction{
			UploadID:      upload.ID,
			QuestionIndex: p.Index,
			SelectedA:     p.Pair.A,
			SelectedB:     p.Pair.B,
		}); err != nil {
			return err
		}
		rows = append(rows, p)
		return nil
	})
	result := &UploadResult{UploadID: upload.ID, Name: upload.Name, Report: report}
	if err != nil {
		return result, fmt.Errorf("failed to import predictions: %w", err)
	}

	summary := s.summarize(upload, rows)
	s.remember(ctx, &summary)
	s.log.Info("predictions imported",
		"upload_id", upload.ID, "imported", report.Imported, "skipped", report.Skipped, "accuracy", summary.Accuracy)
	s.broadcaster.Broadcast(TopicPredictions, EventPredictionsUploaded, summary)
	return result, nil
}

func (s *PredictionService) summarize(upload *model.PredictionUpload, rows []scoring.Prediction) model.UploadSummary {
	res := scoring.Score(s.key, rows)
	return model.UploadSummary{
		PredictionUpload: *upload,
		PredictionCount:  res.Total,
		CorrectCount:     res.Correct,
		Accuracy:         res.Accuracy(),
	}
}

// remember writes the final summary of a finished import through to the
// caches. Cache failures are logged and otherwise ignored.
func (s *PredictionService) remember(ctx context.Context, summary *model.UploadSummary) {
	if s.scoreCache != nil {
		if err := s.scoreCache.SetSummary(ctx, summary); err != nil {
			s.log.Warn("score cache write failed", "upload_id", summary.ID, "error", err)
		}
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.UpdateScore(ctx, summary); err != nil {
			s.log.Warn("leaderboard write failed", "upload_id", summary.ID, "error", err)
		}
	}
}

// backfill caches a summary computed on read. It never replaces an entry,
// so a read racing an import cannot overwrite the import's final score.
func (s *PredictionService) backfill(ctx context.Context, summary *model.UploadSummary) {
	if s.scoreCache != nil {
		if err := s.scoreCache.FillSummary(ctx, summary); err != nil {
			s.log.Warn("score cache write failed", "upload_id", summary.ID, "error", err)
		}
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.Backfill(ctx, summary); err != nil {
			s.log.Warn("leaderboard write failed", "upload_id", summary.ID, "error", err)
		}
	}
}

func (s *PredictionService) summary(ctx context.Context, upload *model.PredictionUpload) (model.UploadSummary, error) {
	if s.scoreCache != nil {
		cached, err := s.scoreCache.GetSummary(ctx, upload.ID)
		if err != nil {
			s.log.Warn("score cache read failed", "upload_id", upload.ID, "error", err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	preds, err := s.predictionRepo.ListByUpload(ctx, upload.ID)
	if err != nil {
		return model.UploadSummary{}, err
	}
	rows := make([]scoring.Prediction, len(preds))
	for i, p := range preds {
		rows[i] = scoring.Prediction{Index: p.QuestionIndex, Pair: scoring.Pair{A: p.SelectedA, B: p.SelectedB}}
	}
	summary := s.summarize(upload, rows)
	s.backfill(ctx, &summary)
	return summary, nil
}

// ListUploads returns every upload, newest first, with its score
func (s *PredictionService) ListUploads(ctx context.Context) ([]model.UploadSummary, error) {
	uploads, err := s.predictionRepo.ListUploads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	out := make([]model.UploadSummary, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryWorkers)
	for i, upload := range uploads {
		g.Go(func() error {
			summary, err := s.summary(gctx, upload)
			if err != nil {
				return fmt.Errorf("upload %d: %w", upload.ID, err)
			}
			out[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to score uploads: %w", err)
	}
	return out, nil
}

// Summary scores a single upload
func (s *PredictionService) Summary(ctx context.Context, uploadID int64) (*model.UploadSummary, error) {
	upload, err := s.predictionRepo.GetUpload(ctx, uploadID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("upload not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	summary, err := s.summary(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("failed to score upload: %w", err)
	}
	if summary.Rank, err = s.rank(ctx, uploadID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ForQuestion lists every upload's prediction for one practice question,
// each marked correct or not
func (s *PredictionService) ForQuestion(ctx context.Context, questionIndex int) ([]model.PredictionView, error) {
	preds, err := s.predictionRepo.ListByQuestion(ctx, questionIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	uploads, err := s.predictionRepo.ListUploads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	names := make(map[int64]string, len(uploads))
	for _, u := range uploads {
		names[u.ID] = u.Name
	}

	correct, graded := s.key.Lookup(questionIndex)
	views := make([]model.PredictionView, len(preds))
	for i, p := range preds {
		views[i] = model.PredictionView{
			Prediction: *p,
			UploadName: names[p.UploadID],
			IsCorrect:  graded && scoring.IsMatch(scoring.Pair{A: p.SelectedA, B: p.SelectedB}, correct),
		}
	}
	return views, nil
}

// Delete removes an upload and its predictions
func (s *PredictionService) Delete(ctx context.Context, uploadID int64) error {
	if uploadID <= 0 {
		return badRequest("uploadId is required")
	}
	err := s.predictionRepo.DeleteUpload(ctx, uploadID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("upload not found", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	if s.scoreCache != nil {
		if err := s.scoreCache.Invalidate(ctx, uploadID); err != nil {
			s.log.Warn("score cache invalidate failed", "upload_id", uploadID, "error", err)
		}
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.Remove(ctx, uploadID); err != nil {
			s.log.Warn("leaderboard remove failed", "upload_id", uploadID, "error", err)
		}
	}
	s.log.Info("upload deleted", "upload_id", uploadID)
	s.broadcaster.Broadcast(TopicPredictions, EventPredictionsDeleted, map[string]int64{"uploadId": uploadID})
	return nil
}

// Leaderboard ranks uploads by accuracy, then correct count, then newest
// first. The Redis ZSET is only trusted when it ranks every stored upload;
// otherwise the ranking is computed from the scored summaries, which also
// backfills the ZSET.
func (s *PredictionService) Leaderboard(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLen
	}

	names, ok, err := s.boardNames(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		entries, err := s.leaderboard.GetTop(ctx, limit)
		if err == nil {
			for i := range entries {
				entries[i].Name = names[entries[i].UploadID]
			}
			return entries, nil
		}
		s.log.Warn("leaderboard read failed", "error", err)
	}

	entries, err := s.standings(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// rank returns the 1-based leaderboard position of an upload, 0 if unranked
func (s *PredictionService) rank(ctx context.Context, uploadID int64) (int, error) {
	_, ok, err := s.boardNames(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		rank, err := s.leaderboard.GetRank(ctx, uploadID)
		if err == nil && rank > 0 {
			return int(rank), nil
		}
		if err != nil {
			s.log.Warn("leaderboard rank failed", "upload_id", uploadID, "error", err)
		}
	}

	entries, err := s.standings(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.UploadID == uploadID {
			return e.Rank, nil
		}
	}
	return 0, nil
}

// standings ranks every upload in process
func (s *PredictionService) standings(ctx context.Context) ([]cache.LeaderboardEntry, error) {
	summaries, err := s.ListUploads(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.CorrectCount != b.CorrectCount {
			return a.CorrectCount > b.CorrectCount
		}
		return a.ID > b.ID
	})
	entries := make([]cache.LeaderboardEntry, len(summaries))
	for i, sum := range summaries {
		entries[i] = cache.LeaderboardEntry{UploadID: sum.ID, Name: sum.Name, Accuracy: sum.Accuracy, Rank: i + 1}
	}
	return entries, nil
}

// boardNames reports whether the ZSET ranks exactly the stored uploads and
// returns the upload names by id. Members left behind by a delete that
// missed Redis are pruned.
func (s *PredictionService) boardNames(ctx context.Context) (map[int64]string, bool, error) {
	if s.leaderboard == nil {
		return nil, false, nil
	}
	uploads, err := s.predictionRepo.ListUploads(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list uploads: %w", err)
	}
	names := make(map[int64]string, len(uploads))
	for _, u := range uploads {
		names[u.ID] = u.Name
	}

	ids, err := s.leaderboard.Members(ctx)
	if err != nil {
		s.log.Warn("leaderboard read failed", "error", err)
		return names, false, nil
	}
	ranked := 0
	for _, id := range ids {
		if _, ok := names[id]; ok {
			ranked++
			continue
		}
		if err := s.leaderboard.Remove(ctx, id); err != nil {
			s.log.Warn("leaderboard prune failed", "upload_id", id, "error", err)
			return names, false, nil
		}
	}
	if ranked != len(uploads) {
		s.log.Debug("leaderboard incomplete, ranking in process", "ranked", ranked, "uploads", len(uploads))
		return names, false, nil
	}
	return names, true, nil
}
