package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/trajectory-features/internal/analysis"
	"github.com/jengzang/trajectory-features/internal/config"
	"github.com/jengzang/trajectory-features/internal/metadata"
	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/output"
	"github.com/jengzang/trajectory-features/internal/repository"
	"github.com/jengzang/trajectory-features/internal/trajectory"
	"github.com/jengzang/trajectory-features/pkg/logger"
)

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Flights    int // flights in the metadata tables
	Files      int
	Rows       int
	OutputPath string
}

// PreprocessService runs the trajectory feature job end to end.
type PreprocessService struct {
	cfg      *config.Config
	reader   *trajectory.Reader
	analyzer *analysis.FileAnalyzer
	runs     *repository.RunRepository
	features *repository.FeatureRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewPreprocessService creates the service. runs and features may both be
// nil, in which case nothing is persisted besides the output file.
func NewPreprocessService(
	cfg *config.Config,
	runs *repository.RunRepository,
	features *repository.FeatureRepository,
	log *logger.Logger,
) *PreprocessService {
	return &PreprocessService{
		cfg:      cfg,
		reader:   trajectory.NewReader(log),
		analyzer: analysis.NewFileAnalyzer(analysis.ThresholdsFromConfig(cfg.Features), log),
		runs:     runs,
		features: features,
		log:      log.Named("preprocess"),
		now:      time.Now,
	}
}

func (s *PreprocessService) persisting() bool {
	return s.runs != nil && s.features != nil
}

// Run loads the metadata, processes every trajectory file in turn and
// writes the combined table once at the end. Any failure aborts the run
// and leaves no output file.
func (s *PreprocessService) Run(ctx context.Context) (*Summary, error) {
	index, err := metadata.Load(s.cfg.ChallengePath(), s.cfg.SubmissionPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load flight metadata: %w", err)
	}
	s.log.Info("metadata loaded", logger.Int("flights", index.Len()))

	files, err := trajectory.ListFiles(s.cfg.SourceFolder, s.cfg.TrajectoryExtension)
	if err != nil {
		return nil, err
	}
	s.log.Info("trajectory files found", logger.Int("files", len(files)))

	summary := &Summary{
		RunID:      uuid.NewString(),
		Flights:    index.Len(),
		Files:      len(files),
		OutputPath: s.cfg.OutputPath(),
	}

	if s.persisting() {
		params, err := json.Marshal(s.cfg.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to encode feature parameters: %w", err)
		}
		run := models.Run{
			ID:           summary.RunID,
			SourceFolder: s.cfg.SourceFolder,
			FilesTotal:   len(files),
			ParamsJSON:   string(params),
			StartedAt:    s.now(),
		}
		if err := s.runs.Create(ctx, run); err != nil {
			return nil, err
		}
	}

	rows, err := s.execute(ctx, summary.RunID, files, index)
	if err != nil {
		s.markFailed(summary.RunID, err)
		return nil, err
	}
	summary.Rows = rows

	if s.persisting() {
		if err := s.runs.MarkCompleted(ctx, summary.RunID, s.now()); err != nil {
			return nil, err
		}
	}

	s.log.Info("run completed",
		logger.String("run_id", summary.RunID),
		logger.Int("files", summary.Files),
		logger.Int("rows", summary.Rows),
		logger.String("output", summary.OutputPath))
	return summary, nil
}

func (s *PreprocessService) execute(ctx context.Context, runID string, files []string, index *models.FlightIndex) (int, error) {
	results := make([]models.FileResult, 0, len(files))
	rows := 0
	for i, path := range files {
		res, err := s.processFile(ctx, path, index)
		if err != nil {
			return 0, err
		}
		results = append(results, res)
		rows += len(res.Records)

		if s.persisting() {
			if err := s.features.InsertResult(ctx, runID, res); err != nil {
				return 0, err
			}
			if err := s.runs.UpdateProgress(ctx, runID, i+1, rows); err != nil {
				return 0, err
			}
		}
	}

	written, err := output.WriteFile(s.cfg.OutputPath(), results)
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (s *PreprocessService) processFile(ctx context.Context, path string, index *models.FlightIndex) (models.FileResult, error) {
	name := filepath.Base(path)
	log := s.log.With(logger.String("file", name))

	log.Info("read START")
	points, stats, err := s.reader.ReadFile(ctx, path, index)
	if err != nil {
		return models.FileResult{}, err
	}
	log.Info("read END",
		logger.Int("row_groups_read", stats.RowGroupsRead),
		logger.Int("row_groups", stats.RowGroups),
		logger.Int("points", stats.RowsKept))

	res, err := s.analyzer.Analyze(ctx, path, points)
	if err != nil {
		return models.FileResult{}, fmt.Errorf("failed to analyze %s: %w", name, err)
	}
	log.Info("features computed", logger.Int("flights", len(res.Records)))
	return res, nil
}

// markFailed records the failure even when ctx has been cancelled.
func (s *PreprocessService) markFailed(runID string, cause error) {
	if !s.persisting() {
		return
	}
	if err := s.runs.MarkFailed(context.Background(), runID, cause.Error(), s.now()); err != nil {
		s.log.Warn("failed to record run failure", logger.Error(err))
	}
}
