package signal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"marketpulse/pkg/config"
	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/models"
	"marketpulse/pkg/storage"
)

// Output file names inside the analysis directory
const (
	DatasetFile = "trading_signals.parquet"
	ChartFile   = "sentiment_over_time.html"
	ImageFile   = "sentiment_over_time.png"
	FeedFile    = "top_signals.xml"
)

// Report describes one analysis run
type Report struct {
	Files       int
	Rows        []models.SignalRow
	Sample      []models.SignalRow
	DatasetPath string
	ChartPath   string
	ImagePath   string
	FeedPath    string
}

// Aggregator turns processed files into the signal dataset and its views
type Aggregator struct {
	cfg    *config.Config
	scorer *Scorer
	log    logger.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator
func NewAggregator(cfg *config.Config, log logger.Logger) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		scorer: NewScorer(cfg.Analysis),
		log:    log.WithField("component", "signal"),
		now:    time.Now,
	}
}

// LoadProcessed reads every processed file in dir into one slice sorted by
// timestamp. It fails with a no_data error when there is nothing to analyse.
func LoadProcessed(dir string) ([]models.CleanedPost, int, error) {
	names, err := storage.ListDataFiles(dir)
	if err != nil {
		return nil, 0, errs.Wrap(errs.ErrorTypeProcessing, "load", err)
	}
	if len(names) == 0 {
		return nil, 0, errs.New(errs.ErrorTypeNoData, "load", fmt.Sprintf("no processed data files in %s", dir))
	}

	var posts []models.CleanedPost
	for _, name := range names {
		rows, err := storage.ReadFile[models.CleanedPost](filepath.Join(dir, name))
		if err != nil {
			return nil, 0, errs.Wrap(errs.ErrorTypeProcessing, "load", fmt.Errorf("%s: %w", name, err))
		}
		posts = append(posts, rows...)
	}
	if len(posts) == 0 {
		return nil, len(names), errs.New(errs.ErrorTypeNoData, "load", "processed files contain no rows")
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.Before(posts[j].Timestamp)
	})
	return posts, len(names), nil
}

// Run loads the processed files, scores them and writes the dataset, the
// chart and the ranked feed into the analysis directory.
func (a *Aggregator) Run() (Report, error) {
	var report Report

	posts, files, err := LoadProcessed(a.cfg.Paths.ProcessedDir)
	if err != nil {
		return report, err
	}
	report.Files = files
	a.log.WithFields(map[string]interface{}{
		"posts": len(posts),
		"files": files,
	}).Info("Loaded processed data")

	report.Rows = a.scorer.Score(posts)
	report.Sample = Tail(report.Rows, a.cfg.Analysis.SampleSize)

	outDir := a.cfg.Paths.AnalysisDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create analysis directory: %w", err)
	}

	buckets := BucketMeans(report.Rows, a.cfg.Analysis.ChartBucket)
	report.ImagePath = filepath.Join(outDir, ImageFile)
	if err := RenderImage(report.ImagePath, buckets); err != nil {
		return report, err
	}
	report.ChartPath = filepath.Join(outDir, ChartFile)
	if err := RenderChart(report.ChartPath, buckets); err != nil {
		return report, err
	}

	report.DatasetPath = filepath.Join(outDir, DatasetFile)
	if err := storage.WriteFile(report.DatasetPath, report.Rows); err != nil {
		return report, fmt.Errorf("failed to write signal dataset: %w", err)
	}

	if a.cfg.Analysis.FeedSize > 0 {
		report.FeedPath = filepath.Join(outDir, FeedFile)
		if err := WriteTopFeed(report.FeedPath, report.Rows, a.cfg.Analysis.FeedSize, a.cfg.Browser.SiteURL, a.now()); err != nil {
			a.log.WithError(err).Warn("Failed to write ranked feed")
			report.FeedPath = ""
		}
	}

	a.log.WithFields(map[string]interface{}{
		"rows":    len(report.Rows),
		"dataset": report.DatasetPath,
		"chart":   report.ImagePath,
	}).Info("Analysis complete")
	return report, nil
}
