package signal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/pkg/config"
	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/models"
	"marketpulse/pkg/storage"
)

var base = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func post(id string, at time.Duration, cleaned string, replies, reposts, likes int64) models.CleanedPost {
	return models.CleanedPost{
		TweetID:        id,
		Timestamp:      base.Add(at),
		Username:       "user" + id,
		Content:        cleaned,
		CleanedContent: cleaned,
		ReplyCount:     replies,
		RetweetCount:   reposts,
		LikeCount:      likes,
		Mentions:       []string{},
		Hashtags:       []string{},
	}
}

func TestPolarity(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"bullish on nifty50 thinks it will rally", 2},
		{"crash sell panic", -3},
		{"buy the dip", 0},
		{"upside is not up", 1},
		{"bazaar mein teji aur munafa", 2},
		{"बाजार में मंदी गिरावट", -2},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Polarity(tt.text))
		})
	}
}

func TestScoreComposite(t *testing.T) {
	s := NewScorer(config.DefaultConfig().Analysis)
	rows := s.Score([]models.CleanedPost{
		post("2", 2*time.Minute, "crash sell", 1, 1, 7),
		post("1", time.Minute, "bullish rally buy", 0, 0, 0),
		post("3", 3*time.Minute, "nothing here", 0, 0, 0),
	})
	require.Len(t, rows, 3)

	// sorted by timestamp
	assert.Equal(t, []string{"1", "2", "3"}, []string{rows[0].TweetID, rows[1].TweetID, rows[2].TweetID})

	assert.Equal(t, int64(3), rows[0].TradingSignal)
	assert.Equal(t, int64(-2), rows[1].TradingSignal)
	assert.InDelta(t, 2.302585, rows[1].EngagementScore, 1e-6)

	assert.InDelta(t, 1.0, rows[0].SignalNorm, 1e-9)
	assert.InDelta(t, 0.0, rows[1].SignalNorm, 1e-9)
	assert.InDelta(t, 0.4, rows[2].SignalNorm, 1e-9)

	assert.InDelta(t, 0.6, rows[0].CompositeSignal, 1e-9)
	assert.InDelta(t, 0.4, rows[1].CompositeSignal, 1e-9)
	assert.InDelta(t, 0.24, rows[2].CompositeSignal, 1e-9)

	for _, r := range rows {
		assert.Equal(t, r.EngagementNorm, r.Confidence)
		assert.GreaterOrEqual(t, r.CompositeSignal, 0.0)
		assert.LessOrEqual(t, r.CompositeSignal, 1.0)
	}
}

func TestScoreConstantColumnsMapToZero(t *testing.T) {
	s := NewScorer(config.DefaultConfig().Analysis)
	rows := s.Score([]models.CleanedPost{
		post("1", 0, "rally", 2, 0, 0),
		post("2", time.Minute, "rally", 0, 2, 0),
	})
	for _, r := range rows {
		assert.Zero(t, r.SignalNorm)
		assert.Zero(t, r.EngagementNorm)
		assert.Zero(t, r.CompositeSignal)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewScorer(config.DefaultConfig().Analysis)
	in := []models.CleanedPost{
		post("1", 0, "bull run strong growth", 3, 4, 10),
		post("2", time.Hour, "weak market sell", 0, 1, 2),
	}
	assert.Equal(t, s.Score(in), s.Score(in))
}

func TestScoreVaderCompound(t *testing.T) {
	s := NewScorer(config.DefaultConfig().Analysis)
	p := post("1", 0, "", 0, 0, 0)
	p.Content = "Great gains today, I love this market!"
	rows := s.Score([]models.CleanedPost{p})
	assert.Greater(t, rows[0].VaderCompound, 0.0)
}

func TestTail(t *testing.T) {
	rows := make([]models.SignalRow, 7)
	for i := range rows {
		rows[i].TweetID = string(rune('a' + i))
	}
	tail := Tail(rows, 5)
	require.Len(t, tail, 5)
	assert.Equal(t, "c", tail[0].TweetID)
	assert.Len(t, Tail(rows[:2], 5), 2)
	assert.Empty(t, Tail(rows, 0))
}

func TestBucketMeans(t *testing.T) {
	rows := []models.SignalRow{
		{Timestamp: base.Add(10 * time.Minute), CompositeSignal: 0.2},
		{Timestamp: base.Add(50 * time.Minute), CompositeSignal: 0.6},
		{Timestamp: base.Add(2*time.Hour + 5*time.Minute), CompositeSignal: 0.9},
	}
	buckets := BucketMeans(rows, time.Hour)
	require.Len(t, buckets, 3)

	assert.True(t, buckets[0].Start.Equal(base))
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 0.4, buckets[0].Mean, 1e-9)

	assert.Zero(t, buckets[1].Count)
	assert.True(t, buckets[1].Start.Equal(base.Add(time.Hour)))

	assert.Equal(t, 1, buckets[2].Count)
	assert.InDelta(t, 0.9, buckets[2].Mean, 1e-9)

	assert.Nil(t, BucketMeans(nil, time.Hour))
}

func TestRenderChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), ChartFile)
	buckets := []Bucket{
		{Start: base, Count: 2, Mean: 0.4},
		{Start: base.Add(time.Hour)},
	}
	require.NoError(t, RenderChart(path, buckets))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Hourly Average Market Sentiment Signal")
	assert.Contains(t, string(html), "2024-05-10 10:00")
}

func TestRenderImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ImageFile)
	buckets := []Bucket{
		{Start: base, Count: 2, Mean: 0.4},
		{Start: base.Add(time.Hour)},
		{Start: base.Add(2 * time.Hour), Count: 1, Mean: 0.9},
		{Start: base.Add(3 * time.Hour), Count: 3, Mean: 0.6},
	}
	require.NoError(t, RenderImage(path, buckets))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "not a png")
}

func TestContiguousRuns(t *testing.T) {
	buckets := []Bucket{
		{Start: base, Count: 2, Mean: 0.4},
		{Start: base.Add(time.Hour)},
		{Start: base.Add(2 * time.Hour), Count: 1, Mean: 0.9},
		{Start: base.Add(3 * time.Hour), Count: 3, Mean: 0.6},
		{Start: base.Add(4 * time.Hour)},
	}

	runs := contiguousRuns(buckets)

	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 1)
	assert.Len(t, runs[1], 2)
	assert.Equal(t, float64(base.Add(2*time.Hour).Unix()), runs[1][0].X)
	assert.Equal(t, 0.6, runs[1][1].Y)
	assert.Empty(t, contiguousRuns([]Bucket{{Start: base}}))
}

func TestTopSignalsAndFeed(t *testing.T) {
	rows := []models.SignalRow{
		{TweetID: "1", Username: "a", Timestamp: base, CompositeSignal: 0.2, Content: "meh"},
		{TweetID: "2", Username: "b", Timestamp: base.Add(time.Minute), CompositeSignal: 0.9, Content: "rally"},
		{TweetID: "3", Username: "c", Timestamp: base.Add(2 * time.Minute), CompositeSignal: 0.5, Content: "buy"},
	}

	top := TopSignals(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "2", top[0].TweetID)
	assert.Equal(t, "3", top[1].TweetID)
	assert.Equal(t, "1", rows[0].TweetID, "input order is untouched")

	rss, err := BuildFeed(top, "https://twitter.com/", base)
	require.NoError(t, err)
	assert.Contains(t, rss, "<rss")
	assert.Contains(t, rss, "https://twitter.com/b/status/2")
	assert.Less(t, strings.Index(rss, "/b/status/2"), strings.Index(rss, "/c/status/3"))
	assert.NotContains(t, rss, "/a/status/1")
}

func newAggregator(t *testing.T) (*Aggregator, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	root := t.TempDir()
	cfg.Paths.ProcessedDir = filepath.Join(root, "processed")
	cfg.Paths.AnalysisDir = filepath.Join(root, "analysis")
	cfg.Analysis.SampleSize = 2
	a := NewAggregator(cfg, logger.NewTestLogger())
	a.now = func() time.Time { return base }
	return a, cfg
}

func TestAggregatorRun(t *testing.T) {
	a, cfg := newAggregator(t)
	require.NoError(t, os.MkdirAll(cfg.Paths.ProcessedDir, 0755))
	require.NoError(t, storage.WriteFile(filepath.Join(cfg.Paths.ProcessedDir, "nifty50_tweets.parquet"), []models.CleanedPost{
		post("1", 3*time.Hour, "bullish rally", 1, 2, 3),
		post("2", 0, "crash", 0, 0, 1),
	}))
	require.NoError(t, storage.WriteFile(filepath.Join(cfg.Paths.ProcessedDir, "sensex_tweets.parquet"), []models.CleanedPost{
		post("3", time.Hour, "sideways", 0, 0, 0),
	}))

	report, err := a.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "2", report.Rows[0].TweetID)
	require.Len(t, report.Sample, 2)
	assert.Equal(t, "1", report.Sample[1].TweetID)

	for _, p := range []string{report.DatasetPath, report.ChartPath, report.ImagePath, report.FeedPath} {
		assert.FileExists(t, p)
	}

	saved, err := storage.ReadFile[models.SignalRow](report.DatasetPath)
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, report.Rows[2].CompositeSignal, saved[2].CompositeSignal)
	assert.Equal(t, "bullish rally", saved[2].CleanedContent)
}

func TestAggregatorRunWithoutData(t *testing.T) {
	a, cfg := newAggregator(t)

	_, err := a.Run()
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNoData))

	_, statErr := os.Stat(cfg.Paths.AnalysisDir)
	assert.True(t, os.IsNotExist(statErr), "no outputs for an empty run")
}

func TestLoadProcessedEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, storage.WriteFile(filepath.Join(dir, "x_tweets.parquet"), []models.CleanedPost{}))

	_, files, err := LoadProcessed(dir)
	assert.Equal(t, 1, files)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNoData))
}
