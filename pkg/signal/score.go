package signal

import (
	"math"
	"sort"

	"github.com/jonreiter/govader"

	"marketpulse/pkg/config"
	"marketpulse/pkg/models"
)

// Scorer derives the per-row signal columns
type Scorer struct {
	signalWeight     float64
	engagementWeight float64
	vader            *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a Scorer with the composite weights from cfg
func NewScorer(cfg config.AnalysisConfig) *Scorer {
	return &Scorer{
		signalWeight:     cfg.SignalWeight,
		engagementWeight: cfg.EngagementWeight,
		vader:            govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score computes polarity, engagement and the normalized composite for every
// post. Normalization is fit across the whole batch, so the result depends
// only on the input set. Rows come back sorted by timestamp.
func (s *Scorer) Score(posts []models.CleanedPost) []models.SignalRow {
	rows := make([]models.SignalRow, len(posts))
	signals := make([]float64, len(posts))
	engagement := make([]float64, len(posts))

	for i, p := range posts {
		row := models.NewSignalRow(p)
		row.TradingSignal = int64(Polarity(p.CleanedContent))
		row.EngagementScore = math.Log1p(float64(p.ReplyCount + p.RetweetCount + p.LikeCount))
		row.VaderCompound = s.vader.PolarityScores(p.Content).Compound
		rows[i] = row
		signals[i] = float64(row.TradingSignal)
		engagement[i] = row.EngagementScore
	}

	signalNorm := minMax(signals)
	engagementNorm := minMax(engagement)
	for i := range rows {
		rows[i].SignalNorm = signalNorm[i]
		rows[i].EngagementNorm = engagementNorm[i]
		rows[i].CompositeSignal = s.signalWeight*signalNorm[i] + s.engagementWeight*engagementNorm[i]
		rows[i].Confidence = engagementNorm[i]
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows
}

// minMax rescales values to [0, 1]. A constant column maps to 0.
func minMax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

// Tail returns the last n rows
func Tail(rows []models.SignalRow, n int) []models.SignalRow {
	if n <= 0 {
		return nil
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[len(rows)-n:]
}
