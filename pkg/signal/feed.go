package signal

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"marketpulse/pkg/models"
)

// TopSignals returns up to n rows with the highest composite signal. Ties
// keep the newer row first.
func TopSignals(rows []models.SignalRow, n int) []models.SignalRow {
	ranked := make([]models.SignalRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompositeSignal != ranked[j].CompositeSignal {
			return ranked[i].CompositeSignal > ranked[j].CompositeSignal
		}
		return ranked[i].Timestamp.After(ranked[j].Timestamp)
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// BuildFeed renders rows as an RSS feed, linking each item to its post on site
func BuildFeed(rows []models.SignalRow, site string, now time.Time) (string, error) {
	site = strings.TrimRight(site, "/")
	feed := &feeds.Feed{
		Title:       "Market sentiment: top signals",
		Description: "Posts with the strongest composite trading signal",
		Link:        &feeds.Link{Href: site},
		Created:     now,
		Updated:     now,
	}

	for _, r := range rows {
		link := fmt.Sprintf("%s/%s/status/%s", site, r.Username, r.TweetID)
		body := fmt.Sprintf("%s<br/>confidence %.3f, vader %.3f, %d replies, %d reposts, %d likes",
			r.Content, r.Confidence, r.VaderCompound, r.ReplyCount, r.RetweetCount, r.LikeCount)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       fmt.Sprintf("@%s: composite %.3f, polarity %+d", r.Username, r.CompositeSignal, r.TradingSignal),
			Link:        &feeds.Link{Href: link},
			Author:      &feeds.Author{Name: r.Username},
			Description: body,
			Created:     r.Timestamp,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}
	return rss, nil
}

// WriteTopFeed writes the top n rows by composite signal to path as RSS
func WriteTopFeed(path string, rows []models.SignalRow, n int, site string, now time.Time) error {
	rss, err := BuildFeed(TopSignals(rows, n), site, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rss), 0644); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}
