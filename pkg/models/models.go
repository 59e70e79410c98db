package models

import "time"

// Post is one feed item as collected by the crawler. It is the row schema of
// the per-hashtag raw files.
type Post struct {
	TweetID      string    `parquet:"tweet_id" json:"tweet_id"`
	Timestamp    time.Time `parquet:"timestamp" json:"timestamp"`
	Username     string    `parquet:"username" json:"username"`
	Content      string    `parquet:"content" json:"content"`
	ReplyCount   int64     `parquet:"reply_count" json:"reply_count"`
	RetweetCount int64     `parquet:"retweet_count" json:"retweet_count"`
	LikeCount    int64     `parquet:"like_count" json:"like_count"`
	Mentions     []string  `parquet:"mentions,list" json:"mentions"`
	Hashtags     []string  `parquet:"hashtags,list" json:"hashtags"`
}

// Engagement is the sum of the three interaction counters
func (p Post) Engagement() int64 {
	return p.ReplyCount + p.RetweetCount + p.LikeCount
}

// CleanedPost is a Post plus its normalized text; the processed file schema
type CleanedPost struct {
	TweetID        string    `parquet:"tweet_id" json:"tweet_id"`
	Timestamp      time.Time `parquet:"timestamp" json:"timestamp"`
	Username       string    `parquet:"username" json:"username"`
	Content        string    `parquet:"content" json:"content"`
	CleanedContent string    `parquet:"cleaned_content" json:"cleaned_content"`
	ReplyCount     int64     `parquet:"reply_count" json:"reply_count"`
	RetweetCount   int64     `parquet:"retweet_count" json:"retweet_count"`
	LikeCount      int64     `parquet:"like_count" json:"like_count"`
	Mentions       []string  `parquet:"mentions,list" json:"mentions"`
	Hashtags       []string  `parquet:"hashtags,list" json:"hashtags"`
}

// NewCleanedPost attaches cleaned text to a raw post
func NewCleanedPost(p Post, cleaned string) CleanedPost {
	return CleanedPost{
		TweetID:        p.TweetID,
		Timestamp:      p.Timestamp,
		Username:       p.Username,
		Content:        p.Content,
		CleanedContent: cleaned,
		ReplyCount:     p.ReplyCount,
		RetweetCount:   p.RetweetCount,
		LikeCount:      p.LikeCount,
		Mentions:       p.Mentions,
		Hashtags:       p.Hashtags,
	}
}

// SignalRow is a CleanedPost with every derived score of the analysis stage
type SignalRow struct {
	TweetID         string    `parquet:"tweet_id" json:"tweet_id"`
	Timestamp       time.Time `parquet:"timestamp" json:"timestamp"`
	Username        string    `parquet:"username" json:"username"`
	Content         string    `parquet:"content" json:"content"`
	CleanedContent  string    `parquet:"cleaned_content" json:"cleaned_content"`
	ReplyCount      int64     `parquet:"reply_count" json:"reply_count"`
	RetweetCount    int64     `parquet:"retweet_count" json:"retweet_count"`
	LikeCount       int64     `parquet:"like_count" json:"like_count"`
	Mentions        []string  `parquet:"mentions,list" json:"mentions"`
	Hashtags        []string  `parquet:"hashtags,list" json:"hashtags"`
	TradingSignal   int64     `parquet:"trading_signal" json:"trading_signal"`
	EngagementScore float64   `parquet:"engagement_score" json:"engagement_score"`
	SignalNorm      float64   `parquet:"signal_norm" json:"signal_norm"`
	EngagementNorm  float64   `parquet:"engagement_norm" json:"engagement_norm"`
	CompositeSignal float64   `parquet:"composite_signal" json:"composite_signal"`
	Confidence      float64   `parquet:"confidence" json:"confidence"`
	VaderCompound   float64   `parquet:"vader_compound" json:"vader_compound"`
}

// NewSignalRow copies the cleaned columns of p; scores are filled by the caller
func NewSignalRow(p CleanedPost) SignalRow {
	return SignalRow{
		TweetID:        p.TweetID,
		Timestamp:      p.Timestamp,
		Username:       p.Username,
		Content:        p.Content,
		CleanedContent: p.CleanedContent,
		ReplyCount:     p.ReplyCount,
		RetweetCount:   p.RetweetCount,
		LikeCount:      p.LikeCount,
		Mentions:       p.Mentions,
		Hashtags:       p.Hashtags,
	}
}
