// Package signal scores cleaned posts and writes the analysis outputs.
//
// Each post gets a lexicon polarity (positive minus negative words from a
// bilingual English, Hinglish and Devanagari word list), a log-scaled
// engagement score and a VADER compound score. Polarity and engagement are
// min-max scaled across the batch and blended into a composite signal:
//
//	composite = 0.6*signal_norm + 0.4*engagement_norm
//	confidence = engagement_norm
//
// The weights come from the analysis section of the configuration. Outputs are
// the full dataset as parquet, a line chart of the hourly mean composite and
// an RSS feed of the strongest signals.
package signal
