package extract

// Feed DOM selectors. The target site changes its markup often; when
// extraction starts failing across the board, these are the first suspects.
const (
	FeedItem = `article[data-testid="tweet"]`

	PermalinkMarker = "/status/"
	AuthorName      = `div[data-testid="User-Name"] span`
	Timestamp       = `time`
	TimestampAttr   = "datetime"
	BodyText        = `div[data-testid="tweetText"]`

	ReplyCounter   = `[data-testid="reply"]`
	RetweetCounter = `[data-testid="retweet"]`
	LikeCounter    = `[data-testid="like"]`

	LatestTab = "Latest"
)
