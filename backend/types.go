package backend

// Session is the credential pair obtained from the authorization-code
// exchange. It lives in memory only and is never written to disk.
type Session struct {
	AccessToken string `json:"accessToken"`
	BusinessID  string `json:"igBusinessId"`
}

// Valid reports whether the session carries both credentials.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.BusinessID != ""
}

// MetricValue is a single data point inside a metric record.
type MetricValue struct {
	Value float64 `json:"value"`
}

// MetricRecord is one named engagement statistic for a post.
type MetricRecord struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Values      []MetricValue `json:"values"`
}

// PostMetrics is the ordered metric list the backend computes for a post.
// The shape is passed through as-is; missing records read as zero.
type PostMetrics struct {
	Data []MetricRecord `json:"data"`
}

// Metric names the backend is known to return.
const (
	MetricLikes         = "likes"
	MetricComments      = "comments"
	MetricTotalPlays    = "ig_reels_aggregated_all_plays_count"
	MetricInitialPlays  = "plays"
	MetricTotalViewTime = "ig_reels_video_view_total_time"
)

// Value returns the first value of the named metric, or 0 if the metric
// is absent or has no data points.
func (p *PostMetrics) Value(name string) float64 {
	if p == nil {
		return 0
	}
	for _, rec := range p.Data {
		if rec.Name == name {
			if len(rec.Values) == 0 {
				return 0
			}
			return rec.Values[0].Value
		}
	}
	return 0
}

// Description returns the named metric's description, or "" if absent.
func (p *PostMetrics) Description(name string) string {
	if p == nil {
		return ""
	}
	for _, rec := range p.Data {
		if rec.Name == name {
			return rec.Description
		}
	}
	return ""
}

// Account is the public profile portion of a search result.
type Account struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicURL  string `json:"profile_picture_url"`
	FollowersCount int    `json:"followers_count"`
	MediaCount     int    `json:"media_count"`
}

// Media is one recent post of a searched account.
type Media struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	Caption       string `json:"caption"`
	Permalink     string `json:"permalink"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

// AccountSearchResult is the profile plus recent media list for a
// public account.
type AccountSearchResult struct {
	User  Account `json:"user"`
	Media []Media `json:"media"`
}
