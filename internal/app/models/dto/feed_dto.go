package dto

// FeedQuery holds the parsed feed listing parameters. Sort and
// category are validated against whitelists in the service.
type FeedQuery struct {
	Page     int    `form:"page"`
	Sort     string `form:"sort"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

// Feed sort orders.
const (
	FeedSortRecent        = "recent"
	FeedSortPopular       = "popular"
	FeedSortMostVoted     = "most_voted"
	FeedSortMostCommented = "most_commented"
)

// FeedResponse is one page of approved works.
type FeedResponse struct {
	Works   []*WorkResponse `json:"works"`
	Page    int             `json:"page"`
	HasMore bool            `json:"hasMore"`
}
