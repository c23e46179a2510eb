package models

// Search modes
const (
	SearchModeUsers = "users"
	SearchModePosts = "posts"
	SearchModePolls = "polls"
	SearchModeAll   = "all"
)

// SearchResult is one hit in the heterogeneous search response. Results are
// ordered users, then posts, then polls; there is no cross-type ranking.
type SearchResult struct {
	Type string      `json:"type"` // "user", "post" or "poll"
	Data interface{} `json:"data"`
}
