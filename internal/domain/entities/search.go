package entities

import "time"

// SearchQuery is one search event as the user issued it. Rows are immutable
// once created and retained for analytics.
type SearchQuery struct {
	ID             string    `json:"id" db:"id"`
	OriginalText   string    `json:"original_text" db:"original_text"`
	NormalizedText string    `json:"normalized_text" db:"normalized_text"`
	SessionID      string    `json:"session_id,omitempty" db:"session_id"`
	UserID         string    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ShownProduct records one product shown in a search's result list.
// Positions are 1-based and dense within one search.
type ShownProduct struct {
	ID         string    `json:"id" db:"id"`
	SearchID   string    `json:"search_id" db:"search_id"`
	ProductKey string    `json:"product_key" db:"product_key"`
	Position   int       `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Selection is a click on a shown product. Clicks are events, not states:
// repeated clicks each produce a row.
type Selection struct {
	ID         string    `json:"id" db:"id"`
	SearchID   string    `json:"search_id" db:"search_id"`
	ProductKey string    `json:"product_key" db:"product_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SearchResult is the response of one search invocation. For an empty query
// SearchID is "" and no ledger rows exist.
type SearchResult struct {
	SearchID          string     `json:"search_id"`
	OriginalText      string     `json:"original_text"`
	NormalizedText    string     `json:"normalized_text"`
	CorrectionApplied bool       `json:"correction_applied"`
	Products          []*Product `json:"products"`
}
