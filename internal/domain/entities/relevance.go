package entities

import "time"

// TermProductRelevance counts the clicks observed for a (normalized search
// phrase, product) pair. The term is the entire folded rewritten phrase, not
// a single token.
type TermProductRelevance struct {
	ID             string     `json:"id" db:"id"`
	NormalizedTerm string     `json:"normalized_term" db:"normalized_term"`
	ProductKey     string     `json:"product_key" db:"product_key"`
	TimesSelected  int        `json:"times_selected" db:"times_selected"`
	LastSelectedAt *time.Time `json:"last_selected_at,omitempty" db:"last_selected_at"`
}
