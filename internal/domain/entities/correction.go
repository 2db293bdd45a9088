package entities

import "time"

// LearnedCorrection maps a misspelled term to its learned correction. The
// mapping for an original term is first-write-wins: a conflicting corrected
// value proposed later is ignored, only matching proposals accumulate
// confirmations. It is applied automatically during rewriting once
// Confirmations reaches the configured threshold.
type LearnedCorrection struct {
	ID              string     `json:"id" db:"id"`
	OriginalTerm    string     `json:"original_term" db:"original_term"`
	CorrectedTerm   string     `json:"corrected_term" db:"corrected_term"`
	Confirmations   int        `json:"confirmations" db:"confirmations"`
	LastConfirmedAt *time.Time `json:"last_confirmed_at,omitempty" db:"last_confirmed_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Trusted reports whether the correction has enough confirmations to be
// applied automatically.
func (c *LearnedCorrection) Trusted(threshold int) bool {
	return c.Confirmations >= threshold
}
