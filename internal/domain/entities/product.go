package entities

// Product is the summary of a catalog product as returned by a search. The
// catalog itself belongs to the sync service; this subsystem references
// products only by their stable key.
type Product struct {
	Key              string   `json:"key" db:"key"`
	ManufacturerCode string   `json:"manufacturer_code" db:"manufacturer_code"`
	Description      string   `json:"description" db:"description"`
	Group            string   `json:"group" db:"group_name"`
	Subgroup         string   `json:"subgroup,omitempty" db:"subgroup"`
	Brand            string   `json:"brand" db:"brand"`
	Price            float64  `json:"price" db:"price"`
	Currency         string   `json:"currency" db:"currency"`
	Image            string   `json:"image" db:"image"`
	Images           []string `json:"images" db:"images"`
	Available        int      `json:"available" db:"available"`
	AvailableCD      int      `json:"available_cd" db:"available_cd"`
	Warranty         string   `json:"warranty" db:"warranty"`
	Source           string   `json:"source" db:"-"`
}
