package models

// Category classifies an instrument for risk-proxy purposes
type Category string

// Instrument categories
const (
	CategoryLargeCap Category = "large_cap"
	CategoryMidCap   Category = "mid_cap"
	CategorySmallCap Category = "small_cap"
	CategorySectoral Category = "sectoral"
	CategoryHybrid   Category = "hybrid"
	CategoryDebt     Category = "debt"
)

// Instrument represents a fund or index whose per-unit price history is known
type Instrument struct {
	ID       string   `db:"id" json:"id" validate:"required"`
	Name     string   `db:"name" json:"name"`
	Category Category `db:"category" json:"category" validate:"omitempty,oneof=large_cap mid_cap small_cap sectoral hybrid debt"`
}

// IsValid reports whether the category is one of the known classifications
func (c Category) IsValid() bool {
	switch c {
	case CategoryLargeCap, CategoryMidCap, CategorySmallCap, CategorySectoral, CategoryHybrid, CategoryDebt:
		return true
	}
	return false
}
