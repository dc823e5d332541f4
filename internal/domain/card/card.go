// Package card defines the canonical inventory record shape and the
// name normalizer that derives a card's identity from raw listing text.
package card

// Record is one inventory snapshot entry. Name is the unique key within
// a snapshot; BaseName, CardNumber and DisplayName are derived by Normalize.
type Record struct {
	Name         string  `json:"name"`
	BaseName     string  `json:"base_name,omitempty"`
	CardNumber   string  `json:"card_number,omitempty"`
	DisplayName  string  `json:"display_name,omitempty"`
	Price        float64 `json:"price"`
	Market       float64 `json:"market,omitempty"`
	Qty          int     `json:"qty"`
	Cost         float64 `json:"cost,omitempty"`
	Image        string  `json:"image,omitempty"`
	TCGURL       string  `json:"tcg_url,omitempty"`
	TCGProductID string  `json:"tcg_product_id,omitempty"`
	SetName      string  `json:"set_name,omitempty"`
}

// IsSingle reports whether the record is a numbered single card rather
// than a sealed or generic product.
func (r Record) IsSingle() bool {
	return r.CardNumber != ""
}
