package cart

import "encoding/json"

// Line is one product the student intends to order. At most one line exists
// per menu id; adding the same id again merges into the existing line.
type Line struct {
	MenuID     int             `json:"id_menu"`
	Name       string          `json:"nama_makanan"`
	UnitPrice  float64         `json:"harga"`
	Qty        int             `json:"qty"`
	PhotoURL   string          `json:"foto_url,omitempty"`
	VendorName string          `json:"nama_stan,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// Subtotal returns the line's price contribution.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Qty)
}
