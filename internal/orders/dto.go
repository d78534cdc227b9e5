package orders

// Line is one enriched product within a placed order.
type Line struct {
	MenuID    int     `json:"id_menu"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"harga"`
	Subtotal  float64 `json:"subtotal"`
	Name      string  `json:"nama_makanan"`
	PhotoURL  string  `json:"foto_url,omitempty"`
}

// Order is one placed order as displayed to a user. Total is always
// recomputed from line subtotals; the raw order-level total is ignored.
type Order struct {
	OrderID      int     `json:"id_order"`
	Status       string  `json:"status"`
	Bucket       Bucket  `json:"status_bucket"`
	CreatedAt    string  `json:"created_at,omitempty"`
	Lines        []Line  `json:"detail_trans"`
	Total        float64 `json:"total"`
	Qty          int     `json:"jumlah"`
	VendorName   string  `json:"nama_stan"`
	ThumbnailURL string  `json:"foto_url,omitempty"`
}
