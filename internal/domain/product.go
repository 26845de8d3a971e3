package domain

// Product is one catalog row with its reviews split into an ordered list
type Product struct {
	Name         string   `json:"name"`
	AmazonPrice  float64  `json:"amazonPrice"`
	EbayPrice    float64  `json:"ebayPrice"`
	WalmartPrice float64  `json:"walmartPrice"`
	Reviews      []string `json:"reviews"`
}

// HasName reports whether the record carries a searchable name
func (p Product) HasName() bool {
	return p.Name != ""
}
