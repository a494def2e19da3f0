package catalog

import "github.com/shopspring/decimal"

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
	Rating   Rating          `json:"rating"`
}
