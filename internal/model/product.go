package model

import (
	"github.com/shopspring/decimal"
)

// Product 商品資料 來自遠端catalog API, 取得後不會修改
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

type Rating struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}
