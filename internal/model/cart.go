package model

import (
	"github.com/shopspring/decimal"
)

// CartItem 購物車內的一筆商品
// ProductID 為主鍵, Price為加入購物車當下的快照價格
// Quantity 恆 >= 1, 數量歸零時該筆資料會被刪除而不是保存
type CartItem struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Subtotal = Price * Quantity
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartTotal 計算購物車總金額, 空購物車回傳0
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.NewFromInt(0)
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalQuantity 所有商品數量加總
// 導航列的badge使用distinct line數量(store count), 不是這個值
func TotalQuantity(items []CartItem) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
