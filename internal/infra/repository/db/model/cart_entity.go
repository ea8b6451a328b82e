package model

import (
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/shopspring/decimal"
)

// CartEntity 購物車資料表
// product_id 為主鍵, 同一商品只會有一筆資料
type CartEntity struct {
	ProductID int             `gorm:"primaryKey;column:product_id"`
	Title     string          `gorm:"not null;type:varchar(255)"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Image     string          `gorm:"type:text"`
	Quantity  int             `gorm:"not null;type:int"`
}

func (CartEntity) TableName() string {
	return "cart_items"
}

func (e CartEntity) ToCartItem() model.CartItem {
	return model.CartItem{
		ProductID: e.ProductID,
		Title:     e.Title,
		Price:     e.Price,
		Image:     e.Image,
		Quantity:  e.Quantity,
	}
}

func FromCartItem(item model.CartItem) CartEntity {
	return CartEntity{
		ProductID: item.ProductID,
		Title:     item.Title,
		Price:     item.Price,
		Image:     item.Image,
		Quantity:  item.Quantity,
	}
}
