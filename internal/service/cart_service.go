package service

import (
	"context"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/repository/db"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/rs/zerolog"
)

// ICartService 購物車操作
// 所有mutation的完成訊號是store的live view更新, 呼叫端不需等待回傳值即可觀察結果
type ICartService interface {
	ObserveItems() *observable.Observable[[]model.CartItem]
	ObserveCount() *observable.Observable[int64]
	AddItem(ctx context.Context, item model.CartItem) error
	SetQuantity(ctx context.Context, item model.CartItem, quantity int) error
	RemoveItem(ctx context.Context, item model.CartItem) error
	Clear(ctx context.Context) error
}

type CartService struct {
	cartRepo db.ICartRepository
	logger   *zerolog.Logger
}

func NewCartService(cartRepo db.ICartRepository, logger *zerolog.Logger) *CartService {
	return &CartService{cartRepo: cartRepo, logger: logger}
}

var _ ICartService = (*CartService)(nil)

func (s *CartService) ObserveItems() *observable.Observable[[]model.CartItem] {
	return s.cartRepo.ObserveItems()
}

// ObserveCount 購物車筆數 (distinct lines)
func (s *CartService) ObserveCount() *observable.Observable[int64] {
	return s.cartRepo.ObserveCount()
}

// AddItem 加入購物車
// 同product_id已存在時合併: 新數量 = 既有數量 + 傳入數量, 其他欄位維持既有快照
// 呼叫端需保證quantity >= 1, service不做clamp
func (s *CartService) AddItem(ctx context.Context, item model.CartItem) error {
	err := s.cartRepo.Transaction(ctx, func(repo db.ICartRepository) error {
		existing, err := repo.GetCartItemByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity += item.Quantity
			return repo.UpdateCartItem(ctx, *existing)
		}
		return repo.InsertCartItem(ctx, item)
	})
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", item.ProductID).Msg("add cart item failed")
	}
	return err
}

// SetQuantity 設定數量
// quantity <= 0 等同於RemoveItem, 數量歸零的資料不會存在於購物車
// 只作用於既有的row, 商品已被移除時回傳db.ErrCartItemNotFound, 不會重新加入
func (s *CartService) SetQuantity(ctx context.Context, item model.CartItem, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, item)
	}
	item.Quantity = quantity
	err := s.cartRepo.UpdateCartItem(ctx, item)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", item.ProductID).Msg("update cart quantity failed")
	}
	return err
}

func (s *CartService) RemoveItem(ctx context.Context, item model.CartItem) error {
	err := s.cartRepo.DeleteCartItem(ctx, item.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", item.ProductID).Msg("remove cart item failed")
	}
	return err
}

func (s *CartService) Clear(ctx context.Context) error {
	err := s.cartRepo.ClearCart(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("clear cart failed")
	}
	return err
}
