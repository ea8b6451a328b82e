package db

import (
	"context"
	"errors"

	dbmodel "github.com/MiguelMialdeaDev/ShopFlow/internal/infra/repository/db/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCartItemNotFound 更新的購物車商品不存在
var ErrCartItemNotFound = errors.New("cart item not found")

// ICartRepository 購物車row store
// 所有mutation完成後會更新live view (items, count)
type ICartRepository interface {
	GetAllCartItems(ctx context.Context) ([]model.CartItem, error)
	GetCartItemByID(ctx context.Context, productID int) (*model.CartItem, error)
	InsertCartItem(ctx context.Context, item model.CartItem) error
	UpdateCartItem(ctx context.Context, item model.CartItem) error
	DeleteCartItem(ctx context.Context, productID int) error
	ClearCart(ctx context.Context) error
	GetCartCount(ctx context.Context) (int64, error)
	Transaction(ctx context.Context, fn func(repo ICartRepository) error) error
	ObserveItems() *observable.Observable[[]model.CartItem]
	ObserveCount() *observable.Observable[int64]
}

type CartRepo struct {
	dao   *DbDao
	items *observable.Observable[[]model.CartItem]
	count *observable.Observable[int64]
	inTx  bool
}

func NewCartRepo(dao *DbDao) *CartRepo {
	return &CartRepo{
		dao:   dao,
		items: observable.New([]model.CartItem{}),
		count: observable.New(int64(0)),
	}
}

var _ ICartRepository = (*CartRepo)(nil)

// Read - 查詢所有購物車商品, 依product_id排序維持顯示順序穩定
func (s *CartRepo) GetAllCartItems(ctx context.Context) ([]model.CartItem, error) {
	var entities []dbmodel.CartEntity
	err := s.dao.WithContext(ctx).Order("product_id").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(entities))
	for _, e := range entities {
		items = append(items, e.ToCartItem())
	}
	return items, nil
}

// Read - 根據商品ID查詢, 不存在時回傳nil
func (s *CartRepo) GetCartItemByID(ctx context.Context, productID int) (*model.CartItem, error) {
	var entity dbmodel.CartEntity
	err := s.dao.WithContext(ctx).First(&entity, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item := entity.ToCartItem()
	return &item, nil
}

// Create - 新增購物車商品, 同product_id已存在時覆蓋
func (s *CartRepo) InsertCartItem(ctx context.Context, item model.CartItem) error {
	entity := dbmodel.FromCartItem(item)
	err := s.dao.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entity).Error
	if err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Update - 更新既有購物車商品
// 只更新已存在的row, 不存在時回傳ErrCartItemNotFound, 不會新增
func (s *CartRepo) UpdateCartItem(ctx context.Context, item model.CartItem) error {
	entity := dbmodel.FromCartItem(item)
	result := s.dao.WithContext(ctx).Model(&dbmodel.CartEntity{}).
		Where("product_id = ?", entity.ProductID).
		Select("*").
		Updates(&entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return s.refresh(ctx)
}

// Delete - 刪除購物車商品
func (s *CartRepo) DeleteCartItem(ctx context.Context, productID int) error {
	err := s.dao.WithContext(ctx).Delete(&dbmodel.CartEntity{}, "product_id = ?", productID).Error
	if err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Delete - 清空購物車
func (s *CartRepo) ClearCart(ctx context.Context) error {
	err := s.dao.WithContext(ctx).Where("1 = 1").Delete(&dbmodel.CartEntity{}).Error
	if err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Read - 購物車商品筆數 (distinct lines, 非數量加總)
func (s *CartRepo) GetCartCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.dao.WithContext(ctx).Model(&dbmodel.CartEntity{}).Count(&count).Error
	return count, err
}

// Transaction 在單一交易內執行fn, fn收到tx範圍的repo
// commit成功後才更新live view, 確保單一操作的原子性
func (s *CartRepo) Transaction(ctx context.Context, fn func(repo ICartRepository) error) error {
	err := s.dao.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &CartRepo{
			dao:   NewDbDao(tx),
			items: s.items,
			count: s.count,
			inTx:  true,
		}
		return fn(txRepo)
	})
	if err != nil {
		return err
	}
	return s.refresh(ctx)
}

func (s *CartRepo) ObserveItems() *observable.Observable[[]model.CartItem] {
	return s.items
}

func (s *CartRepo) ObserveCount() *observable.Observable[int64] {
	return s.count
}

// refresh 重新讀取當前狀態並通知訂閱者
// 交易內不更新, 由外層Transaction在commit後統一更新
func (s *CartRepo) refresh(ctx context.Context) error {
	if s.inTx {
		return nil
	}
	items, err := s.GetAllCartItems(ctx)
	if err != nil {
		return err
	}
	count, err := s.GetCartCount(ctx)
	if err != nil {
		return err
	}
	s.items.Set(items)
	s.count.Set(count)
	return nil
}
