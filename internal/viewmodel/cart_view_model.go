package viewmodel

import (
	"context"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartViewModel 購物車畫面
// Total為衍生值, 每次商品清單變動時從當前清單重新計算, 沒有累加狀態
type CartViewModel struct {
	cartService service.ICartService
	total       *observable.Observable[decimal.Decimal]
	lastError   *observable.Observable[string]
	unsubscribe func()
	logger      *zerolog.Logger
}

func NewCartViewModel(cartService service.ICartService, logger *zerolog.Logger) *CartViewModel {
	vm := &CartViewModel{
		cartService: cartService,
		total:       observable.New(decimal.NewFromInt(0)),
		lastError:   observable.New(""),
		logger:      logger,
	}
	vm.unsubscribe = cartService.ObserveItems().Subscribe(func(items []model.CartItem) {
		vm.total.Set(model.CartTotal(items))
	})
	return vm
}

func (vm *CartViewModel) Items() *observable.Observable[[]model.CartItem] {
	return vm.cartService.ObserveItems()
}

func (vm *CartViewModel) Total() *observable.Observable[decimal.Decimal] {
	return vm.total
}

// Error 最近一次mutation的錯誤訊息, 空字串代表無錯誤
func (vm *CartViewModel) Error() *observable.Observable[string] {
	return vm.lastError
}

// UpdateQuantity 數量 <= 0 時改為移除
func (vm *CartViewModel) UpdateQuantity(ctx context.Context, item model.CartItem, quantity int) {
	if quantity <= 0 {
		vm.RemoveItem(ctx, item)
		return
	}
	if err := vm.cartService.SetQuantity(ctx, item, quantity); err != nil {
		vm.lastError.Set(service.MsgStorageError)
		return
	}
	vm.lastError.Set("")
}

func (vm *CartViewModel) RemoveItem(ctx context.Context, item model.CartItem) {
	if err := vm.cartService.RemoveItem(ctx, item); err != nil {
		vm.lastError.Set(service.MsgStorageError)
		return
	}
	vm.lastError.Set("")
}

func (vm *CartViewModel) ClearCart(ctx context.Context) {
	if err := vm.cartService.Clear(ctx); err != nil {
		vm.lastError.Set(service.MsgStorageError)
		return
	}
	vm.lastError.Set("")
}

// Close 解除對購物車清單的訂閱
func (vm *CartViewModel) Close() {
	vm.unsubscribe()
}
