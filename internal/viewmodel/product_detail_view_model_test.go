package viewmodel

import (
	"context"
	"testing"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newDetailFixture(t *testing.T, stub *stubProductService) (*ProductDetailViewModel, service.ICartService) {
	t.Helper()
	logger := zerolog.Nop()
	cartService := newTestCartService(t)
	vm := NewProductDetailViewModel(stub, cartService, &logger)
	t.Cleanup(vm.Close)
	return vm, cartService
}

func TestDetailLoadSuccess(t *testing.T) {
	stub := newStubProductService()
	stub.product = testProduct(7, "Backpack", "fits laptops", "men's clothing", 109.95)
	vm, _ := newDetailFixture(t, stub)

	vm.Load(7)

	require.Eventually(t, func() bool {
		s := vm.UIState().Get()
		return s.Product != nil && !s.IsLoading
	}, time.Second, time.Millisecond)

	s := vm.UIState().Get()
	require.Equal(t, 7, s.Product.ID)
	require.Equal(t, "Backpack", s.Product.Title)
	require.Empty(t, s.Error)
	require.Equal(t, 1, s.Quantity)
}

func TestDetailLoadError(t *testing.T) {
	stub := newStubProductService()
	stub.productErr = service.MsgConnectionError
	vm, _ := newDetailFixture(t, stub)

	vm.Load(7)

	require.Eventually(t, func() bool {
		return vm.UIState().Get().Error == service.MsgConnectionError
	}, time.Second, time.Millisecond)
	require.False(t, vm.UIState().Get().IsLoading)
	require.Nil(t, vm.UIState().Get().Product)
}

func TestDetailQuantityStepper(t *testing.T) {
	vm, _ := newDetailFixture(t, newStubProductService())

	vm.IncrementQuantity()
	vm.IncrementQuantity()
	require.Equal(t, 3, vm.UIState().Get().Quantity)

	vm.DecrementQuantity()
	require.Equal(t, 2, vm.UIState().Get().Quantity)

	// 下限為1, 不會減到0
	vm.DecrementQuantity()
	vm.DecrementQuantity()
	vm.DecrementQuantity()
	require.Equal(t, 1, vm.UIState().Get().Quantity)
}

func TestDetailAddToCart(t *testing.T) {
	stub := newStubProductService()
	stub.product = testProduct(7, "Backpack", "fits laptops", "men's clothing", 109.95)
	vm, cartService := newDetailFixture(t, stub)

	vm.Load(7)
	require.Eventually(t, func() bool {
		return vm.UIState().Get().Product != nil
	}, time.Second, time.Millisecond)

	vm.IncrementQuantity()
	vm.AddToCart(context.Background())

	require.True(t, vm.UIState().Get().ShowAddedToCart)
	items := cartService.ObserveItems().Get()
	require.Len(t, items, 1)
	require.Equal(t, 7, items[0].ProductID)
	require.Equal(t, "Backpack", items[0].Title)
	require.Equal(t, 2, items[0].Quantity)

	// 再次加入同商品時數量累加
	vm.AddToCart(context.Background())
	items = cartService.ObserveItems().Get()
	require.Len(t, items, 1)
	require.Equal(t, 4, items[0].Quantity)

	vm.ClearAddedToCartMessage()
	require.False(t, vm.UIState().Get().ShowAddedToCart)
}

func TestDetailAddToCartStorageFailure(t *testing.T) {
	stub := newStubProductService()
	stub.product = testProduct(7, "Backpack", "fits laptops", "men's clothing", 109.95)
	logger := zerolog.Nop()
	vm := NewProductDetailViewModel(stub, newFailingCartService(), &logger)
	t.Cleanup(vm.Close)

	vm.Load(7)
	require.Eventually(t, func() bool {
		return vm.UIState().Get().Product != nil
	}, time.Second, time.Millisecond)

	vm.AddToCart(context.Background())

	state := vm.UIState().Get()
	require.Equal(t, service.MsgStorageError, state.Error)
	require.False(t, state.ShowAddedToCart)
}

func TestDetailAddToCartWithoutProduct(t *testing.T) {
	vm, cartService := newDetailFixture(t, newStubProductService())

	// 商品尚未載入, 不動作
	vm.AddToCart(context.Background())

	require.False(t, vm.UIState().Get().ShowAddedToCart)
	require.Empty(t, cartService.ObserveItems().Get())
}

func TestDetailCartCountView(t *testing.T) {
	stub := newStubProductService()
	stub.product = testProduct(7, "Backpack", "fits laptops", "men's clothing", 109.95)
	vm, _ := newDetailFixture(t, stub)

	vm.Load(7)
	require.Eventually(t, func() bool {
		return vm.UIState().Get().Product != nil
	}, time.Second, time.Millisecond)

	require.Zero(t, vm.CartCount().Get())
	vm.AddToCart(context.Background())
	require.Equal(t, int64(1), vm.CartCount().Get())
}
