package viewmodel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testCheckoutDelay = 20 * time.Millisecond

func newCheckoutFixture(t *testing.T) (*CheckoutViewModel, service.ICartService) {
	t.Helper()
	logger := zerolog.Nop()
	cartService := newTestCartService(t)
	vm := NewCheckoutViewModel(cartService, testCheckoutDelay, &logger)
	t.Cleanup(vm.Close)
	return vm, cartService
}

func fillForm(vm *CheckoutViewModel) {
	vm.UpdateName("Jane Doe")
	vm.UpdateEmail("jane@example.com")
	vm.UpdateAddress("1 Main St")
	vm.UpdateCity("Madrid")
	vm.UpdateZipCode("28001")
	vm.UpdateCardNumber("4111111111111111")
}

func TestPlaceOrderAllFieldsBlank(t *testing.T) {
	vm, cartService := newCheckoutFixture(t)
	require.NoError(t, cartService.AddItem(context.Background(),
		model.CartItem{ProductID: 1, Title: "a", Price: decimal.NewFromFloat(10), Quantity: 1}))

	var called atomic.Int32
	vm.PlaceOrder(context.Background(), func() { called.Add(1) })

	state := vm.UIState().Get()
	require.Equal(t, []string{
		"Name is required",
		"Email is required",
		"Address is required",
		"City is required",
		"Zip code is required",
		"Card number is required",
	}, state.Errors)
	require.False(t, state.IsProcessing)
	require.False(t, state.OrderPlaced)
	require.Zero(t, called.Load())
	// 驗證失敗不做任何mutation
	require.Len(t, cartService.ObserveItems().Get(), 1)
}

func TestPlaceOrderBlankAfterTrimming(t *testing.T) {
	vm, _ := newCheckoutFixture(t)
	fillForm(vm)
	vm.UpdateEmail("   ")

	vm.PlaceOrder(context.Background(), nil)

	require.Equal(t, []string{"Email is required"}, vm.UIState().Get().Errors)
}

func TestPlaceOrderSuccess(t *testing.T) {
	vm, cartService := newCheckoutFixture(t)
	require.NoError(t, cartService.AddItem(context.Background(),
		model.CartItem{ProductID: 1, Title: "a", Price: decimal.NewFromFloat(10), Quantity: 2}))

	fillForm(vm)

	var called atomic.Int32
	vm.PlaceOrder(context.Background(), func() { called.Add(1) })

	state := vm.UIState().Get()
	require.True(t, state.OrderPlaced)
	require.False(t, state.IsProcessing)
	require.Empty(t, state.Errors)
	require.NotEqual(t, state.OrderID.String(), "00000000-0000-0000-0000-000000000000")
	require.Equal(t, int32(1), called.Load())
	// 下單後購物車清空
	require.Empty(t, cartService.ObserveItems().Get())
	require.Zero(t, cartService.ObserveCount().Get())
}

func TestPlaceOrderStorageFailure(t *testing.T) {
	logger := zerolog.Nop()
	vm := NewCheckoutViewModel(newFailingCartService(), testCheckoutDelay, &logger)
	t.Cleanup(vm.Close)
	fillForm(vm)

	var called atomic.Int32
	vm.PlaceOrder(context.Background(), func() { called.Add(1) })

	state := vm.UIState().Get()
	require.Equal(t, []string{service.MsgStorageError}, state.Errors)
	require.False(t, state.IsProcessing)
	require.False(t, state.OrderPlaced)
	require.Zero(t, called.Load())
}

func TestPlaceOrderCancelledKeepsCart(t *testing.T) {
	logger := zerolog.Nop()
	cartService := newTestCartService(t)
	vm := NewCheckoutViewModel(cartService, 500*time.Millisecond, &logger)
	t.Cleanup(vm.Close)

	require.NoError(t, cartService.AddItem(context.Background(),
		model.CartItem{ProductID: 1, Title: "a", Price: decimal.NewFromFloat(10), Quantity: 1}))
	fillForm(vm)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		vm.PlaceOrder(ctx, nil)
		close(done)
	}()

	// 處理期間取消
	require.Eventually(t, func() bool {
		return vm.UIState().Get().IsProcessing
	}, time.Second, time.Millisecond)
	cancel()
	<-done

	state := vm.UIState().Get()
	require.False(t, state.IsProcessing)
	require.False(t, state.OrderPlaced)
	require.Len(t, cartService.ObserveItems().Get(), 1)
}

func TestCheckoutTotalMatchesCartTotal(t *testing.T) {
	logger := zerolog.Nop()
	cartService := newTestCartService(t)
	cartVM := NewCartViewModel(cartService, &logger)
	t.Cleanup(cartVM.Close)
	checkoutVM := NewCheckoutViewModel(cartService, testCheckoutDelay, &logger)
	t.Cleanup(checkoutVM.Close)

	require.NoError(t, cartService.AddItem(context.Background(),
		model.CartItem{ProductID: 1, Title: "a", Price: decimal.NewFromFloat(19.99), Quantity: 3}))
	require.NoError(t, cartService.AddItem(context.Background(),
		model.CartItem{ProductID: 2, Title: "b", Price: decimal.NewFromFloat(0.01), Quantity: 7}))

	// 兩個畫面各自推導的total必須一致
	require.True(t, cartVM.Total().Get().Equal(checkoutVM.Total().Get()))
	require.True(t, decimal.NewFromFloat(60.04).Equal(cartVM.Total().Get()))
}

func TestFieldSettersReplaceValueOnly(t *testing.T) {
	vm, _ := newCheckoutFixture(t)

	vm.UpdateName("Jane")
	vm.UpdateName("Joan")

	state := vm.UIState().Get()
	require.Equal(t, "Joan", state.Name)
	require.Empty(t, state.Errors)
	require.False(t, state.IsProcessing)
}
