package viewmodel

import (
	"context"
	"strings"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutUIState 結帳表單狀態
type CheckoutUIState struct {
	Name         string
	Email        string
	Address      string
	City         string
	ZipCode      string
	CardNumber   string
	IsProcessing bool
	OrderPlaced  bool
	OrderID      uuid.UUID
	Errors       []string
}

// CheckoutViewModel 結帳流程
// PlaceOrder為本地模擬, 不會建立伺服器端訂單, 呼叫端不可假設重試是冪等的
type CheckoutViewModel struct {
	cartService     service.ICartService
	uiState         *observable.Observable[CheckoutUIState]
	total           *observable.Observable[decimal.Decimal]
	processingDelay time.Duration
	unsubscribe     func()
	logger          *zerolog.Logger
}

func NewCheckoutViewModel(cartService service.ICartService, processingDelay time.Duration, logger *zerolog.Logger) *CheckoutViewModel {
	vm := &CheckoutViewModel{
		cartService:     cartService,
		uiState:         observable.New(CheckoutUIState{}),
		total:           observable.New(decimal.NewFromInt(0)),
		processingDelay: processingDelay,
		logger:          logger,
	}
	vm.unsubscribe = cartService.ObserveItems().Subscribe(func(items []model.CartItem) {
		vm.total.Set(model.CartTotal(items))
	})
	return vm
}

func (vm *CheckoutViewModel) UIState() *observable.Observable[CheckoutUIState] {
	return vm.uiState
}

func (vm *CheckoutViewModel) Total() *observable.Observable[decimal.Decimal] {
	return vm.total
}

func (vm *CheckoutViewModel) UpdateName(name string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.Name = name
		return s
	})
}

func (vm *CheckoutViewModel) UpdateEmail(email string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.Email = email
		return s
	})
}

func (vm *CheckoutViewModel) UpdateAddress(address string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.Address = address
		return s
	})
}

func (vm *CheckoutViewModel) UpdateCity(city string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.City = city
		return s
	})
}

func (vm *CheckoutViewModel) UpdateZipCode(zipCode string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.ZipCode = zipCode
		return s
	})
}

func (vm *CheckoutViewModel) UpdateCardNumber(cardNumber string) {
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.CardNumber = cardNumber
		return s
	})
}

// PlaceOrder 驗證表單後模擬下單
// 驗證失敗: 設定Errors後直接回傳, 不做任何mutation
// 驗證通過: IsProcessing=true -> 模擬處理延遲 -> 清空購物車 -> OrderPlaced=true
// ctx取消時中止, 購物車不會被清空
func (vm *CheckoutViewModel) PlaceOrder(ctx context.Context, onSuccess func()) {
	errs := vm.validate()
	if len(errs) > 0 {
		vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
			s.Errors = errs
			return s
		})
		return
	}

	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.Errors = nil
		s.IsProcessing = true
		return s
	})

	// 模擬付款處理, 之後會被真正的payment call取代
	select {
	case <-time.After(vm.processingDelay):
	case <-ctx.Done():
		vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
			s.IsProcessing = false
			return s
		})
		return
	}

	if err := vm.cartService.Clear(ctx); err != nil {
		vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
			s.IsProcessing = false
			s.Errors = []string{service.MsgStorageError}
			return s
		})
		return
	}

	orderID := uuid.New()
	vm.uiState.Update(func(s CheckoutUIState) CheckoutUIState {
		s.IsProcessing = false
		s.OrderPlaced = true
		s.OrderID = orderID
		return s
	})
	vm.logger.Info().Str("order_id", orderID.String()).Msg("order placed")

	if onSuccess != nil {
		onSuccess()
	}
}

// validate 六個欄位去除空白後皆不可為空
// 錯誤全部收集, 不會遇到第一個就中斷
func (vm *CheckoutViewModel) validate() []string {
	state := vm.uiState.Get()
	var errs []string
	if strings.TrimSpace(state.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if strings.TrimSpace(state.Email) == "" {
		errs = append(errs, "Email is required")
	}
	if strings.TrimSpace(state.Address) == "" {
		errs = append(errs, "Address is required")
	}
	if strings.TrimSpace(state.City) == "" {
		errs = append(errs, "City is required")
	}
	if strings.TrimSpace(state.ZipCode) == "" {
		errs = append(errs, "Zip code is required")
	}
	if strings.TrimSpace(state.CardNumber) == "" {
		errs = append(errs, "Card number is required")
	}
	return errs
}

func (vm *CheckoutViewModel) Close() {
	vm.unsubscribe()
}
