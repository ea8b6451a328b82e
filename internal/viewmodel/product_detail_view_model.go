package viewmodel

import (
	"context"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
)

// ProductDetailUIState 商品明細畫面狀態
type ProductDetailUIState struct {
	Product         *model.Product
	Quantity        int
	IsLoading       bool
	Error           string
	ShowAddedToCart bool
}

type ProductDetailViewModel struct {
	productService service.IProductService
	cartService    service.ICartService
	uiState        *observable.Observable[ProductDetailUIState]
	ctx            context.Context
	cancel         context.CancelFunc
	logger         *zerolog.Logger
}

func NewProductDetailViewModel(productService service.IProductService, cartService service.ICartService, logger *zerolog.Logger) *ProductDetailViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProductDetailViewModel{
		productService: productService,
		cartService:    cartService,
		uiState:        observable.New(ProductDetailUIState{Quantity: 1}),
		ctx:            ctx,
		cancel:         cancel,
		logger:         logger,
	}
}

func (vm *ProductDetailViewModel) UIState() *observable.Observable[ProductDetailUIState] {
	return vm.uiState
}

func (vm *ProductDetailViewModel) CartCount() *observable.Observable[int64] {
	return vm.cartService.ObserveCount()
}

// Load 載入單一商品
func (vm *ProductDetailViewModel) Load(productID int) {
	ch := vm.productService.GetProductByID(vm.ctx, productID)
	go func() {
		for res := range ch {
			if vm.ctx.Err() != nil {
				return
			}
			vm.applyResult(res)
		}
	}()
}

func (vm *ProductDetailViewModel) applyResult(res model.Resource[model.Product]) {
	switch res.Status {
	case model.StatusLoading:
		vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
			s.IsLoading = true
			s.Error = ""
			return s
		})
	case model.StatusSuccess:
		product := res.Data
		vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
			s.Product = &product
			s.IsLoading = false
			s.Error = ""
			return s
		})
	case model.StatusError:
		vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
			s.IsLoading = false
			s.Error = res.Message
			return s
		})
	}
}

func (vm *ProductDetailViewModel) IncrementQuantity() {
	vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
		s.Quantity++
		return s
	})
}

// DecrementQuantity 數量下限為1
func (vm *ProductDetailViewModel) DecrementQuantity() {
	vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
		if s.Quantity > 1 {
			s.Quantity--
		}
		return s
	})
}

// AddToCart 以當前數量加入購物車, 商品尚未載入時不動作
// 儲存失敗時以固定storage訊息呈現
func (vm *ProductDetailViewModel) AddToCart(ctx context.Context) {
	state := vm.uiState.Get()
	if state.Product == nil {
		return
	}

	item := model.CartItem{
		ProductID: state.Product.ID,
		Title:     state.Product.Title,
		Price:     state.Product.Price,
		Image:     state.Product.Image,
		Quantity:  state.Quantity,
	}
	if err := vm.cartService.AddItem(ctx, item); err != nil {
		vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
			s.Error = service.MsgStorageError
			return s
		})
		return
	}
	vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
		s.ShowAddedToCart = true
		return s
	})
}

func (vm *ProductDetailViewModel) ClearAddedToCartMessage() {
	vm.uiState.Update(func(s ProductDetailUIState) ProductDetailUIState {
		s.ShowAddedToCart = false
		return s
	})
}

func (vm *ProductDetailViewModel) Close() {
	vm.cancel()
}
