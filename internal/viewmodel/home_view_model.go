package viewmodel

import (
	"context"
	"strings"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
)

const CategoryAll = "All"

// HomeUIState 商品列表畫面狀態
type HomeUIState struct {
	Products         []model.Product
	FilteredProducts []model.Product
	Categories       []string
	SelectedCategory string
	SearchQuery      string
	IsLoading        bool
	Error            string
}

// HomeViewModel 商品列表
// LoadProducts與LoadCategories各自獨立執行, 完成順序不保證
// 兩者寫入不同欄位, 訂閱者不可假設LoadProducts完成時Categories已載入
type HomeViewModel struct {
	productService service.IProductService
	cartService    service.ICartService
	uiState        *observable.Observable[HomeUIState]
	ctx            context.Context
	cancel         context.CancelFunc
	logger         *zerolog.Logger
}

func NewHomeViewModel(productService service.IProductService, cartService service.ICartService, logger *zerolog.Logger) *HomeViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &HomeViewModel{
		productService: productService,
		cartService:    cartService,
		uiState:        observable.New(HomeUIState{SelectedCategory: CategoryAll}),
		ctx:            ctx,
		cancel:         cancel,
		logger:         logger,
	}
}

func (vm *HomeViewModel) UIState() *observable.Observable[HomeUIState] {
	return vm.uiState
}

// CartCount 導航列badge用的購物車筆數
func (vm *HomeViewModel) CartCount() *observable.Observable[int64] {
	return vm.cartService.ObserveCount()
}

// LoadProducts 載入完整商品清單
// Loading: IsLoading=true, 清除Error
// Success: Products與FilteredProducts皆設為結果
// Error: IsLoading=false, Error=訊息, 清單維持不變
func (vm *HomeViewModel) LoadProducts() {
	ch := vm.productService.GetProducts(vm.ctx)
	go func() {
		for res := range ch {
			if vm.ctx.Err() != nil {
				return
			}
			vm.applyProductsResult(res)
		}
	}()
}

func (vm *HomeViewModel) applyProductsResult(res model.Resource[[]model.Product]) {
	switch res.Status {
	case model.StatusLoading:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.IsLoading = true
			s.Error = ""
			return s
		})
	case model.StatusSuccess:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.Products = res.Data
			s.FilteredProducts = res.Data
			s.IsLoading = false
			s.Error = ""
			return s
		})
	case model.StatusError:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.IsLoading = false
			s.Error = res.Message
			return s
		})
	}
}

// LoadCategories 載入分類清單, 次要查詢不追蹤loading/error
func (vm *HomeViewModel) LoadCategories() {
	ch := vm.productService.GetCategories(vm.ctx)
	go func() {
		for res := range ch {
			if vm.ctx.Err() != nil {
				return
			}
			if res.Status == model.StatusSuccess {
				categories := res.Data
				vm.uiState.Update(func(s HomeUIState) HomeUIState {
					s.Categories = categories
					return s
				})
			}
		}
	}()
}

// FilterByCategory 切換分類
// "All"直接還原完整清單不發出網路請求, 其他分類發出一次分類查詢
// 分類查詢失敗時設定Error並保留原顯示清單
func (vm *HomeViewModel) FilterByCategory(category string) {
	vm.uiState.Update(func(s HomeUIState) HomeUIState {
		s.SelectedCategory = category
		return s
	})

	if category == CategoryAll {
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.FilteredProducts = s.Products
			return s
		})
		return
	}

	ch := vm.productService.GetProductsByCategory(vm.ctx, category)
	go func() {
		for res := range ch {
			if vm.ctx.Err() != nil {
				return
			}
			vm.applyCategoryResult(res)
		}
	}()
}

func (vm *HomeViewModel) applyCategoryResult(res model.Resource[[]model.Product]) {
	switch res.Status {
	case model.StatusLoading:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.IsLoading = true
			s.Error = ""
			return s
		})
	case model.StatusSuccess:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.FilteredProducts = res.Data
			s.IsLoading = false
			return s
		})
	case model.StatusError:
		vm.uiState.Update(func(s HomeUIState) HomeUIState {
			s.IsLoading = false
			s.Error = res.Message
			return s
		})
	}
}

// SearchProducts 本地搜尋, 不發出網路請求
// 以title或description做不分大小寫的子字串比對
// 搜尋對象一律是完整清單, 不是分類過濾後的清單
func (vm *HomeViewModel) SearchProducts(query string) {
	vm.uiState.Update(func(s HomeUIState) HomeUIState {
		s.SearchQuery = query
		if strings.TrimSpace(query) == "" {
			s.FilteredProducts = s.Products
			return s
		}
		lowered := strings.ToLower(query)
		filtered := make([]model.Product, 0)
		for _, p := range s.Products {
			if strings.Contains(strings.ToLower(p.Title), lowered) ||
				strings.Contains(strings.ToLower(p.Description), lowered) {
				filtered = append(filtered, p)
			}
		}
		s.FilteredProducts = filtered
		return s
	})
}

// Close 取消所有進行中的查詢, 之後的結果不再套用到狀態
func (vm *HomeViewModel) Close() {
	vm.cancel()
}
