package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/repository/db"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/pkg/observable"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// stubProductService 可控制結果與呼叫次數的IProductService
type stubProductService struct {
	mu sync.Mutex

	products    []model.Product
	productsErr string
	categories  []string
	byCategory  map[string][]model.Product
	categoryErr string
	product     model.Product
	productErr  string

	productsCalls int
	categoryCalls map[string]int
}

func newStubProductService() *stubProductService {
	return &stubProductService{
		byCategory:    make(map[string][]model.Product),
		categoryCalls: make(map[string]int),
	}
}

var _ service.IProductService = (*stubProductService)(nil)

func emit[T any](data T, errMsg string) <-chan model.Resource[T] {
	ch := make(chan model.Resource[T], 2)
	ch <- model.Loading[T]()
	if errMsg != "" {
		ch <- model.Failure[T](errMsg)
	} else {
		ch <- model.Success(data)
	}
	close(ch)
	return ch
}

func (s *stubProductService) GetProducts(ctx context.Context) <-chan model.Resource[[]model.Product] {
	s.mu.Lock()
	s.productsCalls++
	products, errMsg := s.products, s.productsErr
	s.mu.Unlock()
	return emit(products, errMsg)
}

func (s *stubProductService) GetProductByID(ctx context.Context, id int) <-chan model.Resource[model.Product] {
	s.mu.Lock()
	product, errMsg := s.product, s.productErr
	s.mu.Unlock()
	return emit(product, errMsg)
}

func (s *stubProductService) GetCategories(ctx context.Context) <-chan model.Resource[[]string] {
	s.mu.Lock()
	categories := s.categories
	s.mu.Unlock()
	return emit(categories, "")
}

func (s *stubProductService) GetProductsByCategory(ctx context.Context, category string) <-chan model.Resource[[]model.Product] {
	s.mu.Lock()
	s.categoryCalls[category]++
	products, errMsg := s.byCategory[category], s.categoryErr
	s.mu.Unlock()
	return emit(products, errMsg)
}

func (s *stubProductService) productsCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productsCalls
}

func (s *stubProductService) categoryCallCount(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryCalls[category]
}

// failingCartService 所有mutation都失敗的ICartService, 模擬儲存層故障
type failingCartService struct {
	items *observable.Observable[[]model.CartItem]
	count *observable.Observable[int64]
}

func newFailingCartService() *failingCartService {
	return &failingCartService{
		items: observable.New([]model.CartItem{}),
		count: observable.New(int64(0)),
	}
}

var _ service.ICartService = (*failingCartService)(nil)

var errStoreDown = errors.New("database is locked")

func (s *failingCartService) ObserveItems() *observable.Observable[[]model.CartItem] {
	return s.items
}

func (s *failingCartService) ObserveCount() *observable.Observable[int64] {
	return s.count
}

func (s *failingCartService) AddItem(ctx context.Context, item model.CartItem) error {
	return errStoreDown
}

func (s *failingCartService) SetQuantity(ctx context.Context, item model.CartItem, quantity int) error {
	return errStoreDown
}

func (s *failingCartService) RemoveItem(ctx context.Context, item model.CartItem) error {
	return errStoreDown
}

func (s *failingCartService) Clear(ctx context.Context) error {
	return errStoreDown
}

// newTestCartService 以in-memory sqlite建立真實的cart service
func newTestCartService(t *testing.T) service.ICartService {
	t.Helper()
	conn, err := db.GetDbConn(":memory:")
	require.NoError(t, err)
	dao := db.NewDbDao(conn)
	require.NoError(t, dao.InitMigrate())
	logger := zerolog.Nop()
	return service.NewCartService(db.NewCartRepo(dao), &logger)
}

func testProduct(id int, title, description, category string, price float64) model.Product {
	return model.Product{
		ID:          id,
		Title:       title,
		Price:       decimal.NewFromFloat(price),
		Description: description,
		Category:    category,
		Image:       "https://example.com/p.png",
		Rating:      model.Rating{Rate: decimal.NewFromFloat(4.2), Count: 10},
	}
}
