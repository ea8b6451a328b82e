package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/api"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/cache"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
	"github.com/rs/zerolog"
)

// IProductService 遠端catalog查詢
// 每個查詢回傳一次性的channel: 先送出Loading, 再送出唯一一個Success或Error後關閉
// 失敗後不會自動重試, 重試由呼叫端重新發起查詢
type IProductService interface {
	GetProducts(ctx context.Context) <-chan model.Resource[[]model.Product]
	GetProductByID(ctx context.Context, id int) <-chan model.Resource[model.Product]
	GetCategories(ctx context.Context) <-chan model.Resource[[]string]
	GetProductsByCategory(ctx context.Context, category string) <-chan model.Resource[[]model.Product]
}

type ProductService struct {
	api      api.IStoreAPI
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zerolog.Logger
}

func NewProductService(storeAPI api.IStoreAPI, productCache cache.Cache, cacheTTL time.Duration, logger *zerolog.Logger) *ProductService {
	return &ProductService{
		api:      storeAPI,
		cache:    productCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

var _ IProductService = (*ProductService)(nil)

func (s *ProductService) GetProducts(ctx context.Context) <-chan model.Resource[[]model.Product] {
	return fetch(ctx, s, "products", func() ([]model.Product, error) {
		return s.api.GetProducts(ctx)
	})
}

func (s *ProductService) GetProductByID(ctx context.Context, id int) <-chan model.Resource[model.Product] {
	return fetch(ctx, s, fmt.Sprintf("product:%d", id), func() (model.Product, error) {
		return s.api.GetProductByID(ctx, id)
	})
}

func (s *ProductService) GetCategories(ctx context.Context) <-chan model.Resource[[]string] {
	// 分類清單很小, 不經過快取
	return fetch(ctx, s, "", func() ([]string, error) {
		return s.api.GetCategories(ctx)
	})
}

func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) <-chan model.Resource[[]model.Product] {
	return fetch(ctx, s, "", func() ([]model.Product, error) {
		return s.api.GetProductsByCategory(ctx, category)
	})
}

// fetch 執行一次查詢並包裝成Resource stream
// cacheKey非空時先讀快取, 命中直接回傳, 未命中打API後寫回
// 快取層錯誤只記log不影響查詢結果
func fetch[T any](ctx context.Context, s *ProductService, cacheKey string, call func() (T, error)) <-chan model.Resource[T] {
	ch := make(chan model.Resource[T], 2)
	ch <- model.Loading[T]()

	go func() {
		defer close(ch)

		if cacheKey != "" {
			if cached, ok := cacheGet[T](ctx, s, cacheKey); ok {
				ch <- model.Success(cached)
				return
			}
		}

		data, err := call()
		if err != nil {
			s.logger.Error().Err(err).Str("cache_key", cacheKey).Msg("catalog query failed")
			ch <- model.Failure[T](classifyError(err))
			return
		}

		if cacheKey != "" {
			cacheSet(ctx, s, cacheKey, data)
		}
		ch <- model.Success(data)
	}()

	return ch
}

func cacheGet[T any](ctx context.Context, s *ProductService, key string) (T, bool) {
	var zero T
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return zero, false
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("cache get failed")
		return zero, false
	}
	var data T
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("cache entry corrupted")
		return zero, false
	}
	return data, true
}

func cacheSet[T any](ctx context.Context, s *ProductService, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// classifyError 將錯誤對應到固定的使用者訊息
func classifyError(err error) string {
	var httpErr *api.HTTPError
	switch {
	case errors.Is(err, api.ErrConnection):
		return MsgConnectionError
	case errors.As(err, &httpErr):
		return MsgNetworkError
	default:
		return MsgUnexpectedError
	}
}
