package appcontext

import (
	"context"
	"fmt"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/config"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/api"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/cache"
	memory_cache "github.com/MiguelMialdeaDev/ShopFlow/internal/infra/cache/memory"
	redis_cache "github.com/MiguelMialdeaDev/ShopFlow/internal/infra/cache/redis"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/repository/db"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ApplicationContext 全域依賴
// 一個store實例, 一個API client實例, 啟動時建立後以參考傳遞
// 不使用隱式singleton
type ApplicationContext struct {
	Cf             *config.Config
	Logger         *zerolog.Logger
	APIClient      *api.Client
	CartDao        *db.DbDao
	CartRepo       db.ICartRepository
	Cache          cache.Cache
	CartService    service.ICartService
	ProductService service.IProductService

	redisClient *redis.Client
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	app := &ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	if err := app.init(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) init() error {
	app.setUpAPIClient()

	if err := app.setUpCartStore(); err != nil {
		return err
	}

	if err := app.setUpCache(); err != nil {
		return err
	}

	app.setUpServices()
	return nil
}

func (app *ApplicationContext) setUpAPIClient() {
	app.Logger.Debug().Str("base_url", app.Cf.APIBaseURL).Msg("setup store API client")
	app.APIClient = api.NewClient(
		api.WithBaseURL(app.Cf.APIBaseURL),
		api.WithTimeout(app.Cf.RequestTimeout),
	)
}

func (app *ApplicationContext) setUpCartStore() error {
	app.Logger.Debug().Str("path", app.Cf.CartDBPath).Msg("setup cart store")
	conn, err := db.GetDbConn(app.Cf.CartDBPath)
	if err != nil {
		return fmt.Errorf("open cart db failed: %w", err)
	}
	app.CartDao = db.NewDbDao(conn)
	if err := app.CartDao.InitMigrate(); err != nil {
		return fmt.Errorf("migrate cart db failed: %w", err)
	}
	app.CartRepo = db.NewCartRepo(app.CartDao)
	return nil
}

// setUpCache 未設定redis位址時退回程序內快取
func (app *ApplicationContext) setUpCache() error {
	if app.Cf.RedisAddr == "" {
		app.Logger.Debug().Msg("setup in-memory catalog cache")
		app.Cache = memory_cache.NewMemoryCache()
		return nil
	}

	app.Logger.Debug().Str("addr", app.Cf.RedisAddr).Msg("setup redis catalog cache")
	app.redisClient = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})
	app.Cache = redis_cache.NewRedisCache(app.redisClient, "shopflow")
	if _, err := app.Cache.Ping(context.Background()); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (app *ApplicationContext) setUpServices() {
	app.CartService = service.NewCartService(app.CartRepo, app.Logger)
	app.ProductService = service.NewProductService(app.APIClient, app.Cache, app.Cf.CacheTTL, app.Logger)
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			return err
		}
	}
	if app.CartDao != nil {
		sqlDB, err := app.CartDao.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
