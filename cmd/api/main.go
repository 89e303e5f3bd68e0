package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/docs"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/events"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/internal/interfaces/ws"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios del backend elegido (PostgreSQL o memoria).
type storage struct {
	tx         inventory.TxRunner
	users      repository.UserRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	uoms       repository.UnitOfMeasureRepository
	partners   repository.PartnerRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
	operations repository.OperationRepository
	stock      repository.StockLevelRepository
	ledger     repository.LedgerRepository
	reports    repository.ReportRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracingSDK(ctx, cfg.OTel)
	if err != nil {
		log.Error().Err(err).Msg("inicializar trazas; se continúa sin exportador")
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	// Publicadores de operation.validated: Kafka, feed WebSocket e invalidación de caché.
	publishers := events.Multi{}

	var stockCache inventory.StockCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible; consultas de stock sin caché")
		} else {
			defer client.Close()
			c := cache.NewStockCache(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
			stockCache = c
			publishers = append(publishers, c)
		}
	}

	if cfg.Kafka.Enabled() {
		kafkaPub := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka), cfg.Kafka.Topic, log)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
	}

	var wsServer *http.Server
	if cfg.WS.Port > 0 {
		hub := ws.NewHub(log)
		defer hub.Close()
		publishers = append(publishers, hub)

		mux := http.NewServeMux()
		mux.Handle("/ws/stock", hub)
		wsServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.WS.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("addr", wsServer.Addr).Msg("feed de stock en /ws/stock")
			if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("servidor WebSocket finalizado")
			}
		}()
	}

	operationUC := inventory.NewOperationUseCase(store.tx, store.operations, publishers, log)
	documentUC := inventory.NewDocumentUseCase(
		store.operations, store.partners, store.locations, store.products, store.ledger,
		infrapdf.NewSlipGenerator(cfg.App.Name),
		xmlexport.NewExporter(cfg.LedgerExportKey),
	)
	if cfg.LedgerExportKey == "" {
		log.Warn().Msg("LEDGER_EXPORT_KEY vacío: el XML del libro solo lleva digest, sin firma HMAC")
	}

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		// Sin archivo en disco se sirve la especificación compilada.
		app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
			c.Type("json")
			return c.SendString(docs.SwaggerInfo.ReadDoc())
		})
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(store.products, store.categories, store.uoms),
		CatalogUC:     usecase.NewCatalogUseCase(store.categories, store.uoms, store.partners),
		WarehouseUC:   usecase.NewWarehouseUseCase(store.warehouses, store.locations),
		OperationUC:   operationUC,
		StockUC:       inventory.NewStockQueryUseCase(store.stock, store.ledger, stockCache),
		DocumentUC:    documentUC,
		Replenishment: inventory.NewReplenishmentUseCase(store.reports),
		DashboardUC:   appanalytics.NewDashboardUseCase(store.reports, store.operations),
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if wsServer != nil {
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor WebSocket")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el store en memoria según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.UsesMemory() {
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		m := memory.New()
		return &storage{
			tx:         m,
			users:      m.Users(),
			products:   m.Products(),
			categories: m.Categories(),
			uoms:       m.UnitsOfMeasure(),
			partners:   m.Partners(),
			warehouses: m.Warehouses(),
			locations:  m.Locations(),
			operations: m.Operations(),
			stock:      m.Stock(),
			ledger:     m.Ledger(),
			reports:    m.Reports(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		users:      postgres.NewUserRepository(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		uoms:       postgres.NewUnitOfMeasureRepository(pool),
		partners:   postgres.NewPartnerRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		locations:  postgres.NewLocationRepository(pool),
		operations: postgres.NewOperationRepository(pool),
		stock:      postgres.NewStockLevelRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		reports:    postgres.NewReportRepository(pool),
		close:      pool.Close,
	}, nil
}
