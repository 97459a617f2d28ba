package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/umrah-booking/internal/cache"
	"github.com/iliyamo/umrah-booking/internal/config"
	"github.com/iliyamo/umrah-booking/internal/database"
	"github.com/iliyamo/umrah-booking/internal/handler"
	"github.com/iliyamo/umrah-booking/internal/middleware"
	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/queue"
	"github.com/iliyamo/umrah-booking/internal/repository"
	"github.com/iliyamo/umrah-booking/internal/router"
	"github.com/iliyamo/umrah-booking/internal/service"
)

// ledgerLogPath receives one line per consumed ledger event.
const ledgerLogPath = "logs/payments.log"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err) // real env vars still apply
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		cancel()
	}

	// nil when Redis is down; cache and rate limit then pass through
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	packages := repository.NewPackageRepo(db)
	settings := repository.NewSettingsRepo(db)
	faqs := repository.NewRecordRepo(db, repository.GeneralFAQTable)
	packageFAQs := repository.NewRecordRepo(db, repository.PackageFAQTable)
	quotes := repository.NewRecordRepo(db, repository.QuoteTable)
	testimonials := repository.NewRecordRepo(db, repository.TestimonialTable)
	badges := repository.NewRecordRepo(db, repository.TrustBadgeTable)
	pages := repository.NewRecordRepo(db, repository.PageTable)
	blog := repository.NewRecordRepo(db, repository.BlogTable)

	publisher := queue.NewPublisher(cfg.RabbitMQURL)
	defer publisher.Close()

	// ---- Services ----
	bookingSvc := service.NewBookingService(bookings, repository.NewLedgerRepo(db, bookings, payments), payments, profiles, publisher)
	catalogSvc := service.NewCatalogService(packages, packageFAQs, testimonials, settings,
		cache.New(rdb, "umrah:catalog"), cfg.CatalogCacheTTL)
	contentSvc := service.NewContentService(service.ContentRepos{
		FAQs:         faqs,
		PackageFAQs:  packageFAQs,
		Quotes:       quotes,
		Testimonials: testimonials,
		TrustBadges:  badges,
		Pages:        pages,
		Blog:         blog,
		Settings:     settings,
	})

	if err := bootstrapAdmin(context.Background(), cfg, users, profiles); err != nil {
		log.Printf("admin bootstrap failed: %v", err)
	}

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	// identifies signed-in callers so rate limit keys are per account
	e.Use(middleware.OptionalJWT(cfg.JWTSecret))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheCfg := config.LoadCacheConfig()
	e.Use(middleware.NewRedisCache(cacheCfg, rdb))

	content := router.Content{
		FAQs:         handler.NewContentHandler[model.GeneralFAQ](contentSvc.FAQs),
		PackageFAQs:  &handler.PackageFAQHandler{ContentHandler: handler.NewContentHandler[model.PackageFAQ](contentSvc.PackageFAQs)},
		Quotes:       handler.NewContentHandler[model.IslamicQuote](contentSvc.Quotes),
		Testimonials: handler.NewContentHandler[model.Testimonial](contentSvc.Testimonials),
		TrustBadges:  handler.NewContentHandler[model.TrustBadge](contentSvc.TrustBadges),
		Pages:        handler.NewContentHandler[model.Page](contentSvc.Pages),
		Blog:         handler.NewContentHandler[model.BlogPost](contentSvc.Blog),
		Settings:     &handler.SettingsHandler{Svc: contentSvc},
	}

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, profiles, tokens), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadAuthRateLimitConfig(), rdb))
	router.RegisterPublic(e, &handler.PublicCatalogHandler{Catalog: catalogSvc}, content)
	router.RegisterCustomer(e, handler.NewCustomerBookingHandler(bookingSvc, catalogSvc), cfg.JWTSecret)
	router.RegisterAdmin(e, router.Admin{
		Bookings: handler.NewAdminBookingHandler(bookingSvc),
		Packages: &handler.AdminPackageHandler{Catalog: catalogSvc},
		Content:  content,
	}, cfg.JWTSecret, middleware.PurgeResponses(cacheCfg, rdb))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventsEnabled && cfg.RabbitMQURL != "" {
		go func() {
			if err := queue.StartLedgerConsumer(ctx, cfg.RabbitMQURL, ledgerLogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("ledger-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
