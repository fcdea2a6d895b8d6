// Package app wires storage, repositories, services and HTTP handlers into a runnable API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurante/internal/config"
	"restaurante/internal/handler"
	"restaurante/internal/identity"
	"restaurante/internal/messaging"
	"restaurante/internal/order"
	"restaurante/internal/promo"
	"restaurante/internal/repository"
	"restaurante/internal/router"
	"restaurante/internal/service"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// App is the assembled API.
type App struct {
	Handler  http.Handler
	Sessions *identity.Sessions
	Orders   *order.Manager

	closers []func() error
	logger  zerolog.Logger
}

type options struct {
	passwordCost int
	publisher    order.EventPublisher
	promos       order.PromoLookup
}

// Option customizes Build.
type Option func(*options)

// WithPasswordCost sets the bcrypt cost for seeded and registered passwords.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

// WithPublisher replaces the order event publisher built from the Kafka config.
func WithPublisher(p order.EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithPromoLookup replaces the promo book loaded from the promo config.
func WithPromoLookup(p order.PromoLookup) Option {
	return func(o *options) { o.promos = p }
}

// newMessageWriter opens the Kafka writer for order events.
var newMessageWriter = func(brokers []string, topic string) messaging.MessageWriter {
	return messaging.NewKafkaWriter(brokers, topic)
}

// Build assembles the API on top of store. Resources opened before a failure are released.
func Build(ctx context.Context, cfg *config.Config, store storage.Store, logger zerolog.Logger, opts ...Option) (_ *App, err error) {
	o := options{passwordCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{logger: logger}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to release resources after build error")
		}
	}()

	productRepo, err := repository.NewProductRepository(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	restaurantRepo, err := repository.NewRestaurantRepository(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	userRepo, err := repository.NewUserRepository(ctx, store, logger, repository.WithPasswordCost(o.passwordCost))
	if err != nil {
		return nil, err
	}
	reviewRepo, err := repository.NewReviewRepository(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	favoritesRepo, err := repository.NewFavoritesRepository(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	cartRepo, err := repository.NewCartRepository(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	if o.publisher == nil && cfg.Kafka.Enabled {
		writer := newMessageWriter(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		publisher := messaging.NewOrderEventPublisher(writer, logger)
		a.closers = append(a.closers, publisher.Close)
		o.publisher = publisher
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.OrderTopic).
			Msg("publishing order events to kafka")
	}
	var managerOpts []order.ManagerOption
	if o.publisher != nil {
		managerOpts = append(managerOpts, order.WithPublisher(o.publisher))
	}
	orders, err := order.NewManager(ctx, store, logger, managerOpts...)
	if err != nil {
		return nil, err
	}
	a.Orders = orders

	if o.promos == nil && cfg.Promo.Enabled {
		book, err := loadPromos(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		o.promos = book
	}
	var materializerOpts []order.MaterializerOption
	if o.promos != nil {
		materializerOpts = append(materializerOpts, order.WithPromos(o.promos))
	}

	provider := identity.ContextProvider{}
	materializer := order.NewMaterializer(
		order.MaterializerConfig{
			Policy:              order.RestaurantPolicy(cfg.Order.RestaurantPolicy),
			DefaultRestaurantID: cfg.Order.DefaultRestaurantID,
		},
		provider, productRepo, restaurantRepo, orders, logger, materializerOpts...,
	)

	a.Sessions = identity.NewSessions(cfg.Session.TTL(), logger)

	authService := service.NewAuthService(userRepo, a.Sessions, provider, logger, service.WithBcryptCost(o.passwordCost))
	productService := service.NewProductService(productRepo, restaurantRepo, provider, logger)
	restaurantService := service.NewRestaurantService(restaurantRepo, productRepo, provider, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, restaurantRepo, provider, logger)
	cartService := service.NewCartService(cartRepo, productRepo, materializer, provider, logger)
	orderService := service.NewOrderService(orders, service.NewQRGenerator(cfg.Server.PublicBaseURL), provider, logger)
	favoritesService := service.NewFavoritesService(favoritesRepo, productRepo, restaurantRepo, provider, logger)

	a.Handler = router.New(router.Handlers{
		Auth:        handler.NewAuthHandler(authService, logger),
		Products:    handler.NewProductHandler(productService, logger),
		Restaurants: handler.NewRestaurantHandler(restaurantService, logger),
		Reviews:     handler.NewReviewHandler(reviewService, logger),
		Cart:        handler.NewCartHandler(cartService, logger),
		Orders:      handler.NewOrderHandler(orderService, logger),
		Favorites:   handler.NewFavoritesHandler(favoritesService, logger),
	}, authService, cfg.Server.CORSAllowedOrigins, logger)

	return a, nil
}

// loadPromos reads the configured promo files, from S3 first when enabled.
func loadPromos(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*promo.Book, error) {
	loader := promo.NewFileLoader(logger)
	if cfg.Promo.S3Enabled {
		s3Loader, err := promo.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 promo loader, falling back to local file system only")
		} else {
			loader = promo.NewFallbackLoader(s3Loader, loader, cfg.Promo.S3Prefix, logger)
		}
	} else {
		logger.Info().Msg("using local file system for promo files (S3 disabled)")
	}

	book, err := promo.NewBook(ctx, cfg.Promo.Files, loader, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load promo codes: %w", err)
	}
	return book, nil
}

// SweepSessions drops expired sessions every interval until ctx is done.
func (a *App) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Sessions.Sweep(); n > 0 {
				a.logger.Debug().Int("expired", n).Msg("swept sessions")
			}
		}
	}
}

// Close releases the resources opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}
