package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/clicks"
	"github.com/nuturl/nuturl/internal/handlers"
	"github.com/nuturl/nuturl/internal/link"
	"github.com/nuturl/nuturl/internal/mailer"
	"github.com/nuturl/nuturl/internal/messaging"
	"github.com/nuturl/nuturl/internal/middleware"
	"github.com/nuturl/nuturl/internal/payments"
	"github.com/nuturl/nuturl/internal/ratelimit"
	"github.com/nuturl/nuturl/internal/redirect"
	"github.com/nuturl/nuturl/internal/store"
)

// slugAlphabet matches the original 6-character base36 slugs.
const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Options holds the runtime configuration for both binaries.
type Options struct {
	Port             int    `default:"8888"                                  help:"Port to listen on"                        short:"p"`
	SlugLength       int    `default:"6"                                     help:"Length of generated slugs"                short:"s"`
	RedisAddr        string `default:"localhost:6379"                        help:"Redis server address"                     short:"r"`
	DatabaseURL      string `default:"postgres://localhost:5432/nuturl"      help:"PostgreSQL connection string"             short:"d"`
	BaseURL          string `default:"http://localhost:8888"                 help:"Public base URL of this API"`
	FrontendURL      string `default:"https://web.nuturl.com"                help:"Base URL of the waiting-room frontend"`
	JWTSecret        string `default:"fallback_secret_change_in_prod"        help:"HMAC secret for bearer tokens"`
	MercadoPagoToken string `default:""                                      help:"Mercado Pago access token"`
	ResendAPIKey     string `default:""                                      help:"Resend API key; emails are logged if empty"`
	EmailFrom        string `default:"onboarding@resend.dev"                 help:"From address for transactional email"`
	LogFormat        string `default:"json"                                  help:"Log format (json or console)"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "console" {
			return zap.NewDevelopment()
		}

		return zap.NewProduction()
	})
}

// RedisPackage provides the redis client shared by the rate limiter and
// the stream transport.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// PostgresPackage provides the pgx pool and applies the schema.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}

		if err := store.Migrate(context.Background(), pool); err != nil {
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}

		return pool, nil
	})
}

// RepositoryPackage provides the stores and the slug allocator.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (account.Repository, error) {
		return store.NewPostgresAccountStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (handlers.TotalsSource, error) {
		return store.NewPostgresStatsStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*link.Allocator, error) {
		options := do.MustInvoke[*Options](i)

		generator, err := nanoid.CustomASCII(slugAlphabet, options.SlugLength)
		if err != nil {
			return nil, err
		}

		return link.NewAllocator(do.MustInvoke[link.Repository](i), generator), nil
	})
}

// RateLimitPackage provides the redis-backed rate limit store.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})
}

// PublisherGroupPackage provides the stream publisher and the typed
// publish functions.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[clicks.VisitEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[clicks.VisitEvent](group.Publisher(), clicks.TopicLinkVisited), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[payments.NotificationEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[payments.NotificationEvent](group.Publisher(), payments.TopicPaymentNotification), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[mailer.EmailRequestedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[mailer.EmailRequestedEvent](group.Publisher(), mailer.TopicEmailRequested), nil
	})
}

// PaymentsPackage provides the payment provider client.
func PaymentsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (payments.Provider, error) {
		options := do.MustInvoke[*Options](i)

		return payments.NewMercadoPagoClient(options.MercadoPagoToken, do.MustInvoke[*zap.Logger](i)), nil
	})
}

// MailerPackage provides the transactional email sender.
func MailerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (mailer.Sender, error) {
		options := do.MustInvoke[*Options](i)

		return mailer.NewSender(options.ResendAPIKey, options.EmailFrom, do.MustInvoke[*zap.Logger](i)), nil
	})
}

// HTTPPackage provides the router and the API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("nuturl", "1.0.0"))
		api.UseMiddleware(
			middleware.CollectRequestMeta(api),
			middleware.RateLimiter(api, do.MustInvoke[ratelimit.Store](i), logger),
			middleware.Bearer(api, options.JWTSecret),
		)

		links := do.MustInvoke[link.Repository](i)
		accounts := do.MustInvoke[account.Repository](i)

		engine := redirect.NewEngine(
			links,
			accounts,
			do.MustInvoke[messaging.Publish[clicks.VisitEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, handlers.Handlers{
			Links: handlers.NewLinkHandler(
				do.MustInvoke[*link.Allocator](i), links, accounts, options.BaseURL, logger,
			),
			Redirect: handlers.NewRedirectHandler(engine, options.FrontendURL),
			Payment: handlers.NewPaymentHandler(
				do.MustInvoke[messaging.Publish[payments.NotificationEvent]](i),
				do.MustInvoke[payments.Provider](i),
				accounts,
				options.FrontendURL,
				options.BaseURL,
				logger,
			),
			Auth: handlers.NewAuthHandler(
				accounts,
				options.JWTSecret,
				do.MustInvoke[messaging.Publish[mailer.EmailRequestedEvent]](i),
				logger,
			),
			Stats:  handlers.NewStatsHandler(do.MustInvoke[handlers.TotalsSource](i), logger),
			Health: handlers.NewHealthHandler(
				handlers.NewRedisPinger(do.MustInvoke[*redis.Client](i)),
				do.MustInvoke[*pgxpool.Pool](i),
			),
		})

		return api, nil
	})
}

// ConsumerGroupPackage provides the stream subscriber and the consumer
// group with the click accountant, the payment reconciler, and the email
// dispatcher.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "nuturl",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)

		accountant := clicks.NewAccountant(do.MustInvoke[link.Repository](i), logger)
		group.Add(messaging.NewConsumer(
			subscriber, clicks.TopicLinkVisited, accountant.Handle, messaging.NackOnError, logger,
		))

		reconciler := payments.NewReconciler(
			do.MustInvoke[payments.Provider](i),
			do.MustInvoke[account.Repository](i),
			do.MustInvoke[messaging.Publish[mailer.EmailRequestedEvent]](i),
			logger,
		)
		group.Add(messaging.NewConsumer(
			subscriber, payments.TopicPaymentNotification, reconciler.Handle, messaging.NackOnError, logger,
		))

		dispatcher := mailer.NewDispatcher(do.MustInvoke[mailer.Sender](i), logger)
		group.Add(messaging.NewConsumer(
			subscriber, mailer.TopicEmailRequested, dispatcher.Handle, messaging.AckOnError, logger,
		))

		return group, nil
	})
}
