package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"erents/internal/app/availability"
	"erents/internal/app/commands"
	bookingapp "erents/internal/app/handlers/booking"
	maintapp "erents/internal/app/handlers/maintenance"
	messagingapp "erents/internal/app/handlers/messaging"
	notificationapp "erents/internal/app/handlers/notifications"
	propertyapp "erents/internal/app/handlers/property"
	rentalapp "erents/internal/app/handlers/rental"
	reviewapp "erents/internal/app/handlers/reviews"
	tenancyapp "erents/internal/app/handlers/tenancy"
	"erents/internal/app/middleware"
	appoutbox "erents/internal/app/outbox"
	"erents/internal/app/policies"
	"erents/internal/app/queries"
	"erents/internal/app/schedule"
	authsvc "erents/internal/app/services/auth"
	"erents/internal/app/uow"
	domainauth "erents/internal/domain/auth"
	domainuser "erents/internal/domain/user"
	"erents/internal/infra/broker/kafka"
	"erents/internal/infra/config"
	mongodb "erents/internal/infra/db/mongo"
	ginserver "erents/internal/infra/http/gin"
	"erents/internal/infra/notify"
	"erents/internal/infra/obs"
	infraoutbox "erents/internal/infra/outbox"
	"erents/internal/infra/security"
	"erents/internal/infra/storage/memory"
	"erents/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err, "mode", cfg.StorageMode)
		os.Exit(1)
	}
	defer store.close(logger)

	authService := &authsvc.Service{
		Users:      store.users,
		Sessions:   store.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	uploader := buildUploader(cfg, logger)
	handlers := buildHandlers(cfg, logger, store, authService, uploader)

	if store.fixtures != nil && cfg.FixturesPath != "" {
		if err := store.fixtures(ctx, cfg.FixturesPath, logger); err != nil {
			logger.Warn("fixtures load failed", "error", err, "path", cfg.FixturesPath)
		}
	}

	startBackground(ctx, cfg, logger, store)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: store.ready,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// storage bundles the backend-specific pieces the rest of main wires
// together, so memory and mongo modes expose one shape.
type storage struct {
	factory     uow.Factory
	users       domainuser.Repository
	sessions    domainauth.SessionStore
	box         appoutbox.Outbox
	outboxStore infraoutbox.Store
	idempotency middleware.IdempotencyStore
	payments    policies.PaymentsPort
	fixtures    func(context.Context, string, *slog.Logger) error
	ready       func() error
	closeFn     func(context.Context) error
}

func (s storage) close(logger *slog.Logger) {
	if s.closeFn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.closeFn(ctx); err != nil {
		logger.Warn("storage close failed", "error", err)
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return storage{}, err
		}
		outboxStore := infraoutbox.NewMongoStore(client.DB)
		return storage{
			factory:     mongodb.NewFactory(client.DB),
			users:       mongodb.NewUserRepository(client.DB),
			sessions:    mongodb.NewSessionStore(client.DB),
			box:         outboxStore,
			outboxStore: outboxStore,
			idempotency: mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL),
			payments:    memory.NewPaymentsLedger(logger),
			ready: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			},
			closeFn: client.Close,
		}, nil
	default:
		factory := memory.NewFactory()
		box := memory.NewOutbox()
		return storage{
			factory:     factory,
			users:       factory.UsersRepo,
			sessions:    memory.NewSessionStore(),
			box:         box,
			outboxStore: box,
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
			payments:    memory.NewPaymentsLedger(logger),
			fixtures:    factory.LoadFixtures,
			ready:       func() error { return nil },
		}, nil
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	client, err := s3.NewClient(s3.Options{
		Endpoint:      cfg.S3Endpoint,
		UseSSL:        cfg.S3UseSSL,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicEndpoint,
		Logger:        logger,
	})
	if err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func buildHandlers(cfg config.Config, logger *slog.Logger, store storage, authService *authsvc.Service, uploader s3.Uploader) ginserver.Handlers {
	checker := &availability.Checker{Logger: logger}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	commands.RegisterHandler(commandBus, rentalapp.CreateRequestCommand{}.Key(), &rentalapp.CreateRequestHandler{
		UoWFactory: store.factory, Availability: checker, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.ApproveRequestCommand{}.Key(), &rentalapp.ApproveRequestHandler{
		UoWFactory: store.factory, Availability: checker, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.RejectRequestCommand{}.Key(), &rentalapp.RejectRequestHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.CancelRequestCommand{}.Key(), &rentalapp.CancelRequestHandler{
		UoWFactory: store.factory, Payments: store.payments, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.UpdateRequestCommand{}.Key(), &rentalapp.UpdateRequestHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.DeleteRequestCommand{}.Key(), &rentalapp.DeleteRequestHandler{
		UoWFactory: store.factory,
	})
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: store.factory, Availability: checker, Payments: store.payments, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: store.factory, Payments: store.payments, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.CreatePropertyCommand{}.Key(), &propertyapp.CreatePropertyHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.UpdatePropertyCommand{}.Key(), &propertyapp.UpdatePropertyHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.ChangeStatusCommand{}.Key(), &propertyapp.ChangeStatusHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, propertyapp.UploadPhotoCommand{}.Key(), &propertyapp.UploadPhotoHandler{
		Logger: logger, Uploader: uploader,
	})
	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, reviewapp.UpdateReviewCommand{}.Key(), &reviewapp.UpdateReviewHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, maintapp.OpenTicketCommand{}.Key(), &maintapp.OpenTicketHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, maintapp.TransitionTicketCommand{}.Key(), &maintapp.TransitionTicketHandler{
		UoWFactory: store.factory, Outbox: store.box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, messagingapp.StartConversationCommand{}.Key(), &messagingapp.StartConversationHandler{
		UoWFactory: store.factory,
	})
	commands.RegisterHandler(commandBus, messagingapp.SendMessageCommand{}.Key(), &messagingapp.SendMessageHandler{
		UoWFactory: store.factory,
	})
	commands.RegisterHandler(commandBus, notificationapp.MarkReadCommand{}.Key(), &notificationapp.MarkReadHandler{
		UoWFactory: store.factory,
	})

	queries.RegisterHandler(queryBus, rentalapp.GetRequestQuery{}.Key(), &rentalapp.GetRequestHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, rentalapp.ListTenantRequestsQuery{}.Key(), &rentalapp.ListTenantRequestsHandler{UoWFactory: store.factory, Logger: logger})
	queries.RegisterHandler(queryBus, rentalapp.ListPropertyRequestsQuery{}.Key(), &rentalapp.ListPropertyRequestsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, bookingapp.ListTenantBookingsQuery{}.Key(), &bookingapp.ListTenantBookingsHandler{UoWFactory: store.factory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.ListPropertyBookingsQuery{}.Key(), &bookingapp.ListPropertyBookingsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, propertyapp.GetPropertyQuery{}.Key(), &propertyapp.GetPropertyHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, propertyapp.SearchPropertiesQuery{}.Key(), &propertyapp.SearchPropertiesHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, propertyapp.ListOwnerPropertiesQuery{}.Key(), &propertyapp.ListOwnerPropertiesHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, reviewapp.ListPropertyReviewsQuery{}.Key(), &reviewapp.ListPropertyReviewsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, maintapp.ListPropertyTicketsQuery{}.Key(), &maintapp.ListPropertyTicketsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, maintapp.ListReporterTicketsQuery{}.Key(), &maintapp.ListReporterTicketsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, messagingapp.ListConversationsQuery{}.Key(), &messagingapp.ListConversationsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, messagingapp.ListMessagesQuery{}.Key(), &messagingapp.ListMessagesHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, notificationapp.ListNotificationsQuery{}.Key(), &notificationapp.ListNotificationsHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, tenancyapp.ListTenantTenanciesQuery{}.Key(), &tenancyapp.ListTenantTenanciesHandler{UoWFactory: store.factory})
	queries.RegisterHandler(queryBus, tenancyapp.ActiveForPropertyQuery{}.Key(), &tenancyapp.ActiveForPropertyHandler{UoWFactory: store.factory})

	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(store.idempotency, nil),
		middleware.Transaction(store.factory, nil),
		middleware.OutboxFlush(store.box),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	return ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Property:       ginserver.PropertyHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Rental:         ginserver.RentalHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Booking:        ginserver.BookingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Tenancy:        ginserver.TenancyHandler{Queries: queryPipeline, Logger: logger},
		Review:         ginserver.ReviewHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Maintenance:    ginserver.MaintenanceHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Messaging:      ginserver.MessagingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Notification:   ginserver.NotificationHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		AuthMiddleware: authMW.Handle,
	}
}

// startBackground launches the outbox relay, the notification projector and
// the lifecycle sweeper. Kafka pieces are skipped when no brokers are
// configured; recorded events then stay queued in the outbox.
func startBackground(ctx context.Context, cfg config.Config, logger *slog.Logger, store storage) {
	sweeper := &schedule.Sweeper{
		UoWFactory: store.factory,
		Outbox:     store.box,
		Encoder:    appoutbox.JSONEventEncoder{},
		Logger:     logger,
		Interval:   cfg.SweepInterval,
	}
	go sweeper.Run(ctx)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka brokers not configured, event relay disabled")
		return
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		return
	}
	worker := &infraoutbox.Worker{
		Store:       store.outboxStore,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		ID:          uuid.NewString(),
		Backoff:     cfg.RetryBackoff,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	projector := &notify.Projector{UoWFactory: store.factory, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "erents-notifications", nil, projector, logger)
	if err != nil {
		logger.Error("kafka consumer init failed", "error", err)
		return
	}
	go func() {
		defer consumer.Close()
		if err := consumer.Run(ctx, notify.Topics(cfg.KafkaTopicPrefix)); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification consumer stopped", "error", err)
		}
	}()
}
