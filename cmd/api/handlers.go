package main

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/secrets"
	"github.com/xavierca1/ligue-crm/internal/infra/snapshot"
	"github.com/xavierca1/ligue-crm/internal/infra/token"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// app owns every long-lived dependency of the API process.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	Router http.Handler

	store     *memory.Store
	db        *sql.DB
	rabbit    *queue.RabbitMQ
	consumer  *amqp.Channel
	snapshots *snapshot.SQLiteStore
	limiter   *handlers.RateLimiter
	mailer    queue.WelcomeSender
}

func newApp(cfg *config.Config, logger *log.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: logger, store: memory.NewStore()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	hasher := secrets.NewBcryptHasher(cfg.BcryptCost)
	if err := a.loadStore(hasher); err != nil {
		return nil, err
	}

	// 1. Repositories
	var customers usecase.CustomerRepository = a.store
	var leads usecase.LeadRepository = a.store
	if cfg.DatabaseURL != "" {
		a.db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(a.db); err != nil {
			return nil, err
		}
		customers = database.NewCustomerRepository(a.db)
		leads = database.NewLeadRepository(a.db)
		logger.Info("customers and leads stored in postgres")
	}

	// 2. Events
	var publisher usecase.EventPublisher = queue.NewLogPublisher(logger)
	if cfg.RabbitMQURL != "" {
		a.rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		a.consumer, err = a.rabbit.Conn.Channel()
		if err != nil {
			return nil, errors.Wrap(err, "open consumer channel")
		}
		publisher = queue.NewProducer(a.rabbit.Ch)
	}
	if cfg.MailEnabled() {
		a.mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom)
	}

	// 3. Use cases
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	customerUC := usecase.NewCustomerUseCase(customers, publisher, logger)
	leadUC := usecase.NewLeadUseCase(leads, publisher, logger)
	authUC := usecase.NewAuthUseCase(a.store, hasher, tokens, publisher, logger)

	// 4. Router
	var records handlers.RecordCounter = a.store
	if a.db != nil {
		records = postgresRecords{db: a.db, users: a.store}
	}
	var rabbitConn *amqp.Connection
	if a.rabbit != nil {
		rabbitConn = a.rabbit.Conn
	}
	a.limiter = handlers.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	a.Router = handlers.NewRouter(handlers.RouterConfig{
		Customers:      customerUC,
		Leads:          leadUC,
		Auth:           authUC,
		Users:          a.store,
		Tokens:         tokens,
		Health:         handlers.NewHealthHandler(records, a.db, rabbitConn, cfg.Version),
		Log:            logger,
		Latency:        cfg.Latency,
		FailureRate:    cfg.FailureRate,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginLimiter:   a.limiter,
		TrustProxy:     cfg.TrustProxy,
	})
	return a, nil
}

// postgresRecords reports customers and leads from postgres and users from memory.
type postgresRecords struct {
	db    *sql.DB
	users *memory.Store
}

func (p postgresRecords) RecordCounts(ctx context.Context) (map[string]int, error) {
	counts, err := database.RecordCounts(ctx, p.db)
	if err != nil {
		return nil, err
	}
	counts["users"] = p.users.Counts()["users"]
	return counts, nil
}

// loadStore restores the last snapshot when one exists and seeds the demo data otherwise.
func (a *app) loadStore(hasher *secrets.BcryptHasher) error {
	if a.cfg.SnapshotEnabled() {
		s, err := snapshot.NewSQLiteStore(a.cfg.SnapshotPath)
		if err != nil {
			return err
		}
		a.snapshots = s

		snap, ok, err := s.Load(context.Background())
		if err != nil {
			return err
		}
		if ok {
			if a.cfg.DatabaseURL != "" {
				snap = memory.Snapshot{Users: snap.Users, Sequences: memory.Sequences{User: snap.Sequences.User}}
			}
			a.store.Restore(snap)
			a.log.WithFields(log.Fields{"path": s.Path(), "records": a.store.Counts()}).Info("store restored from snapshot")
			return nil
		}
	}

	if !a.cfg.SeedData {
		return nil
	}
	if a.cfg.DatabaseURL != "" {
		// customers and leads come from postgres, only the demo accounts are needed
		if err := memory.SeedUsers(a.store, hasher.Hash); err != nil {
			return errors.Wrap(err, "seed users")
		}
		a.log.WithField("records", a.store.Counts()).Info("demo users seeded")
		return nil
	}
	if err := memory.Seed(a.store, hasher.Hash); err != nil {
		return errors.Wrap(err, "seed store")
	}
	a.log.WithField("records", a.store.Counts()).Info("store seeded with demo data")
	return nil
}

// StartBackground launches the workers; each one stops when ctx is done.
func (a *app) StartBackground(ctx context.Context, wg *sync.WaitGroup) {
	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	go a.limiter.Cleanup(a.cfg.LoginRateWindow, stop)

	if a.snapshots != nil {
		w := worker.NewSnapshotWorker(a.store, a.snapshots, a.cfg.SnapshotInterval, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}

	if a.consumer != nil {
		w := queue.NewWorker(a.consumer, a.mailer, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Start(ctx, queue.QueueName); err != nil {
				a.log.WithError(err).Error("event worker stopped")
			}
		}()
	}
}

func (a *app) Close() {
	if a.consumer != nil {
		a.consumer.Close()
	}
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.log.WithError(err).Warn("close rabbitmq")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.snapshots != nil {
		a.snapshots.Close()
	}
}
