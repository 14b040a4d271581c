package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/config"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/media"
	"github.com/theleywin/Backend-Linkup/src/server"
	"github.com/theleywin/Backend-Linkup/src/store"
	"github.com/theleywin/Backend-Linkup/src/store/memstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(lib.NewLogger(cfg.LogLevel))

	ctx := context.Background()
	deps, cleanup, err := buildDeps(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := Run(ctx, cfg, deps, signals, nil); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}

// buildDeps connects the configured backends. cleanup releases them after
// the server has stopped.
func buildDeps(ctx context.Context, cfg config.Config) (server.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	var deps server.Deps

	switch cfg.Store {
	case "memory":
		slog.Warn("using in-memory store, data is lost on restart")
		deps.Users = memstore.NewUserStore()
		deps.Posts = memstore.NewPostStore()
		deps.Connections = memstore.NewConnectionStore()
		deps.Notifications = memstore.NewNotificationStore()
	default:
		client, db, err := lib.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("mongo disconnect", "error", err)
			}
		})
		if err := lib.EnsureIndexes(ctx, db); err != nil {
			cleanup()
			return deps, func() {}, err
		}
		deps.Users = store.NewMongoUserStore(db)
		deps.Posts = store.NewMongoPostStore(db)
		deps.Connections = store.NewMongoConnectionStore(db)
		deps.Notifications = store.NewMongoNotificationStore(db)
	}

	if rdb := lib.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword); rdb != nil {
		deps.Blacklist = lib.NewRedisTokenBlacklist(rdb)
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		slog.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	if cfg.GCSBucket != "" {
		images, err := media.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			cleanup()
			return deps, func() {}, err
		}
		closers = append(closers, func() {
			if err := images.Close(); err != nil {
				slog.Error("gcs client close", "error", err)
			}
		})
		deps.Images = images
	} else {
		slog.Warn("GCS_BUCKET not set, image uploads are disabled")
		deps.Images = media.Disabled{}
	}

	queue, err := newMailQueue(cfg)
	if err != nil {
		cleanup()
		return deps, func() {}, err
	}
	deps.Mail = queue

	return deps, cleanup, nil
}

func newMailQueue(cfg config.Config) (mail.Queue, error) {
	if cfg.MailtrapToken == "" {
		slog.Warn("MAILTRAP_TOKEN not set, emails are dropped")
		return mail.NopQueue{}, nil
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		return nil, err
	}
	sender := mail.NewMailtrapSender(cfg.MailtrapEndpoint, cfg.MailtrapToken, mail.Address{Email: cfg.EmailFrom, Name: cfg.EmailFromName})
	deliverer := mail.NewDeliverer(renderer, sender, cfg.MailMaxAttempts)

	switch cfg.MailQueue {
	case "kafka":
		return mail.NewKafkaQueue(deliverer, cfg.Brokers(), cfg.KafkaEmailTopic, cfg.KafkaGroup)
	case "memory", "":
		return mail.NewWorkerQueue(deliverer, cfg.MailWorkers, cfg.MailBuffer), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_QUEUE %q", cfg.MailQueue)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

// Run starts the mail queue and the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, deps server.Deps, signals <-chan os.Signal, listen ListenFunc) error {
	if deps.Mail == nil {
		deps.Mail = mail.NopQueue{}
	}
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	deps.Mail.Start(queueCtx)

	srv := server.NewServer(cfg, deps)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port)
		errCh <- listen(srv.App, ":"+cfg.Port)
	}()

	var runErr error
	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.App.ShutdownWithContext(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	deps.Mail.Close()
	slog.Info("server stopped")
	return runErr
}
