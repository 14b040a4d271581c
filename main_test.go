package main

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theleywin/Backend-Linkup/src/config"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/server"
	"github.com/theleywin/Backend-Linkup/src/store/memstore"
)

var errListen = errors.New("listen failed")

type trackingQueue struct {
	mail.NopQueue
	started atomic.Bool
	closed  atomic.Bool
}

func (q *trackingQueue) Start(ctx context.Context) { q.started.Store(true) }
func (q *trackingQueue) Close()                    { q.closed.Store(true) }

func memDeps(q mail.Queue) server.Deps {
	return server.Deps{
		Users:         memstore.NewUserStore(),
		Posts:         memstore.NewPostStore(),
		Connections:   memstore.NewConnectionStore(),
		Notifications: memstore.NewNotificationStore(),
		Mail:          q,
	}
}

func TestRunHandlesSignal(t *testing.T) {
	cfg := config.Config{Port: "0", JWTSecret: "secret"}
	signals := make(chan os.Signal, 1)
	queue := &trackingQueue{}

	var listenCalled atomic.Bool
	listen := func(_ *fiber.App, _ string) error {
		listenCalled.Store(true)
		return nil
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		signals <- syscall.SIGINT
	}()

	require.NoError(t, Run(context.Background(), cfg, memDeps(queue), signals, listen))
	assert.True(t, listenCalled.Load())
	assert.True(t, queue.started.Load())
	assert.True(t, queue.closed.Load())
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, config.Config{Port: "0", JWTSecret: "secret"}, memDeps(nil), make(chan os.Signal, 1), func(_ *fiber.App, _ string) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestRunListenError(t *testing.T) {
	queue := &trackingQueue{}
	err := Run(context.Background(), config.Config{Port: "0", JWTSecret: "secret"}, memDeps(queue), make(chan os.Signal, 1), func(_ *fiber.App, _ string) error {
		return errListen
	})
	assert.ErrorIs(t, err, errListen)
	assert.True(t, queue.closed.Load())
}

func TestNewMailQueue(t *testing.T) {
	q, err := newMailQueue(config.Config{})
	require.NoError(t, err)
	assert.IsType(t, mail.NopQueue{}, q)

	q, err = newMailQueue(config.Config{MailtrapToken: "t", MailQueue: "memory", MailWorkers: 1, MailBuffer: 4, MailMaxAttempts: 2})
	require.NoError(t, err)
	assert.IsType(t, &mail.WorkerQueue{}, q)

	_, err = newMailQueue(config.Config{MailtrapToken: "t", MailQueue: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestBuildDepsInMemory(t *testing.T) {
	deps, cleanup, err := buildDeps(context.Background(), config.Config{Store: "memory"})
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, deps.Users)
	assert.Nil(t, deps.Blacklist)
	assert.IsType(t, mail.NopQueue{}, deps.Mail)
}
