package mgo

import (
	"context"
	"sync"
	"time"

	"PMeet/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration // default 5s
}

type Manager struct {
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

var globalMgr Manager

// Connect dials Mongo and verifies the connection with a ping. The user
// surface is the only consumer, so a synchronous connect at startup is
// enough; the driver reconnects on its own afterwards.
func Connect(ctx context.Context, cfg Config) error {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cli, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return err
	}
	if err := cli.Ping(cctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return err
	}

	globalMgr.mu.Lock()
	globalMgr.client = cli
	globalMgr.db = cli.Database(cfg.Database)
	globalMgr.mu.Unlock()

	logger.Infof("[mgo] connected database=%s", cfg.Database)
	return nil
}

// DB returns the configured database, nil before Connect succeeds.
func DB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	return globalMgr.db
}

func Close(ctx context.Context) error {
	globalMgr.mu.Lock()
	defer globalMgr.mu.Unlock()
	if globalMgr.client == nil {
		return nil
	}
	err := globalMgr.client.Disconnect(ctx)
	globalMgr.client = nil
	globalMgr.db = nil
	return err
}
