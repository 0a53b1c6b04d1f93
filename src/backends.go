package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/config"
	"github.com/togengine-byte/CRM-sub003/internal/httpclient"
	"github.com/togengine-byte/CRM-sub003/internal/store"
)

const connectTimeout = 10 * time.Second

// backends owns the history repository, the weight store and any shared
// client they were built on.
type backends struct {
	history store.HistoryRepository
	weights store.WeightStore
	mongo   *mongo.Client
}

func (b *backends) Close(ctx context.Context) {
	if b.history != nil {
		_ = b.history.Close()
	}
	if b.weights != nil {
		_ = b.weights.Close()
	}
	if b.mongo != nil {
		_ = b.mongo.Disconnect(ctx)
	}
}

func buildBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backends, error) {
	b := &backends{}
	ok := false
	defer func() {
		if !ok {
			b.Close(context.Background())
		}
	}()

	if cfg.Store.History == config.HistoryMongo || cfg.Store.Weights == config.WeightsMongo {
		client, err := connectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		b.mongo = client
		logger.Info("mongo enabled", zap.String("db", cfg.Mongo.Database))
	}

	var snap *store.Snapshot
	if cfg.Store.Snapshot != "" && cfg.Store.History == config.HistoryMemory {
		s, err := readSnapshot(cfg.Store.Snapshot)
		if err != nil {
			return nil, err
		}
		snap = s
	}

	history, err := buildHistory(ctx, cfg, b.mongo, snap, logger)
	if err != nil {
		return nil, err
	}
	b.history = history

	weights, err := buildWeights(ctx, cfg, b.mongo)
	if err != nil {
		return nil, err
	}
	b.weights = weights

	// Snapshot weights only seed the in-process store; persistent stores
	// keep whatever was saved through the API.
	if snap != nil && snap.Weights != nil && cfg.Store.Weights == config.WeightsMemory {
		if err := weights.SaveWeights(ctx, *snap.Weights); err != nil {
			return nil, err
		}
	}

	logger.Info("stores ready",
		zap.String("history", cfg.Store.History),
		zap.String("weights", cfg.Store.Weights),
	)
	ok = true
	return b, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func buildHistory(ctx context.Context, cfg *config.Config, client *mongo.Client, snap *store.Snapshot, logger *zap.Logger) (store.HistoryRepository, error) {
	switch cfg.Store.History {
	case config.HistoryMongo:
		ms := store.NewMongoStore(client, cfg.Mongo.Database)
		if err := ms.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo index creation failed", zap.Error(err))
		}
		return ms, nil

	case config.HistorySQLite:
		ss, err := store.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := ss.InitSchema(ctx); err != nil {
			_ = ss.Close()
			return nil, err
		}
		return ss, nil

	case config.HistoryCRM:
		opts := []httpclient.Option{httpclient.WithLogger(logger)}
		retry := httpclient.DefaultRetryConfig()
		retry.MaxRetries = cfg.CRM.MaxRetries
		opts = append(opts, httpclient.WithRetry(retry))
		if cfg.CRM.APIKey != "" {
			opts = append(opts, httpclient.WithAuth(&httpclient.APIKeyAuth{Header: "X-API-Key", Key: cfg.CRM.APIKey}))
		}
		return store.NewCRMStore(cfg.CRM.BaseURL, httpclient.NewClient("crm", cfg.CRM.Timeout, opts...)), nil

	default:
		if snap == nil {
			logger.Warn("memory history store has no snapshot, every supplier starts empty")
			return store.NewMemoryStore(), nil
		}
		return snap.MemoryStore(ctx)
	}
}

func buildWeights(ctx context.Context, cfg *config.Config, client *mongo.Client) (store.WeightStore, error) {
	switch cfg.Store.Weights {
	case config.WeightsMongo:
		return store.NewMongoWeightStore(client, cfg.Mongo.Database), nil
	case config.WeightsRedis:
		return store.NewRedisWeightStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key)
	case config.WeightsFirestore:
		return store.NewFirestoreWeightStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Collection, cfg.Firestore.CredentialsFile)
	default:
		return store.NewMemoryWeightStore(), nil
	}
}

func readSnapshot(path string) (*store.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := store.LoadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
