package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis mengembalikan nil jika REDIS_ADDRESS kosong atau Redis tidak bisa di-ping;
// pemanggil lalu memakai lock lokal.
func ConnectRedis(ctx context.Context, cfg *Config, lg *logrus.Logger) *redis.Client {
	if cfg.RedisAddress == "" {
		lg.Info("REDIS_ADDRESS kosong, memakai lock lokal")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		lg.WithError(err).WithField("addr", cfg.RedisAddress).Warn("Gagal konek Redis, memakai lock lokal")
		_ = rdb.Close()
		return nil
	}

	lg.WithField("addr", cfg.RedisAddress).Info("Terhubung ke Redis")
	return rdb
}
