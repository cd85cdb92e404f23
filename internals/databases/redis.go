package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// ConnectRedis: gagal ping tidak fatal, rekonsiliasi akan melaporkan error di tiap run.
func ConnectRedis(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis %s belum bisa dihubungi: %v", addr, err)
	} else {
		log.Printf("✅ Redis connected (%s)", addr)
	}

	Redis = client
	return client
}
