package main

import (
	"fmt"
	"log"

	"inventory-manager/internal/auth"
	"inventory-manager/internal/config"
	"inventory-manager/internal/database"
	"inventory-manager/internal/events"
	"inventory-manager/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	db := database.Init(cfg)
	rdb := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	authn, err := auth.NewAuthenticator(db, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to prepare authenticator: %v", err)
	}

	pub := newPublisher(cfg, rdb)
	defer pub.Close()

	r := server.NewRouter(cfg, server.Deps{
		DB:     db,
		Redis:  rdb,
		Tokens: newTokenStore(cfg, rdb),
		Events: pub,
		Authn:  authn,
	})

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newTokenStore(cfg *config.Config, rdb *redis.Client) auth.TokenStore {
	if cfg.TokenStore == "redis" {
		if rdb == nil {
			log.Fatal("TOKEN_STORE=redis but Redis is unavailable")
		}
		log.Println("using Redis token store")
		return auth.NewRedisTokenStore(rdb)
	}
	return auth.NewMemoryTokenStore()
}

func newPublisher(cfg *config.Config, rdb *redis.Client) events.Publisher {
	switch cfg.EventsBackend {
	case "redis":
		if rdb == nil {
			log.Println("WARNING: EVENTS_BACKEND=redis but Redis is unavailable, logging events instead")
			return events.LogPublisher{}
		}
		return events.NewRedisPublisher(rdb)
	case "mqtt":
		pub, err := events.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Printf("WARNING: %v, logging events instead", err)
			return events.LogPublisher{}
		}
		log.Printf("publishing events to MQTT broker %s", cfg.MQTTBroker)
		return pub
	}
	return events.LogPublisher{}
}
