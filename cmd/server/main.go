// Package main is the entry point for the AI teacher service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nithin01010/AI-Teacher/config"
	"github.com/nithin01010/AI-Teacher/internal/api"
	"github.com/nithin01010/AI-Teacher/internal/events"
	"github.com/nithin01010/AI-Teacher/internal/handlers"
	"github.com/nithin01010/AI-Teacher/internal/llm"
	"github.com/nithin01010/AI-Teacher/internal/redisx"
	"github.com/nithin01010/AI-Teacher/internal/scene"
	"github.com/nithin01010/AI-Teacher/internal/store"
	"github.com/nithin01010/AI-Teacher/internal/typeset"
	"github.com/nithin01010/AI-Teacher/internal/validator"
)

const (
	version         = "0.3.1"
	shutdownTimeout = 5 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting AI Teacher v%s", version)

	cfg := config.Load()
	log.Printf("Configuration loaded - Model: %s, Provider: %s", cfg.Model, cfg.ProviderBaseURL)

	if cfg.ProviderAPIKey == "" {
		log.Printf("WARNING: OPENAI_API_KEY is not set; generation requests will fail")
	}

	provider := llm.NewOpenAIClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.Model)

	renderer := typeset.New(cfg.TypesetBin, cfg.TypesetArgs...)
	if !renderer.Available() {
		log.Printf("No typeset binary configured; equations fall back to plain text server-side")
	}

	checker, err := validator.New(cfg.CommandSchemaPath)
	if err != nil {
		log.Fatalf("Failed to initialize command validator: %v", err)
	}

	var requestLog *store.Store
	requestLog, err = store.Open(cfg.DataStoreDSN)
	if err != nil {
		log.Printf("Request log disabled: %v", err)
		requestLog = nil
	} else {
		defer requestLog.Close()
	}

	redisClient, err := redisx.NewClient(redisx.Config{
		Addr:        cfg.RedisAddr,
		Username:    cfg.RedisUsername,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		TLSEnabled:  cfg.RedisTLSEnabled,
		TLSInsecure: cfg.RedisTLSInsecure,
	})
	if err != nil {
		log.Printf("Redis unavailable, event feed stays local: %v", err)
	}
	bus := events.NewBus(events.Options{Client: redisClient, Channel: cfg.EventsChannel})

	session := scene.NewSession()

	var glog handlers.GenerationLog
	if requestLog != nil {
		glog = requestLog
	}
	handler := handlers.New(provider, session, renderer, checker, glog, bus, handlers.Options{
		Model:          cfg.Model,
		SystemPrompt:   cfg.SystemPrompt,
		HistoryLimit:   cfg.HistoryLimit,
		RequestTimeout: cfg.RequestTimeout,
		Version:        version,
	})

	server := api.NewServer(handler, api.Options{
		APIToken:  cfg.APIToken,
		StaticDir: cfg.StaticDir,
	})
	srv := server.Start(":" + cfg.ServerPort)
	log.Printf("Listening on :%s", cfg.ServerPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
