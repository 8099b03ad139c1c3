package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeflow/api/internal/auth"
	"homeflow/api/internal/config"
	"homeflow/api/internal/httpapi"
	"homeflow/api/internal/listings"
	"homeflow/api/internal/store/memory"
	"homeflow/api/internal/telemetry"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("homeflow-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("upload dir: %v", err)
	}
	if cfg.ListingsAPIKey == "" {
		log.Printf("warning: no listings API key configured, upstream queries will fail")
	}

	var hasher auth.PasswordHasher = auth.Plaintext{}
	if cfg.HashPasswords {
		hasher = auth.Bcrypt{}
	}
	var tokens auth.TokenCodec = auth.IdentityTokens{}
	if cfg.TokenSecret != "" {
		tokens = auth.JWTTokens{Secret: []byte(cfg.TokenSecret), TTL: 24 * time.Hour}
	}

	st := memory.NewStore(hasher)
	client := listings.NewClient(cfg.ListingsAPIURL, cfg.ListingsAPIKey)
	cache := listings.NewCache(client, cfg.CacheFreshness)

	handler := httpapi.NewHandler(httpapi.Options{
		Store:     st,
		Search:    client,
		Latest:    cache,
		Tokens:    tokens,
		UploadDir: cfg.UploadDir,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(handler.Routes()), "homeflow-api")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("homeflow-api listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
