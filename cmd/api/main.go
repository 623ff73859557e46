package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/config"
	"slip-payment-backend/internal/handler"
	"slip-payment-backend/internal/ledger"
	"slip-payment-backend/internal/live"
	"slip-payment-backend/internal/repository"
	"slip-payment-backend/internal/server"
	"slip-payment-backend/internal/service"
	"slip-payment-backend/internal/store"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}

	db := client.InitSqliteClient(cfg.DatabaseURL)
	adminClient := client.NewAdminClient(&cfg.Admin)
	ocrClient := client.NewOCRClient(&cfg.OCR)
	otpClient := client.NewOTPClient(&cfg.OTP)

	orders, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		log.Fatalf("open gift order ledger: %v", err)
	}

	uploads := store.NewPendingUploadStore(cfg.Upload.TTL)
	hub := live.NewHub()

	userRepo := repository.NewUserProfileRepository(db)

	paymentService := service.NewPaymentService(ocrClient, adminClient, uploads, &cfg.OCR, cfg.ExpectedAmount)
	giftService := service.NewGiftService(adminClient, orders)
	userService := service.NewUserService(userRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		handler.NewPaymentHandler(paymentService),
		handler.NewUploadHandler(uploads, cfg.Upload.Dir),
		handler.NewGiftHandler(giftService),
		handler.NewUserHandler(userService),
		handler.NewOTPHandler(otpClient, userService),
		handler.NewMiscHandler(adminClient, ocrClient, &cfg.OCR),
		hub,
		cfg.Upload.Dir,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
	uploads.Close()
	hub.Close()
}
