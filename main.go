package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"covid-dashboard-backend/config"
	"covid-dashboard-backend/internal/broadcaster"
	"covid-dashboard-backend/internal/cache"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/server"
	"covid-dashboard-backend/internal/utils"
	"covid-dashboard-backend/internal/views"
)

func main() {
	fmt.Printf("Starting COVID Dashboard Backend...\n")

	utils.InitializeComponentLoggers()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration loaded\n")

	// Dataset service owns the source tables; views memoize derived results
	// per dataset version, so the views service must exist before the
	// initial load runs.
	dataService := dataset.NewService(appConfig.Dataset)
	memo := cache.NewMemoizer()
	viewsService := views.NewService(appConfig.Views, dataService, memo)

	b := broadcaster.NewBroadcaster(appConfig.Broadcaster, viewsService)
	dataService.OnReload(func(*models.Dataset) {
		b.NotifyReload()
	})

	// Initial load is fatal: the dashboard is useless without its tables
	if err := dataService.Load(); err != nil {
		fmt.Printf("Failed to load dataset: %v\n", err)
		os.Exit(1)
	}

	srv := server.NewServer(appConfig.Server, viewsService, b, dataService)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		dataService.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(ctx); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	fmt.Printf("COVID Dashboard Backend started on %s\n", appConfig.Server.Addr)
	fmt.Printf("Press Ctrl+C to stop...\n")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Printf("Shutdown signal received...\n")

	cancel()

	// Wait for all components to shut down
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Printf("Graceful shutdown completed\n")
	case <-time.After(10 * time.Second):
		fmt.Printf("Shutdown timeout reached\n")
	}
}
