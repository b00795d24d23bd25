package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

var (
	clients       = flag.Int("clients", 1000, "Number of concurrent WebSocket clients")
	duration      = flag.Duration("duration", 60*time.Second, "Test duration")
	serverURL     = flag.String("url", "ws://localhost:8080/ws", "Dashboard WebSocket URL")
	rampUp        = flag.Duration("rampup", 10*time.Second, "Time to ramp up all clients")
	printInterval = flag.Duration("print", 5*time.Second, "Statistics print interval")
)

// Stats counts what the simulated dashboards received. Every client should
// get one snapshot on connect and one per dataset reload during the run.
type Stats struct {
	connected    int64
	disconnected int64
	snapshots    int64
	unexpected   int64
	errors       int64
}

func main() {
	flag.Parse()

	fmt.Printf("Dashboard WebSocket Load Test\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("   Clients: %d\n", *clients)
	fmt.Printf("   Duration: %v\n", *duration)
	fmt.Printf("   Server: %s\n", *serverURL)
	fmt.Printf("   Ramp-up: %v\n", *rampUp)
	fmt.Printf("\n")

	u, err := url.Parse(*serverURL)
	if err != nil {
		log.Fatalf("Invalid URL: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var stats Stats
	var wg sync.WaitGroup

	go reportStats(ctx, &stats)

	// Spread connection attempts over the ramp-up window
	clientInterval := *rampUp / time.Duration(*clients)

	fmt.Printf("Starting %d clients over %v\n", *clients, *rampUp)

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go startClient(ctx, &wg, u, i, &stats)

		if clientInterval > 0 {
			time.Sleep(clientInterval)
		}
		if (i+1)%100 == 0 {
			fmt.Printf("   Started %d/%d clients...\n", i+1, *clients)
		}
	}

	fmt.Printf("All %d clients started\n", *clients)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		fmt.Printf("\nTest duration completed\n")
	case <-sigChan:
		fmt.Printf("\nInterrupted by user\n")
		cancel()
	}

	fmt.Printf("Waiting for clients to disconnect...\n")
	wg.Wait()

	snapshots := atomic.LoadInt64(&stats.snapshots)
	errors := atomic.LoadInt64(&stats.errors)
	fmt.Printf("\nFinal Statistics:\n")
	fmt.Printf("   Peak Connected: %d\n", atomic.LoadInt64(&stats.connected))
	fmt.Printf("   Snapshots: %d\n", snapshots)
	fmt.Printf("   Unexpected Messages: %d\n", atomic.LoadInt64(&stats.unexpected))
	fmt.Printf("   Errors: %d\n", errors)
	if snapshots+errors > 0 {
		fmt.Printf("   Success Rate: %.2f%%\n", 100.0*float64(snapshots)/float64(snapshots+errors))
	}
}

func startClient(ctx context.Context, wg *sync.WaitGroup, u *url.URL, clientID int, stats *Stats) {
	defer wg.Done()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&stats.errors, 1)
		return
	}
	defer conn.Close()

	atomic.AddInt64(&stats.connected, 1)
	defer atomic.AddInt64(&stats.disconnected, 1)

	go func() {
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				_, message, err := conn.ReadMessage()
				if err != nil {
					if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						atomic.AddInt64(&stats.errors, 1)
					}
					return
				}

				var envelope struct {
					Type string `json:"type"`
				}
				if err := json.Unmarshal(message, &envelope); err != nil || envelope.Type != "dashboard" {
					atomic.AddInt64(&stats.unexpected, 1)
					continue
				}
				count := atomic.AddInt64(&stats.snapshots, 1)

				// Log a few payload sizes for a size sanity check
				if count <= 5 {
					fmt.Printf("Client %d received snapshot (%d bytes)\n", clientID, len(message))
				}
			}
		}
	}()

	// Keep the connection alive for the whole run
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				atomic.AddInt64(&stats.errors, 1)
				return
			}
		}
	}
}

func reportStats(ctx context.Context, stats *Stats) {
	ticker := time.NewTicker(*printInterval)
	defer ticker.Stop()

	var lastSnapshots int64
	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			connected := atomic.LoadInt64(&stats.connected)
			disconnected := atomic.LoadInt64(&stats.disconnected)
			snapshots := atomic.LoadInt64(&stats.snapshots)
			errors := atomic.LoadInt64(&stats.errors)

			currentActive := connected - disconnected
			snapshotsThisInterval := snapshots - lastSnapshots
			rate := float64(snapshotsThisInterval) / printInterval.Seconds()
			totalRate := float64(snapshots) / time.Since(startTime).Seconds()

			fmt.Printf("[STATS] Active: %d | Snapshots: %d (+%d) | Rate: %.1f/s (avg: %.1f/s) | Errors: %d\n",
				currentActive, snapshots, snapshotsThisInterval, rate, totalRate, errors)

			lastSnapshots = snapshots
		}
	}
}
