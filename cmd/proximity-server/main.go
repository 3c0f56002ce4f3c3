// Package main provides the proximity HTTP API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/net/netutil"

	"github.com/aydeggy-dot/proximity/internal/groups"
	"github.com/aydeggy-dot/proximity/internal/httpapi"
	"github.com/aydeggy-dot/proximity/internal/logging"
	"github.com/aydeggy-dot/proximity/internal/store"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("proximity-server version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	elasticURL := getEnv("ELASTIC_URL", "http://localhost:9200")
	groupsIndex := getEnv("GROUPS_INDEX", "groups")
	seedFile := getEnv("SEED_FILE", "")
	maxConns := getEnvInt("MAX_CONNS", 256)
	logLevel := logging.FromEnv("LOG_LEVEL")

	log.Printf("Starting proximity API server...")
	log.Printf("Port: %s", port)
	log.Printf("Elasticsearch URL: %s", elasticURL)
	log.Printf("Groups index: %s", groupsIndex)
	log.Printf("Log level: %s", logLevel)

	// Initialize the group store.
	groupStore, err := store.NewElasticStore(elasticURL, groupsIndex, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}
	defer groupStore.Close()

	ctx := context.Background()
	if err := groupStore.EnsureIndex(ctx); err != nil {
		log.Fatalf("Failed to ensure groups index: %v", err)
	}

	// Seed the index from a groups file when one is configured.
	if seedFile != "" {
		log.Printf("Seeding groups from %s", seedFile)
		file, err := groups.ParseGroupsFileWithLogLevel(seedFile, logLevel)
		if err != nil {
			log.Fatalf("Failed to parse seed file: %v", err)
		}
		if err := groupStore.SeedGroups(ctx, file.Groups); err != nil {
			log.Fatalf("Failed to seed groups: %v", err)
		}
		log.Printf("Seeded %d groups", len(file.Groups))
	}

	// Setup router.
	handler := httpapi.NewHandler(groupStore, logLevel)
	router := httpapi.SetupRouter(handler)

	// Start server with a bounded number of concurrent connections.
	addr := fmt.Sprintf(":%s", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", addr, err)
	}
	listener = netutil.LimitListener(listener, maxConns)

	log.Printf("Server listening on %s (max %d connections)", addr, maxConns)
	log.Printf("Health check: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/groups/nearby")

	server := &http.Server{Handler: router}
	if err := server.Serve(listener); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("Ignoring invalid %s value %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Proximity API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  proximity-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  ELASTIC_URL             Elasticsearch URL (default: http://localhost:9200)")
	fmt.Println("  GROUPS_INDEX            Elasticsearch index name (default: groups)")
	fmt.Println("  SEED_FILE               Path to a groups.json file to seed the index (optional)")
	fmt.Println("  MAX_CONNS               Maximum concurrent connections (default: 256)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               Log level: debug, info, warning, error (default: error)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  proximity-server")
	fmt.Println()
	fmt.Println("  # Start server on custom port with seeded data")
	fmt.Println("  PORT=3000 SEED_FILE=./groups.json proximity-server")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                    Health check")
	fmt.Println("  GET /v1/groups/nearby          Nearby groups, ranked by distance")
	fmt.Println()
}
