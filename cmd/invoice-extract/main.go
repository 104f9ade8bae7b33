package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-extract/internal/extraction"
	"github.com/zombor/invoice-extract/internal/invoice"
	"github.com/zombor/invoice-extract/internal/pdfio"
	"github.com/zombor/invoice-extract/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Load API keys from a local .env if present
	_ = godotenv.Load()

	fs := ff.NewFlagSet("invoice-extract")
	var (
		backendType = fs.StringLong("backend", "pattern", "Extraction backend: 'pattern', 'gemini' or 'reducto'")
		output      = fs.StringLong("output", "", "Output JSON file path (default: stdout)")
		pretty      = fs.BoolLong("pretty", "Pretty print JSON output")
		debug       = fs.BoolLong("debug", "Enable debug output")
		dbPath      = fs.StringLong("db", "", "Record extraction history in this database file (optional)")
		serve       = fs.BoolLong("serve", "Run the HTTP API instead of one-shot extraction")
		port        = fs.IntLong("port", 8080, "HTTP server port (serve mode)")
		storagePath = fs.StringLong("storage", "./invoices", "Storage directory for uploaded documents (serve mode)")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		reductoURL  = fs.StringLong("reducto-url", "", "Parse API base URL")
		reductoKey  = fs.StringLong("reducto-key", "", "Parse API key (or set REDUCTO_API_KEY env var)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (serve mode, optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (serve mode, optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_EXTRACT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	extractor := buildExtractor(*backendType, *debug, *geminiKey, *geminiModel, *reductoURL, *reductoKey)
	defer extractor.Close()

	if *serve {
		runServer(extractor, *dbPath, *storagePath, *port, *authUser, *authPass)
		return
	}

	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: exactly one input file is required")
		os.Exit(1)
	}

	runOnce(extractor, args[0], *output, *pretty, *dbPath)
}

// buildExtractor creates the requested extraction backend
func buildExtractor(backendType string, debug bool, geminiKey, geminiModel, reductoURL, reductoKey string) invoice.Extractor {
	switch backendType {
	case "pattern":
		return extraction.NewBackend(extraction.NewEngine(debug), pdfio.NewReader())
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini backend...", "model", geminiModel)
		extractor, err := scanning.NewGemini(apiKey, geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		return extractor
	case "reducto":
		apiKey := reductoKey
		if apiKey == "" {
			apiKey = os.Getenv("REDUCTO_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Parse API key is required. Set --reducto-key flag or REDUCTO_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing parse API backend...", "url", reductoURL)
		extractor, err := scanning.NewReducto(reductoURL, apiKey, extraction.NewEngine(debug))
		if err != nil {
			slog.Error("Failed to initialize parse API client", "error", err)
			os.Exit(1)
		}
		return extractor
	default:
		slog.Error("Invalid backend type", "type", backendType, "valid", "pattern, gemini or reducto")
		os.Exit(1)
		return nil
	}
}

// runOnce extracts a single file and writes the record as JSON
func runOnce(extractor invoice.Extractor, path, output string, pretty bool, dbPath string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read input file", "path", path, "error", err)
		os.Exit(1)
	}

	record, err := extractor.Extract(context.Background(), path, data)
	if err != nil {
		slog.Error("Extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	if dbPath != "" {
		db, err := invoice.NewBoltDB(dbPath)
		if err != nil {
			slog.Error("Failed to open database", "path", dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		record.ID = fmt.Sprintf("%d", time.Now().UnixNano())
		if err := db.SaveRecord(record); err != nil {
			slog.Error("Failed to save record", "error", err)
			os.Exit(1)
		}
	}

	var jsonOutput []byte
	if pretty {
		jsonOutput, err = json.MarshalIndent(record, "", "  ")
	} else {
		jsonOutput, err = json.Marshal(record)
	}
	if err != nil {
		slog.Error("Failed to encode record", "error", err)
		os.Exit(1)
	}

	if output != "" {
		if err := os.WriteFile(output, jsonOutput, 0644); err != nil {
			slog.Error("Failed to write output file", "path", output, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Invoice data extracted and saved to: %s\n", output)
	} else {
		fmt.Println(string(jsonOutput))
	}
}

// runServer starts the HTTP API and blocks until interrupted
func runServer(extractor invoice.Extractor, dbPath, storagePath string, port int, authUser, authPass string) {
	if dbPath == "" {
		dbPath = "invoice-extract.db"
	}

	slog.Info("Initializing database...")
	db, err := invoice.NewBoltDB(dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Initializing storage...")
	store, err := invoice.NewLocalStorage(storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := invoice.NewService(db, extractor, store)
	server := invoice.NewServer(service, invoice.BasicAuth{
		Username: authUser,
		Password: authPass,
	})

	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if authUser != "" || authPass != "" {
		slog.Info("Basic auth enabled", "user", authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
