package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mtassembler/imac/api"
	"github.com/mtassembler/imac/asm"
	"github.com/mtassembler/imac/config"
	"github.com/mtassembler/imac/diag"
	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/inspect"
	"github.com/mtassembler/imac/xref"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		configPath  = flag.String("config", "", "Path to config file (default: platform config dir)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		keepAM      = flag.Bool("keep-am", false, "Keep the expanded .am file after assembly")
		showXref    = flag.Bool("xref", false, "Print a symbol cross-reference report after assembly")
		inspectMode = flag.Bool("inspect", false, "Open a TUI symbol/memory browser after assembly")
		serve       = flag.Bool("serve", false, "Start the HTTP API server instead of assembling files")
		port        = flag.Int("port", 8080, "API server port (used with -serve)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("imac %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFrom(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else if loaded, err := config.Load(); err == nil {
		cfg = loaded
	}

	if *serve {
		runServer(*port)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	reporter := diag.NewReporter(os.Stderr)
	reporter.Verbose = *verboseMode || cfg.Diagnostics.Verbose

	opts := asm.DefaultOptions()
	opts.KeepAM = *keepAM || cfg.Output.KeepAM
	opts.Limits = firstpass.Limits{
		CodeWords: cfg.Limits.CodeWords,
		DataWords: cfg.Limits.DataWords,
		ICStart:   cfg.Limits.ICStart,
	}
	if cfg.Output.Directory != "." {
		opts.OutputDir = cfg.Output.Directory
	}
	opts.Progress = func(ev asm.Event) {
		reporter.Trace(ev.Stage, fmt.Sprintf("%s: %s", ev.File, ev.Message))
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		base := strings.TrimSuffix(arg, ".as")

		result, err := asm.AssembleFile(base, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s: %d code word(s), %d data word(s)\n", base, len(result.Code), len(result.Data))

		if *showXref {
			lines, rerr := readAssembledLines(base)
			if rerr != nil {
				fmt.Fprintf(os.Stderr, "%s: could not re-read source for xref: %v\n", base, rerr)
				continue
			}
			report, xerr := xref.Generate(base+".am", lines, result)
			if xerr != nil {
				fmt.Fprintf(os.Stderr, "%s: xref error: %v\n", base, xerr)
				continue
			}
			fmt.Print(report.String())
		}

		if *inspectMode {
			tui := inspect.New(base, result)
			if runErr := tui.Run(); runErr != nil {
				fmt.Fprintf(os.Stderr, "%s: inspector error: %v\n", base, runErr)
			}
		}
	}

	os.Exit(exitCode)
}

func readAssembledLines(base string) ([]string, error) {
	content, err := os.ReadFile(base + ".am")
	if err != nil {
		content, err = os.ReadFile(base + ".as")
		if err != nil {
			return nil, err
		}
	}
	return strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n"), nil
}

func runServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	exe := filepath.Base(os.Args[0])
	fmt.Printf(`imac %s - two-pass assembler for the IMAC instruction set

Usage:
  %s [flags] <source>[.as] [<source>[.as] ...]
  %s -serve [-port N]

Flags:
  -config PATH    Load configuration from PATH instead of the platform default
  -verbose        Print each assembly stage as it runs
  -keep-am        Keep the macro-expanded .am file after assembly
  -xref           Print a symbol cross-reference report after each file
  -inspect        Open a TUI symbol/code/data browser after each file
  -serve          Start the HTTP API server instead of assembling files
  -port N         API server port (default 8080, used with -serve)
  -version        Show version information
  -help           Show this help text

Each source file produces <base>.ob (object image), and <base>.ent / <base>.ext
when the program declares entries or externals.
`, Version, exe, exe)
}
