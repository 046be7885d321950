package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/pixasobu-mcp/internal/enhance"
	"github.com/ironsheep/pixasobu-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixasobu-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := server.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Debug {
		log.Printf("Pixasobu MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Output format %s, JPEG quality %d", cfg.OutputFormat, cfg.JPEGQuality)
	}

	if Version != "dev" {
		server.Version = Version
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("pixasobu-mcp - MCP server for image enhancement filters")
	fmt.Println()
	fmt.Println("Usage: pixasobu-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PIXASOBU_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  PIXASOBU_OUTPUT_FORMAT=png    Inline output format (png or jpeg)")
	fmt.Println("  PIXASOBU_JPEG_QUALITY=95      JPEG quality (1-100)")
	fmt.Println()
	fmt.Println("Filters:")
	for _, k := range enhance.Kinds() {
		fmt.Printf("  %-24s %s\n", k.ID(), k.Description())
	}
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
