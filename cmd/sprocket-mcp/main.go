package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/sprocket-align/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// overrides are the per-call settings every pipeline tool accepts.
var overrides = [][2]string{
	{"threshold", "binarization threshold in [0,1] (0.902)"},
	{"border_min, border_percent", "white padding added before detection (2 px, 0)"},
	{"blur_size, blur_relative", "box blur kernel before thresholding (2 px, 0)"},
	{"min_hole_area, max_hole_area", "hole size limits in pixels (4, no limit)"},
	{"grouper", "row grouping, distance or kmeans (distance)"},
	{"lookahead, multiplier", "distance grouping parameters (2, 1.5)"},
	{"tolerance_degrees", "residual angle that counts as level (0.05)"},
	{"max_iterations", "measure and rotate passes (3)"},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "sprocket-align-mcp - MCP server that levels scanned film strips by their sprocket holes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: sprocket-align-mcp [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tools:")
	for _, tool := range server.GetToolDefinitions() {
		summary, _, _ := strings.Cut(tool.Description, ". ")
		fmt.Fprintf(w, "  %-25s %s\n", tool.Name, strings.TrimSuffix(summary, "."))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pipeline tools (strip_load ... strip_edge_print) accept per-call overrides:")
	for _, o := range overrides {
		fmt.Fprintf(w, "  %-30s %s\n", o[0], o[1])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  SPROCKET_MCP_LOG_LEVEL=debug    Enable debug logging, one line per straightening pass")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "strip_edge_print needs Tesseract and its language data installed.")
	fmt.Fprintln(w, "The server speaks MCP over stdin/stdout; register it with your MCP client.")
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sprocket-align-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage(os.Stdout)
			return
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	srv := server.New()

	if os.Getenv("SPROCKET_MCP_LOG_LEVEL") == "debug" {
		log.Printf("Sprocket Align MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		srv.SetDebugLogger(log.New(os.Stderr, "straighten: ", log.Ldate|log.Ltime))
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
