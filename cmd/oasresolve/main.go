package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve"
	"github.com/specfold/oasresolve/internal/mcpserver"
	"github.com/specfold/oasresolve/resolver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasresolve v%s\n", oasresolve.Version())
	case "help", "-h", "--help":
		printUsage()
	case "resolve":
		if err := handleResolve(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "schemas":
		if err := handleSchemas(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// resolveFlags contains flags for the resolve command
type resolveFlags struct {
	output      string
	format      string
	sandboxRoot string
	maxRefDepth int
}

func setupResolveFlags(name string) (*flag.FlagSet, *resolveFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := &resolveFlags{}

	fs.StringVar(&flags.output, "o", "", "write output to file instead of stdout")
	fs.StringVar(&flags.format, "format", "json", "output format: json or yaml")
	fs.StringVar(&flags.sandboxRoot, "sandbox-root", "", "directory external $refs are confined to (default: the document's directory)")
	fs.IntVar(&flags.maxRefDepth, "max-ref-depth", 0, "maximum schema nesting depth (default 100)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasresolve %s [flags] <file>\n\n", name)
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasresolve %s openapi.yaml\n", name)
		_, _ = fmt.Fprintf(output, "  oasresolve %s --format yaml -o resolved.yaml openapi.yaml\n", name)
		_, _ = fmt.Fprintf(output, "  oasresolve %s --sandbox-root ./specs specs/api/openapi.yaml\n", name)
	}

	return fs, flags
}

func resolveFromFlags(fs *flag.FlagSet, flags *resolveFlags) (*resolver.Model, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("exactly one file path is required")
	}

	opts := []resolver.Option{resolver.WithFilePath(fs.Arg(0))}
	if flags.sandboxRoot != "" {
		opts = append(opts, resolver.WithSandboxRoot(flags.sandboxRoot))
	}
	if flags.maxRefDepth > 0 {
		opts = append(opts, resolver.WithMaxRefDepth(flags.maxRefDepth))
	}
	return resolver.ResolveWithOptions(opts...)
}

// handleResolve resolves a document and emits the full model.
func handleResolve(args []string) error {
	fs, flags := setupResolveFlags("resolve")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	model, err := resolveFromFlags(fs, flags)
	if err != nil {
		return err
	}
	return emit(model, flags)
}

// handleSchemas resolves a document and emits only the schema registry.
func handleSchemas(args []string) error {
	fs, flags := setupResolveFlags("schemas")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	model, err := resolveFromFlags(fs, flags)
	if err != nil {
		return err
	}
	return emit(model.Schemas, flags)
}

// handleMCP runs the MCP server over stdio until the client disconnects.
func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return mcpserver.Run(ctx)
}

// emit marshals v in the requested format and writes it to the output
// target. YAML output round-trips through a yaml.Node so mapping keys
// keep the model's ordering.
func emit(v any, flags *resolveFlags) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if flags.format == "yaml" {
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		data, err = yaml.Marshal(&node)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
	} else if flags.format != "json" {
		return fmt.Errorf("unknown format %q (expected json or yaml)", flags.format)
	}

	if flags.output != "" {
		return os.WriteFile(flags.output, data, 0o644)
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

var commands = []string{"resolve", "schemas", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range commands {
		if d := editDistance(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oasresolve - OpenAPI reference resolution and schema normalization

Usage:
  oasresolve <command> [options]

Commands:
  resolve     Resolve a specification into a fully dereferenced model
  schemas     Resolve a specification and print only the schema registry
  mcp         Run an MCP server exposing resolution tools over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasresolve resolve openapi.yaml
  oasresolve resolve --format yaml -o resolved.yaml openapi.yaml
  oasresolve schemas openapi.yaml
  oasresolve mcp

Run 'oasresolve <command> --help' for more information on a command.`)
}
