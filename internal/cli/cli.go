package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/arangotui/internal/filter"
	"github.com/studiowebux/arangotui/internal/types"
)

// Source is the part of the data client the ls command reads from
type Source interface {
	ListDatabases(ctx context.Context) ([]types.DatabaseSummary, error)
	ListCollections(ctx context.Context, database string) ([]types.CollectionSummary, error)
	ListDocuments(ctx context.Context, database, collection string, offset, limit int) (types.DocumentBatch, error)
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ListOptions contains options for the ls command
type ListOptions struct {
	Database     string
	Collection   string
	OutputFormat string // json, yaml, text
	Filter       string // JMESPath expression applied to the JSON form
	Offset       int    // First document listed
	Limit        int    // Documents listed for a collection
	Color        bool   // ANSI colors in text output
}

// IsInteractive checks if stdin is a terminal (not piped)
func IsInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// IsTerminalOutput checks if stdout is a terminal (not piped)
func IsTerminalOutput() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// List prints the databases, the collections of a database or the
// documents of a collection depending on which names are set
func List(ctx context.Context, src Source, opts ListOptions, w io.Writer) error {
	format := opts.OutputFormat
	if format == "" {
		format = FormatText
	}
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
	if opts.Filter != "" && !filter.IsValidJMESPath(opts.Filter) {
		return fmt.Errorf("invalid filter expression: %s", opts.Filter)
	}

	var (
		value any
		text  func() string
	)

	switch {
	case opts.Database == "":
		dbs, err := src.ListDatabases(ctx)
		if err != nil {
			return fmt.Errorf("failed to list databases: %w", err)
		}
		value = dbs
		text = func() string { return formatDatabases(dbs, opts.Color) }

	case opts.Collection == "":
		cols, err := src.ListCollections(ctx, opts.Database)
		if err != nil {
			return fmt.Errorf("failed to list collections of %s: %w", opts.Database, err)
		}
		value = cols
		text = func() string { return formatCollections(cols) }

	default:
		batch, err := src.ListDocuments(ctx, opts.Database, opts.Collection, opts.Offset, opts.Limit)
		if err != nil {
			return fmt.Errorf("failed to list documents of %s/%s: %w", opts.Database, opts.Collection, err)
		}
		docs := make([]json.RawMessage, len(batch.Documents))
		for i, d := range batch.Documents {
			docs[i] = d.Raw
		}
		value = docs
		text = func() string { return formatDocuments(docs) }
	}

	output, err := formatOutput(value, text, format, opts.Filter)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, output)
	return err
}

// formatOutput renders value in the requested format. A filter always goes
// through the JSON form first.
func formatOutput(value any, text func() string, format, expr string) (string, error) {
	if expr == "" && format == FormatText {
		return text(), nil
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}
	body := string(data)

	if expr != "" {
		body, err = filter.Apply(body, expr)
		if err != nil {
			return "", fmt.Errorf("filter error: %w", err)
		}
	}

	if format == FormatYAML {
		var generic any
		if err := json.Unmarshal([]byte(body), &generic); err != nil {
			return "", fmt.Errorf("failed to convert output: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return "", fmt.Errorf("failed to convert output: %w", err)
		}
		return string(out), nil
	}
	return body + "\n", nil
}

func formatDatabases(dbs []types.DatabaseSummary, color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-32s %6s %6s %6s\n", "NAME", "DOCS", "EDGES", "SYSTEM")
	for _, db := range dbs {
		if !db.Accessible {
			fmt.Fprintf(&sb, "%-32s %s\n", db.Name, colorize("NO ACCESS", colorRed, color))
			continue
		}
		fmt.Fprintf(&sb, "%-32s %6d %6d %6d\n", db.Name, db.DocCollections, db.EdgeCollections, db.SystemCollections)
	}
	return sb.String()
}

func formatCollections(cols []types.CollectionSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-32s %-9s %10s\n", "NAME", "KIND", "COUNT")
	for _, c := range cols {
		name := c.Name
		if c.IsSystem {
			name += " (system)"
		}
		fmt.Fprintf(&sb, "%-32s %-9s %10s\n", name, c.Kind, c.CountLabel())
	}
	return sb.String()
}

// formatDocuments prints one compact document per line
func formatDocuments(docs []json.RawMessage) string {
	var buf bytes.Buffer
	for _, d := range docs {
		if err := json.Compact(&buf, d); err != nil {
			buf.Write(d)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// ANSI color codes
const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
)

func colorize(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}
