// Package formatter renders command output as text, JSON or YAML.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/selector"
	"github.com/sqve/branchlink/internal/styles"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Markers for the production branch (color / plain)
const (
	iconActive  = "●"
	asciiActive = "*"
)

// ActiveMarker returns the marker for the production branch
func ActiveMarker(active bool) string {
	if !active {
		return " "
	}
	if config.IsPlain() {
		return asciiActive
	}
	return styles.Render(&styles.Warning, iconActive)
}

// Branches writes the candidate list in format.
func Branches(w io.Writer, format string, candidates []selector.Candidate) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, nonNil(candidates))
	case FormatYAML:
		return writeYAML(w, nonNil(candidates))
	case FormatText, "":
		return branchesText(w, candidates)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func nonNil(candidates []selector.Candidate) []selector.Candidate {
	if candidates == nil {
		return []selector.Candidate{}
	}
	return candidates
}

func branchesText(w io.Writer, candidates []selector.Candidate) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, styles.Render(&styles.Dimmed, "No branches found"))
		return err
	}

	if config.IsPlain() {
		for _, c := range candidates {
			if _, err := fmt.Fprintf(w, "%s %s\n", ActiveMarker(c.Active), c.Name); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		name := c.Name
		if c.Active {
			name = styles.Render(&styles.Header, name)
		}
		rows = append(rows, []string{ActiveMarker(c.Active), name})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "BRANCH").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// Field writes a single named value, e.g. the production branch.
func Field(w io.Writer, format, key, value string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, map[string]string{key: value})
	case FormatYAML:
		return writeYAML(w, map[string]string{key: value})
	case FormatText, "":
		_, err := fmt.Fprintln(w, value)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
