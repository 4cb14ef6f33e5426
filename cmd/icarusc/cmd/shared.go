package cmd

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/icarus-lang/icarus/internal/config"
	"github.com/icarus-lang/icarus/internal/diag"
	"github.com/icarus-lang/icarus/pkg/icarus"
)

var titleCaser = cases.Title(language.Und)

func loadProject(configPath string) (*config.Project, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func loadAST(astPath string) ([]byte, error) {
	if astPath == "" {
		return nil, fmt.Errorf("--ast is required")
	}
	return os.ReadFile(astPath)
}

func newEngine(configPath string) (*icarus.Engine, error) {
	project, err := loadProject(configPath)
	if err != nil {
		return nil, err
	}
	return icarus.NewEngine(project), nil
}

// humanCategory turns a kebab-case diagnostic category like "type-error"
// into "Type Error" for text-format output.
func humanCategory(category string) string {
	words := strings.Split(category, "-")
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

func printDiagnosticsText(diags []diag.Diagnostic) {
	for _, d := range diags {
		sev := "error"
		if d.Severity == diag.SeverityWarning {
			sev = "warning"
		}
		fmt.Fprintf(os.Stderr, "%s: [%s] %s: %s\n", sev, humanCategory(d.Category), d.Name, d.Message)
		for _, r := range d.Ranges {
			fmt.Fprintf(os.Stderr, "    at %s\n", r)
		}
	}
}

func printDiagnosticsJSON(diags []diag.Diagnostic) {
	consumer := diag.NewJSONConsumer(os.Stdout)
	for _, d := range diags {
		consumer.Consume(d)
	}
	if err := consumer.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error writing JSON diagnostics: %v\n", err)
	}
}

func filterDiagnostics(diags []diag.Diagnostic, category string) []diag.Diagnostic {
	if category == "" {
		return diags
	}
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

