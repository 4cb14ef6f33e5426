package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icarus-lang/icarus/internal/astfixture"
)

var (
	verifyASTPath    string
	verifyConfigPath string
	verifyExecutable bool
	verifyFormat     string
	verifyFilter     string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Type-check an AST fixture and report diagnostics",
	Long: `verify reads a JSON AST fixture with --ast, runs it through the type
verifier, and reports any diagnostics the module produced.

Examples:
  icarusc verify --ast module.json
  icarusc verify --ast program.json --executable --format json
  icarusc verify --ast module.json --filter type-error`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyASTPath, "ast", "", "path to a JSON AST fixture (required)")
	verifyCmd.Flags().StringVar(&verifyConfigPath, "config", "", "path to an icarus.yaml project file")
	verifyCmd.Flags().BoolVar(&verifyExecutable, "executable", false, "treat top-level statements as an executable's entry point")
	verifyCmd.Flags().StringVar(&verifyFormat, "format", "text", "diagnostic output format: text or json")
	verifyCmd.Flags().StringVar(&verifyFilter, "filter", "", "only report diagnostics in this category")
	_ = verifyCmd.MarkFlagRequired("ast")
}

func runVerify(_ *cobra.Command, _ []string) error {
	data, err := loadAST(verifyASTPath)
	if err != nil {
		return err
	}
	nodes, err := astfixture.Decode(data)
	if err != nil {
		return err
	}
	engine, err := newEngine(verifyConfigPath)
	if err != nil {
		return err
	}

	var failed bool
	if verifyExecutable {
		mod, _, err := engine.CompileExecutable(nodes)
		if err != nil {
			return err
		}
		failed = mod.Failed
	} else {
		mod, err := engine.CompileLibrary(nodes)
		if err != nil {
			return err
		}
		failed = mod.Failed
	}

	diags := filterDiagnostics(engine.Consumer.Diagnostics, verifyFilter)
	switch verifyFormat {
	case "json":
		printDiagnosticsJSON(diags)
	default:
		printDiagnosticsText(diags)
	}

	if failed {
		return fmt.Errorf("verification failed: %d error(s)", engine.Consumer.ErrorCount())
	}
	if verbose {
		fmt.Println("verification succeeded")
	}
	return nil
}
