package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/icarus-lang/icarus/internal/astfixture"
	"github.com/icarus-lang/icarus/internal/ir"
)

var (
	emitASTPath    string
	emitConfigPath string
	emitExecutable bool
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Verify an AST fixture and print its lowered IR",
	Long: `emit does everything verify does, then prints the IR of the
Subroutines the compilation emitted. With --executable (the default) that
is the synthesized entry point alone; functions it calls are not printed.
A library compilation (--executable=false) emits no Subroutines.`,
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().StringVar(&emitASTPath, "ast", "", "path to a JSON AST fixture (required)")
	emitCmd.Flags().StringVar(&emitConfigPath, "config", "", "path to an icarus.yaml project file")
	emitCmd.Flags().BoolVar(&emitExecutable, "executable", true, "treat top-level statements as an executable's entry point")
	_ = emitCmd.MarkFlagRequired("ast")
}

func runEmit(_ *cobra.Command, _ []string) error {
	data, err := loadAST(emitASTPath)
	if err != nil {
		return err
	}
	nodes, err := astfixture.Decode(data)
	if err != nil {
		return err
	}
	engine, err := newEngine(emitConfigPath)
	if err != nil {
		return err
	}

	var failed bool
	if emitExecutable {
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

	printDiagnosticsText(engine.Consumer.Diagnostics)
	if failed {
		return fmt.Errorf("verification failed: %d error(s)", engine.Consumer.ErrorCount())
	}

	for _, sub := range engine.Program.Subroutines() {
		ir.NewDisassembler(sub, os.Stdout).Disassemble()
	}
	return nil
}
