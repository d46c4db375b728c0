package cli

import (
	"context"
	"io"

	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/spf13/cobra"
)

// transpileBridgeCmd represents the transpile-bridge command
var transpileBridgeCmd = &cobra.Command{
	Use:     "transpile-bridge <source> <dest|-> [header-path|header-text]",
	Aliases: []string{"bridge"},
	Short:   "Generate remote-call stub classes from a Python API module",
	Long: `Generate TypeScript stub classes for the classes in a Python API module.

Every method of the facade class (bridge.facade_class, default API) becomes a
method of the exported bridge class; every other class becomes a child class
reachable through a lower-cased member. Each method forwards its arguments
to the boundary's remote call and returns a Promise of the annotated type.

The header argument is prepended to the output: if it names a file, the file
contents are used, otherwise the argument itself.

Examples:
  # Write the bridge next to the front-end sources
  pybridge transpile-bridge backend/api.py web/src/api.ts web/src/header.ts

  # Print the bridge to stdout
  pybridge transpile-bridge backend/api.py - "import {Boundary} from './boundary'"
`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		p, err := s.newPipeline(checkFlag)
		if err != nil {
			return err
		}
		defer p.Close()
		return runTranspileBridge(cmd.Context(), p, args, cmd.OutOrStdout())
	},
}

// transpileInterfacesCmd represents the transpile-interfaces command
var transpileInterfacesCmd = &cobra.Command{
	Use:     "transpile-interfaces <source> [dest|None]",
	Aliases: []string{"interfaces"},
	Short:   "Generate interfaces and type aliases from Python TypedDict records",
	Long: `Generate TypeScript interfaces for the record classes (TypedDict
subclasses and their descendants) of a Python module, followed by a type
alias for every module-level "Name = A | B" assignment.

Without a destination, or with "None" or "-", the text is printed to stdout.

Examples:
  pybridge transpile-interfaces backend/app_types.py web/src/app_types.ts
  pybridge transpile-interfaces backend/app_types.py
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		p, err := s.newPipeline(checkFlag)
		if err != nil {
			return err
		}
		defer p.Close()
		return runTranspileInterfaces(cmd.Context(), p, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(transpileBridgeCmd)
	rootCmd.AddCommand(transpileInterfacesCmd)
	transpileBridgeCmd.Flags().BoolVar(&checkFlag, "check", false, "Parse the generated TypeScript and fail instead of writing invalid output")
	transpileInterfacesCmd.Flags().BoolVar(&checkFlag, "check", false, "Parse the generated TypeScript and fail instead of writing invalid output")
}

func runTranspileBridge(ctx context.Context, p *pipeline.Pipeline, args []string, out io.Writer) error {
	var header string
	if len(args) > 2 {
		header = args[2]
	}

	result, err := p.TranspileBridge(ctx, args[0], args[1], header)
	if err != nil {
		return err
	}
	return emit(result, out)
}

func runTranspileInterfaces(ctx context.Context, p *pipeline.Pipeline, args []string, out io.Writer) error {
	dest := pipeline.NoneDest
	if len(args) > 1 {
		dest = args[1]
	}

	result, err := p.TranspileInterfaces(ctx, args[0], dest)
	if err != nil {
		return err
	}
	return emit(result, out)
}

// emit prints the generated text when it was not written to a file.
func emit(result *pipeline.Result, out io.Writer) error {
	if result.Dest != "" {
		return nil
	}
	_, err := io.WriteString(out, result.Text)
	return err
}
