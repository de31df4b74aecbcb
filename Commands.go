package main

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"gridSheet/contracts"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
)

var (
	configFile    string
	appConfig     *Config
	appLogger     *slog.Logger
	evalSheetFile string
	showDepth     bool
)

var rootCmd = &cobra.Command{
	Use:   "gridsheet",
	Short: "Grid spreadsheet engine",
	Long: `gridsheet evaluates a 26x100 grid of numbers, text and formulas.

Sheets are served over HTTP by "serve" or edited in place as saved csv files
by "show", "set" and "eval".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		appConfig = config
		appLogger = NewLogger(config.Log.Level, config.Log.Format, cmd.ErrOrStderr())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return RunApp(ctx, appConfig, appLogger)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a saved sheet",
	Long: `Print the used part of a saved sheet with every formula evaluated.

With --depth the evaluation order of each cell is printed as well:
0 for plain values, 1 for formulas and -1 for cells on a reference cycle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grid, err := loadSheetFile(args[0], false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprint(out, NewSheetPrinter(out).Render(grid))
		if showDepth {
			_, _ = fmt.Fprintln(out)
			printDepth(out, grid)
		}
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <cell> <value>",
	Short: "Write one cell of a saved sheet",
	Long: `Write one cell of a saved sheet and print its evaluated value.

The file is created when it does not exist. An empty value clears the cell.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		grid, err := loadSheetFile(args[0], true)
		if err != nil {
			return err
		}

		address, err := grid.SetByAddress(args[1], args[2])
		if err != nil {
			return err
		}
		if err = saveSheetFile(args[0], grid); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), grid.Value(address.Column, address.Row))
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval <formula>",
	Short: "Evaluate a formula",
	Long: `Evaluate a formula such as "=(1+2)*3" and print the result.

References resolve against the sheet given by --sheet, or an empty sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var grid *Grid
		var err error
		if evalSheetFile != "" {
			grid, err = loadSheetFile(evalSheetFile, false)
		} else {
			grid, err = NewGrid(appConfig.Sheet.Width, appConfig.Sheet.Height, NewExpressionExecutor())
		}
		if err != nil {
			return err
		}

		cell := NewSheetCell(args[0])
		if cell.Kind() != contracts.CellKindFormula {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), contracts.ErrFormToken)
			return nil
		}

		cell.setResult(grid.EvalFormula(cell.Formula()))
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cell.DisplayValue())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./gridsheet.yaml)")

	showCmd.Flags().BoolVar(&showDepth, "depth", false, "print the evaluation order of every cell")
	evalCmd.Flags().StringVar(&evalSheetFile, "sheet", "", "saved sheet to resolve references against")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(evalCmd)
}

// Execute runs the command line and returns the process exit code
func Execute(args []string, stdout io.Writer, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	return HandleExitError(stderr, rootCmd.Execute())
}

func loadSheetFile(path string, allowMissing bool) (*Grid, error) {
	grid, err := NewGrid(appConfig.Sheet.Width, appConfig.Sheet.Height, NewExpressionExecutor())
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if allowMissing && errors.Is(err, os.ErrNotExist) {
		return grid, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	entries, skipped, err := ReadSheetCsv(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	skipped += grid.Restore(entries)
	if skipped > 0 {
		appLogger.Warn("skipped sheet rows", "file", path, "count", skipped)
	}

	return grid, nil
}

func saveSheetFile(path string, grid *Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	err = WriteSheetCsv(file, grid.Entries())
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

func printDepth(out io.Writer, grid *Grid) {
	columns, rows := usedRegion(grid)
	depth := grid.Depth()

	for y := 0; y < rows; y++ {
		line := make([]string, 0, columns+1)
		line = append(line, strconv.Itoa(y))
		for x := 0; x < columns; x++ {
			line = append(line, fmt.Sprintf("%2d", depth[x][y]))
		}
		_, _ = fmt.Fprintln(out, strings.Join(line, " "))
	}
}
