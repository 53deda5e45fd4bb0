// Package main provides the CLI entry point for sheetcalc.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quickdash/sheetcalc"
)

var (
	sheetName  string
	outputPath string
	xlsxOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetcalc [input.xlsx|input.json]",
		Short: "Evaluate spreadsheet formulas over a grid of cells",
		Long: `sheetcalc resolves every formula cell of a sheet (A1-style references,
ranges, SUM/AVERAGE/MIN/MAX/ROUND/IF) and prints the dense result matrix
as CSV. Cells with malformed formulas or circular references are rendered
as an error marker and reported on stderr; the rest of the sheet still
evaluates.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name for xlsx input (default: first sheet)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "CSV output file path (default: stdout)")
	rootCmd.Flags().StringVar(&xlsxOut, "xlsx-out", "", "Also write the evaluated matrix to an xlsx file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	sheet, err := loadSheet(inputPath)
	if err != nil {
		return err
	}

	ev := sheetcalc.EvaluateSheet(sheet)
	matrix := ev.Matrix()

	out := cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := writeCSV(out, matrix); err != nil {
		return fmt.Errorf("writing matrix: %w", err)
	}

	if xlsxOut != "" {
		if err := sheetcalc.SaveWorkbook(ev, xlsxOut); err != nil {
			return err
		}
	}

	reportErrors(cmd.ErrOrStderr(), ev.Errors())
	return nil
}

func loadSheet(path string) (*sheetcalc.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return sheetcalc.LoadWorkbookSheet(path, sheetName)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading sheet document: %w", err)
		}
		return sheetcalc.ParseSheetJSON(data)
	default:
		return nil, fmt.Errorf("unsupported input format: %s (want .xlsx or .json)", path)
	}
}

func writeCSV(out io.Writer, matrix [][]sheetcalc.Primitive) error {
	w := csv.NewWriter(out)
	for _, row := range matrix {
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = sheetcalc.FormatValue(val)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func reportErrors(out io.Writer, errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	labels := make([]string, 0, len(errs))
	for label := range errs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(out, "%s: %s\n", label, errs[label])
	}
}
