package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/compare"
	"go-deal-recon/internal/enrich"
	"go-deal-recon/internal/export"
	"go-deal-recon/internal/ingest"
	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
)

func main() {
	app := &cli.App{
		Name:  "recon",
		Usage: "reconcile deal costs between a formatted workbook and a comparison export",
		Commands: []*cli.Command{
			compareCommand(),
			processCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "analyze two files and print the analysis payload as JSON",
		ArgsUsage: "<formatted-file> <comparison-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "formatted-sheet", Usage: "sheet name in the formatted workbook"},
			&cli.StringFlag{Name: "comparison-sheet", Usage: "sheet name in the comparison workbook"},
			&cli.StringFlag{Name: "quantity-letter", Value: compare.DefaultFormattedQuantityLetter, Usage: "formatted quantity column letter"},
			&cli.StringFlag{Name: "quantity-column", Usage: "comparison quantity column key"},
			&cli.StringFlag{Name: "excel", Usage: "also write the Excel export to this path"},
			&cli.StringFlag{Name: "csv", Usage: "also write the CSV export to this path"},
			&cli.StringFlag{Name: "pdf", Usage: "also write the PDF summary to this path"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runCompare,
	}
}

func runCompare(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("expected exactly two file arguments", 2)
	}

	logger := buildLogger(c.Bool("verbose"))
	defer logger.Sync()

	formatted, err := loadFile(c.Args().Get(0), c.String("formatted-sheet"))
	if err != nil {
		return err
	}
	comparison, err := loadFile(c.Args().Get(1), c.String("comparison-sheet"))
	if err != nil {
		return err
	}

	analysisCache := cache.New(cache.DefaultCapacity, cache.DefaultTTL)
	analyzer := compare.NewAnalyzer(analysisCache, logger)

	payload, err := analyzer.Analyze(formatted, comparison, model.Options{
		FormattedQuantityLetter:  c.String("quantity-letter"),
		ComparisonQuantityColumn: c.String("quantity-column"),
	})
	if err != nil {
		return err
	}

	entry, err := analysisCache.Get(payload.Token)
	if err != nil {
		return err
	}
	if path := c.String("excel"); path != "" {
		if err := writeExport(path, entry, export.Excel); err != nil {
			return err
		}
	}
	if path := c.String("csv"); path != "" {
		if err := writeExport(path, entry, export.CSV); err != nil {
			return err
		}
	}
	if path := c.String("pdf"); path != "" {
		if err := writeExport(path, entry, export.PDF); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "build the formatted rebilling workbook from a raw export",
		ArgsUsage: "<raw-workbook>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "formatted_output.xlsx", Usage: "output workbook path"},
			&cli.StringFlag{Name: "existing", Usage: "previously formatted workbook to diff against"},
			&cli.StringFlag{Name: "sheet-name", Value: enrich.DefaultOutputSheetName, Usage: "output sheet name"},
			&cli.StringFlag{Name: "raw-sheet1", Usage: "deals sheet name"},
			&cli.StringFlag{Name: "raw-sheet2", Usage: "costs sheet name"},
			&cli.StringFlag{Name: "raw-sheet3", Usage: "hedge sheet name"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runProcess,
	}
}

func runProcess(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one file argument", 2)
	}

	logger := buildLogger(c.Bool("verbose"))
	defer logger.Sync()

	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	var existing []byte
	if path := c.String("existing"); path != "" {
		if existing, err = os.ReadFile(path); err != nil {
			return err
		}
	}

	processor := enrich.NewProcessor(logger)
	out, err := processor.Process(data, existing, enrich.Settings{
		OutputSheetName: c.String("sheet-name"),
		RawSheet1Name:   c.String("raw-sheet1"),
		RawSheet2Name:   c.String("raw-sheet2"),
		RawSheet3Name:   c.String("raw-sheet3"),
	})
	if err != nil {
		return err
	}

	output := c.String("output")
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return err
	}
	fmt.Println("Formatted workbook written to", output)
	return nil
}

func loadFile(path, sheet string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if sheet != "" {
		return ingest.ReadExcel(data, sheet)
	}
	return ingest.Read(path, data)
}

func writeExport(path string, entry *cache.Entry, render func(*cache.Entry) ([]byte, error)) error {
	data, err := render(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
