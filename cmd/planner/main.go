package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/marketpo/internal/cache"
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/config"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/export"
	"github.com/andresuchdata/marketpo/internal/planner"
	"github.com/andresuchdata/marketpo/internal/service"
	"github.com/andresuchdata/marketpo/internal/sku"
)

func windowFlags(defaults config.PlanningConfig) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "sales-window-days",
			Usage:   "Days of sales history the reports cover",
			Value:   defaults.SalesWindowDays,
			EnvVars: []string{"PLAN_SALES_WINDOW_DAYS"},
		},
		&cli.IntFlag{
			Name:    "purchase-window-days",
			Usage:   "Days of future demand to buy for",
			Value:   defaults.PurchaseWindowDays,
			EnvVars: []string{"PLAN_PURCHASE_WINDOW_DAYS"},
		},
		&cli.IntFlag{
			Name:    "lead-time-days",
			Usage:   "Supplier fulfillment delay in days",
			Value:   defaults.LeadTimeDays,
			EnvVars: []string{"PLAN_LEAD_TIME_DAYS"},
		},
		&cli.IntFlag{
			Name:    "safety-stock-days",
			Usage:   "Safety stock buffer in days",
			Value:   defaults.SafetyStockDays,
			EnvVars: []string{"PLAN_SAFETY_STOCK_DAYS"},
		},
	}
}

func paramsFromFlags(c *cli.Context) domain.PlanningParams {
	return domain.PlanningParams{
		SalesWindowDays:    c.Int("sales-window-days"),
		PurchaseWindowDays: c.Int("purchase-window-days"),
		LeadTimeDays:       c.Int("lead-time-days"),
		SafetyStockDays:    c.Int("safety-stock-days"),
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	cfg := config.Load()

	app := &cli.App{
		Name:  "planner",
		Usage: "Generate a purchase plan from marketplace sales reports",
		Commands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "Reconcile sales against the master catalog and plan purchases",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "master",
						Usage:   "Path to the master product list CSV",
						Value:   cfg.App.MasterPath,
						EnvVars: []string{"APP_MASTER_PATH"},
					},
					&cli.StringFlag{
						Name:  "amazon",
						Usage: "Path to the Amazon Business Report CSV",
					},
					&cli.StringFlag{
						Name:  "flipkart",
						Usage: "Path to the Flipkart Orders XLSX",
					},
					&cli.StringFlag{
						Name:  "meesho",
						Usage: "Path to the Meesho orders CSV",
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory for the generated plan files",
						Value:   cfg.App.OutputDir,
						EnvVars: []string{"APP_OUTPUT_DIR"},
					},
					&cli.BoolFlag{
						Name:  "xlsx",
						Usage: "Also write a two-sheet XLSX workbook",
						Value: true,
					},
				}, windowFlags(cfg.Planning)...),
				Action: runPlan,
			},
			{
				Name:  "lightweight",
				Usage: "Plan without a master catalog using SKU suffix stripping and a multiplier table",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "sales",
						Usage:    "Path to a sales CSV with sku, qty, platform columns",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "multipliers",
						Usage: "Path to a CSV of (sku key, unit multiplier) pairs",
					},
					&cli.StringFlag{
						Name:  "categories",
						Usage: "Path to a CSV of (sku prefix, category) pairs",
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory for the generated plan files",
						Value:   cfg.App.OutputDir,
						EnvVars: []string{"APP_OUTPUT_DIR"},
					},
				}, windowFlags(cfg.Planning)...),
				Action: runLightweight,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPlan(c *cli.Context) error {
	master, warnings, err := catalog.LoadCSVFile(c.String("master"))
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Printf("master catalog: %s", w)
	}

	var uploads []service.SalesUpload
	for _, platform := range []string{"amazon", "flipkart", "meesho"} {
		path := c.String(platform)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s report: %w", platform, err)
		}
		uploads = append(uploads, service.SalesUpload{
			Platform: platform,
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no sales reports given: pass at least one of --amazon, --flipkart, --meesho")
	}

	planService := service.NewPlanService(cache.NewNoopPlanCache())
	result, err := planService.GeneratePlan(c.Context, uploads, master, paramsFromFlags(c))
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		log.Printf("degraded row: %s", w)
	}

	return writeOutputs(c.String("out-dir"), result, c.Bool("xlsx"))
}

func runLightweight(c *cli.Context) error {
	records, err := readSalesCSV(c.String("sales"))
	if err != nil {
		return err
	}

	multipliers, err := readPairsCSV(c.String("multipliers"))
	if err != nil {
		return err
	}
	categories, err := readPairsCSV(c.String("categories"))
	if err != nil {
		return err
	}

	table, warnings := sku.NewMultiplierTable(multipliers)
	classifier := sku.NewCategoryClassifier(categories)
	for _, w := range warnings {
		log.Printf("multiplier table: %s", w)
	}

	engine := planner.NewEngine()
	result, err := engine.RunLightweight([][]domain.SalesRecord{records}, table, classifier, paramsFromFlags(c))
	if err != nil {
		return err
	}

	return writeOutputs(c.String("out-dir"), result, false)
}

func writeOutputs(outDir string, result *planner.Result, workbook bool) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	planPath := filepath.Join(outDir, "purchase_plan.csv")
	f, err := os.Create(planPath)
	if err != nil {
		return err
	}
	if err := export.WritePlanCSV(f, result.Plan); err != nil {
		f.Close()
		return err
	}
	f.Close()
	log.Printf("wrote %s (%d products, %d units to buy)", planPath, result.Summary.UniqueProducts, result.Summary.TotalUnitsToBuy)

	if len(result.Orphans) > 0 {
		orphanPath := filepath.Join(outDir, "unknown_skus.csv")
		f, err := os.Create(orphanPath)
		if err != nil {
			return err
		}
		if err := export.WriteOrphansCSV(f, result.Orphans); err != nil {
			f.Close()
			return err
		}
		f.Close()
		log.Printf("wrote %s (%d unmapped listings)", orphanPath, len(result.Orphans))
	}

	if workbook {
		xlsxPath := filepath.Join(outDir, "purchase_plan.xlsx")
		f, err := os.Create(xlsxPath)
		if err != nil {
			return err
		}
		if err := export.WriteWorkbook(f, result); err != nil {
			f.Close()
			return err
		}
		f.Close()
		log.Printf("wrote %s", xlsxPath)
	}

	return nil
}

// readSalesCSV reads an already-tabulated sales file with sku, qty and
// platform columns, the shape the lightweight path consumes.
func readSalesCSV(path string) ([]domain.SalesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	idx := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}
	idxSKU, idxQty, idxPlatform := idx("sku"), idx("qty"), idx("platform")
	if idxSKU < 0 || idxQty < 0 {
		return nil, domain.NewFatalInputError("sales_csv", "missing 'sku' or 'qty' column in %s", path)
	}

	var records []domain.SalesRecord
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		qty, _ := strconv.ParseFloat(record[idxQty], 64)
		platform := ""
		if idxPlatform >= 0 && idxPlatform < len(record) {
			platform = record[idxPlatform]
		}
		records = append(records, domain.SalesRecord{
			SKU:      record[idxSKU],
			Qty:      qty,
			Platform: platform,
		})
	}
	return records, nil
}

// readPairsCSV reads a two-column key/value CSV with no header. A missing
// path yields an empty table.
func readPairsCSV(path string) (map[string]string, error) {
	pairs := make(map[string]string)
	if path == "" {
		return pairs, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			continue
		}
		pairs[record[0]] = record[1]
	}
	return pairs, nil
}
