// export-leases writes a filtered snapshot of the lease table to an .xlsx
// or .csv file, using the same backend configuration as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/panupunn/lease-manager/internal/config"
	"github.com/panupunn/lease-manager/internal/service"
	"github.com/panupunn/lease-manager/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		format = flag.String("format", service.FormatXLSX, "output format: xlsx or csv")
		out    = flag.String("out", "", "output file (default leases_filtered.<format>)")
		query  = flag.String("q", "", "free-text filter over contract no/shop/contact/phone")
		within = flag.Int("within", -1, "only contracts expiring within N days (-1 = no filter)")
	)
	flag.Parse()

	cfg := config.Load()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var st store.Store
	switch cfg.Store.Backend {
	case "sheets":
		st = store.NewSheetsStore(cfg.Sheets.BaseURL, cfg.Sheets.Token, cfg.Sheets.Worksheet, logger)
	default:
		st = store.NewExcelStore(cfg.Excel.Path, cfg.Excel.Sheet, logger)
	}
	svc := service.NewLeaseService(st, logger)

	req := service.SearchRequest{Query: *query}
	if *within >= 0 {
		req.Window.WithinDays = within
	}

	data, err := svc.Export(context.Background(), req, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = "leases_filtered." + *format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
}
