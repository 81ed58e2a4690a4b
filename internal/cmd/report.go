package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/regosbridge/regosbridge/internal/config"
	"github.com/regosbridge/regosbridge/internal/dates"
	"github.com/regosbridge/regosbridge/internal/export"
	"github.com/regosbridge/regosbridge/internal/format"
	"github.com/regosbridge/regosbridge/internal/observability"
	"github.com/regosbridge/regosbridge/internal/output"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

var (
	reportCredential string
	reportPartnerID  int
	reportFirmID     int
	reportPeriod     string
	reportRange      string
	reportLang       string
	reportOutput     string
	reportNewest     bool
	reportTotals     bool
	reportExportPath string
	reportValueKind  string
	reportOpType     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch and render REGOS partner reports",
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Partner balance movements for a period",
	Long: `Fetches the partner balance report and renders it grouped by currency.

The period is either a named preset (--period today|yesterday|current_week|
last_week|current_month|last_month|current_year) or a flexible date range
(--range "01.01-15.02"). Dates resolve against the UTC+5 business timezone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}

		credential := resolveCredential(reportCredential, cfg)
		if credential == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "No credential configured",
				fmt.Errorf("set --credential or %s_GATEWAY_CREDENTIAL", envPrefix))
		}

		window, err := resolveReportWindow()
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		rows, err := a.reports.PartnerBalance(cmd.Context(), credential, reports.BalanceParams{
			PartnerID: reportPartnerID,
			FirmID:    reportFirmID,
			Range:     window,
		})
		if err != nil {
			return err
		}

		observability.CLILogger.Debug("Balance report fetched",
			zap.Int("rows", len(rows)),
			zap.Int("partner_id", reportPartnerID))

		if reportExportPath != "" {
			if err := export.WriteJSON(exportPath(cfg.Export.Dir, reportExportPath), rows); err != nil {
				return err
			}
		}

		fmtKind, err := output.ParseFormat(reportOutput)
		if err != nil {
			return err
		}

		rendered, err := output.RenderBalance(fmtKind, rows, a.translator, output.BalanceOptions{
			Lang:        resolveLang(cfg),
			NewestFirst: reportNewest,
			Totals:      reportTotals,
		})
		if err != nil {
			return err
		}

		cmd.Println(rendered)
		return nil
	},
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Partner stock operations for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}

		credential := resolveCredential(reportCredential, cfg)
		if credential == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "No credential configured",
				fmt.Errorf("set --credential or %s_GATEWAY_CREDENTIAL", envPrefix))
		}

		kind := format.ValueKind(reportValueKind)
		if !kind.Valid() {
			return fmt.Errorf("--value must be %q or %q", format.ValueCost, format.ValuePrice)
		}

		window, err := resolveReportWindow()
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.reports.PartnerStockOperations(cmd.Context(), credential, reports.StockParams{
			PartnerID:     reportPartnerID,
			OperationType: reportOpType,
			Range:         window,
		})
		if err != nil {
			return err
		}

		if reportExportPath != "" {
			if err := export.WriteJSON(exportPath(cfg.Export.Dir, reportExportPath), report); err != nil {
				return err
			}
		}

		fmtKind, err := output.ParseFormat(reportOutput)
		if err != nil {
			return err
		}

		rendered, err := output.RenderStock(fmtKind, report, a.translator, resolveLang(cfg), kind)
		if err != nil {
			return err
		}

		cmd.Println(rendered)
		return nil
	},
}

var documentTypesCmd = &cobra.Command{
	Use:   "document-types",
	Short: "List the gateway's document type reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}

		credential := resolveCredential(reportCredential, cfg)
		if credential == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "No credential configured",
				fmt.Errorf("set --credential or %s_GATEWAY_CREDENTIAL", envPrefix))
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		types, err := a.reports.DocumentTypes(cmd.Context(), credential)
		if err != nil {
			return err
		}

		for _, t := range types {
			cmd.Printf("%4d  %s\n", t.ID, t.Name)
		}
		return nil
	},
}

func resolveReportWindow() (dates.Range, error) {
	now := time.Now()
	if reportPeriod != "" {
		return dates.Period(reportPeriod).Resolve(now)
	}
	if reportRange != "" {
		return dates.ParseRange(reportRange, now)
	}
	return dates.PeriodCurrentMonth.Resolve(now)
}

func resolveLang(cfg *config.Config) string {
	if reportLang != "" {
		return reportLang
	}
	return cfg.Locale.Default
}

func exportPath(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(balanceCmd)
	reportCmd.AddCommand(stockCmd)
	reportCmd.AddCommand(documentTypesCmd)

	reportCmd.PersistentFlags().StringVar(&reportCredential, "credential", "", "integration token (overrides config)")
	reportCmd.PersistentFlags().IntVar(&reportPartnerID, "partner", 0, "partner id")
	reportCmd.PersistentFlags().StringVar(&reportPeriod, "period", "", "named period preset")
	reportCmd.PersistentFlags().StringVar(&reportRange, "range", "", "flexible date range, e.g. \"01.01-15.02\"")
	reportCmd.PersistentFlags().StringVar(&reportLang, "lang", "", "report language (en, ru, uz)")
	reportCmd.PersistentFlags().StringVarP(&reportOutput, "output", "o", "table", "output format (table, json, messages)")
	reportCmd.PersistentFlags().StringVar(&reportExportPath, "export", "", "also write the raw payload to a JSON file")

	balanceCmd.Flags().IntVar(&reportFirmID, "firm", 0, "firm id")
	balanceCmd.Flags().BoolVar(&reportNewest, "newest-first", false, "show newest operations first")
	balanceCmd.Flags().BoolVar(&reportTotals, "totals", false, "render per-currency totals instead of movements")

	stockCmd.Flags().StringVar(&reportOpType, "type", "purchase", "operation type")
	stockCmd.Flags().StringVar(&reportValueKind, "value", "cost", "price the report with cost or price")

	_ = balanceCmd.MarkFlagRequired("partner")
	_ = stockCmd.MarkFlagRequired("partner")
}
