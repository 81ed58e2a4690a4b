package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/regosbridge/regosbridge/internal/regos"
	"github.com/regosbridge/regosbridge/internal/store"
)

var (
	requestsLimit    int
	requestsEndpoint string
	requestsOutcome  string
	requestsPrune    time.Duration
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect the local dispatch request log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		if requestsPrune > 0 {
			pruned, err := st.PruneRequests(cmd.Context(), time.Now().Add(-requestsPrune))
			if err != nil {
				return err
			}
			cmd.Printf("pruned %d entries\n", pruned)
			return nil
		}

		records, err := st.ListRequests(cmd.Context(), store.RequestLogFilter{
			Endpoint: requestsEndpoint,
			Kind:     regos.Kind(requestsOutcome),
			Limit:    requestsLimit,
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return errors.New("request log is empty")
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Time", "Credential", "Endpoint", "Outcome", "Status", "Attempts", "Duration"})
		for _, rec := range records {
			status := ""
			if rec.StatusCode != 0 {
				status = http.StatusText(rec.StatusCode)
			}
			t.AppendRow(table.Row{
				rec.CreatedAt.Format(time.RFC3339),
				rec.Credential,
				rec.Endpoint,
				string(rec.Kind),
				status,
				rec.Attempts,
				rec.Duration,
			})
		}

		cmd.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestsCmd)

	requestsCmd.Flags().IntVarP(&requestsLimit, "limit", "n", 50, "maximum entries to show")
	requestsCmd.Flags().StringVar(&requestsEndpoint, "endpoint", "", "filter by endpoint")
	requestsCmd.Flags().StringVar(&requestsOutcome, "outcome", "", "filter by outcome kind")
	requestsCmd.Flags().DurationVar(&requestsPrune, "prune", 0, "delete entries older than this duration instead of listing")
}
