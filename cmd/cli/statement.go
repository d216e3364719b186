package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/gestion/internal/adapter/http/dto"
)

const labelWidth = 32

func statementCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Show an account balance and its history",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the raw JSON response")

	for _, kind := range []string{"client", "supplier"} {
		kind := kind
		cmd.AddCommand(&cobra.Command{
			Use:   kind + " <id>",
			Short: "Statement for a " + kind,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				stmt, err := fetchStatement(opts, kind+"s", args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), stmt)
				}
				return renderStatement(cmd.OutOrStdout(), stmt)
			},
		})
	}

	return cmd
}

func fetchStatement(opts *options, collection, id string) (*dto.StatementResponse, error) {
	client := &http.Client{Timeout: opts.timeout}

	resp, err := client.Get(opts.baseURL + "/api/v1/" + collection + "/" + url.PathEscape(id) + "/statement")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var stmt dto.StatementResponse
	if err := json.Unmarshal(body, &stmt); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &stmt, nil
}

// renderStatement prints the history newest first, as the API returns it.
func renderStatement(w io.Writer, stmt *dto.StatementResponse) error {
	fmt.Fprintf(w, "%s %s (%s)\n", stmt.Kind, stmt.PartyName, stmt.PartyID)
	fmt.Fprintf(w, "balance: %s\n\n", stmt.Balance)

	if stmt.Empty || len(stmt.Entries) == 0 {
		fmt.Fprintln(w, "no movements")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tKIND\tLABEL\tAMOUNT\tBALANCE\t")
	for _, e := range stmt.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			e.Date.Format("2006-01-02"),
			entryKind(e),
			truncate(e.Label, labelWidth),
			e.Delta,
			e.Balance,
		)
	}
	return tw.Flush()
}

func entryKind(e dto.StatementEntryResponse) string {
	if e.Direction != "" {
		return e.Kind + "/" + e.Direction
	}
	return e.Kind
}

// truncate shortens s to maxLen runes so multi-byte labels stay valid UTF-8.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
