package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gestion/internal/domain"
)

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "VAT calculations",
	}

	cmd.AddCommand(taxSplitCmd(), taxTotalsCmd())
	return cmd
}

func taxSplitCmd() *cobra.Command {
	var amount, rate string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a tax-inclusive amount into net and tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", rate, err)
			}

			split, err := domain.Decompose(gross, r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "net:   %s\n", money(split.Net))
			fmt.Fprintf(out, "tax:   %s\n", money(split.Tax))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "tax-inclusive amount")
	cmd.Flags().StringVar(&rate, "rate", "21", "VAT rate in percent (0, 10.5 or 21)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func taxTotalsCmd() *cobra.Command {
	var lines []string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Aggregate tax-inclusive lines into document totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			monetary := make([]domain.MonetaryLine, 0, len(lines))
			for _, raw := range lines {
				line, err := parseLine(raw)
				if err != nil {
					return err
				}
				monetary = append(monetary, line)
			}

			totals, err := domain.Aggregate(monetary)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RATE\tNET\tTAX")
			for _, sub := range totals.ByRate {
				fmt.Fprintf(tw, "%s%%\t%s\t%s\n", sub.Rate.String(), money(sub.Net), money(sub.Tax))
			}
			fmt.Fprintf(tw, "total\t%s\t%s\n", money(totals.Net), money(totals.Tax))
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "gross: %s\n", money(totals.Gross))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&lines, "line", nil, "line as gross:rate, repeatable")

	return cmd
}

// parseLine reads "gross:rate"; a missing rate means the general rate.
func parseLine(raw string) (domain.MonetaryLine, error) {
	grossPart, ratePart, found := strings.Cut(raw, ":")

	gross, err := decimal.NewFromString(strings.TrimSpace(grossPart))
	if err != nil {
		return domain.MonetaryLine{}, fmt.Errorf("invalid line %q: %w", raw, err)
	}

	rate := domain.TaxRateGeneral
	if found {
		rate, err = decimal.NewFromString(strings.TrimSpace(ratePart))
		if err != nil {
			return domain.MonetaryLine{}, fmt.Errorf("invalid rate in line %q: %w", raw, err)
		}
	}

	return domain.MonetaryLine{GrossAmount: gross, TaxRate: rate}, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}
