package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show prints recent analyses.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	records, err := st.history.ListRecentAnalyses(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no analyses found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tAddress\tSymbol\tRisk\tFactors\tMarket Cap\tVolume 24h\tHolders")

	for _, rec := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.Address,
			rec.Symbol,
			rec.RiskLevel,
			rec.FactorCount,
			rec.MarketCap.StringFixed(2),
			rec.Volume24h.StringFixed(2),
			rec.Holders,
		)
	}

	writer.Flush()
	return nil
}
