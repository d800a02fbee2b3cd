package app

import (
	"context"
	"fmt"
	"os"

	"rugshield/internal/report"
)

// Analyze runs a one-shot analysis and prints the rendered reports to
// stdout.
func (a *App) Analyze(ctx context.Context, address string) error {
	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	analyzer := a.newAnalyzer(st)

	result, err := analyzer.Analyze(ctx, address)
	if err != nil {
		return err
	}

	if result.ScamReport != nil {
		fmt.Fprintln(os.Stdout, report.ScamAlert(*result.ScamReport))
		fmt.Fprintln(os.Stdout)
	}
	fmt.Fprintln(os.Stdout, report.Analysis(result.Snapshot, result.Risk, result.Commentary))
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, report.Metrics(address, result.Snapshot, result.Metrics))
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, report.Risk(address, result.Risk))
	return nil
}
