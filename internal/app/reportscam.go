package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"rugshield/internal/storage"
)

var validReportSeverities = map[string]struct{}{
	"low": {}, "medium": {}, "high": {}, "critical": {},
}

// ReportScam records a scam report so later lookups flag the address.
func (a *App) ReportScam(ctx context.Context, opts ScamReportOptions) error {
	if opts.Address == "" {
		return errors.New("--address is required")
	}
	if opts.Type == "" {
		return errors.New("--type is required")
	}
	if _, ok := validReportSeverities[opts.Severity]; !ok {
		return fmt.Errorf("severity %q must be one of low, medium, high, critical", opts.Severity)
	}

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	rep := storage.ScamReport{
		Address:         opts.Address,
		Type:            opts.Type,
		Severity:        opts.Severity,
		Description:     opts.Description,
		WarningSigns:    opts.WarningSigns,
		Recommendations: opts.Recommendations,
		Source:          opts.Source,
		ReportedDate:    time.Now().UTC(),
	}
	if rep.Source == "" {
		rep.Source = "manual"
	}

	if err := st.scam.PutScamReport(ctx, rep); err != nil {
		return err
	}

	a.Logger.Info().Str("address", opts.Address).Str("type", opts.Type).Msg("scam report recorded")
	fmt.Fprintf(os.Stdout, "recorded scam report for %s\n", opts.Address)
	return nil
}
