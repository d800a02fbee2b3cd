package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"rugshield/internal/analysis"
	"rugshield/internal/storage"
)

// Export renders analysis history for one address as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.Address == "" {
		return errors.New("--address is required")
	}
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}

	from := to.Add(-time.Duration(opts.MaxPoints) * a.Config.Watch.Interval)
	if opts.From != nil {
		from = opts.From.UTC()
	}

	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	records, err := st.history.ListAnalysesFor(ctx, opts.Address, from)
	if err != nil {
		return err
	}
	records = trimAfter(records, to)
	if len(records) == 0 {
		a.Logger.Info().Str("address", opts.Address).Msg("no analyses found for export window")
		return nil
	}

	downsampled := downsampleRecords(records, opts.MaxPoints)
	a.Logger.Info().Int("total", len(records)).Int("exported", len(downsampled)).Msg("exporting analyses")

	if opts.CSVPath != "" {
		if err := writeRecordsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeRecordsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func trimAfter(records []storage.AnalysisRecord, to time.Time) []storage.AnalysisRecord {
	out := records[:0:0]
	for _, rec := range records {
		if rec.CreatedAt.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func downsampleRecords(records []storage.AnalysisRecord, max int) []storage.AnalysisRecord {
	if max <= 0 || len(records) <= max {
		return records
	}

	result := make([]storage.AnalysisRecord, 0, max)
	step := float64(len(records)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(records) {
			idx = len(records) - 1
		}
		result = append(result, records[idx])
	}
	return result
}

func writeRecordsCSV(path string, records []storage.AnalysisRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"created_at", "address", "symbol", "risk_level", "factor_count", "market_cap", "volume_24h", "holders"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		record := []string{
			rec.CreatedAt.Format(time.RFC3339),
			rec.Address,
			rec.Symbol,
			rec.RiskLevel,
			strconv.Itoa(rec.FactorCount),
			rec.MarketCap.String(),
			rec.Volume24h.String(),
			strconv.FormatInt(rec.Holders, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeRecordsPNG(path string, records []storage.AnalysisRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(records))
	marketCap := make([]float64, len(records))
	volume := make([]float64, len(records))
	severity := make([]float64, len(records))

	for i, rec := range records {
		x[i] = rec.CreatedAt
		marketCap[i] = rec.MarketCap.InexactFloat64()
		volume[i] = rec.Volume24h.InexactFloat64()
		severity[i] = float64(analysis.RiskLevel(rec.RiskLevel).Severity())
	}

	usdFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.0f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "USD",
			ValueFormatter: usdFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Risk severity",
			ValueFormatter: usdFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Market Cap",
				XValues: x,
				YValues: marketCap,
			},
			chart.TimeSeries{
				Name:    "24h Volume",
				XValues: x,
				YValues: volume,
			},
			chart.TimeSeries{
				Name:    "Risk",
				XValues: x,
				YValues: severity,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
