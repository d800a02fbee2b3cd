package cli

import (
	"github.com/spf13/cobra"

	"rugshield/internal/app"
)

var (
	scamAddress         string
	scamType            string
	scamSeverity        string
	scamDescription     string
	scamWarningSigns    []string
	scamRecommendations []string
	scamSource          string
)

var reportScamCmd = &cobra.Command{
	Use:   "report-scam",
	Short: "Record a scam report for a token address",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ScamReportOptions{
			Address:         scamAddress,
			Type:            scamType,
			Severity:        scamSeverity,
			Description:     scamDescription,
			WarningSigns:    scamWarningSigns,
			Recommendations: scamRecommendations,
			Source:          scamSource,
		}
		return getApp().ReportScam(cmd.Context(), opts)
	},
}

func init() {
	reportScamCmd.Flags().StringVar(&scamAddress, "address", "", "Token contract address")
	reportScamCmd.Flags().StringVar(&scamType, "type", "", "Scam type (honeypot, rug_pull, phishing, ...)")
	reportScamCmd.Flags().StringVar(&scamSeverity, "severity", "high", "Severity (low, medium, high, critical)")
	reportScamCmd.Flags().StringVar(&scamDescription, "description", "", "Free-form description of the scam")
	reportScamCmd.Flags().StringSliceVar(&scamWarningSigns, "warning-sign", nil, "Warning sign (repeatable)")
	reportScamCmd.Flags().StringSliceVar(&scamRecommendations, "recommendation", nil, "Recommended action (repeatable)")
	reportScamCmd.Flags().StringVar(&scamSource, "source", "", "Report source (defaults to manual)")
}
