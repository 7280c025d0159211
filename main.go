package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"etoro-extractor/config"
	"etoro-extractor/format"
	"etoro-extractor/models"
	"etoro-extractor/scraper/etoro"
	"etoro-extractor/utils"
)

const version = "0.1.0"

var (
	flagDebug  bool
	flagUser   string
	flagOutput string
	flagSave   string
)

func main() {
	root := &cobra.Command{
		Use:     "etoro",
		Short:   "Extract data from eToro public profiles",
		Version: version,
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug mode")

	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Extract portfolio information from an eToro user's public profile",
		RunE:  runPortfolio,
	}
	portfolioCmd.Flags().StringVarP(&flagUser, "user", "u", "", "eToro username to extract portfolio from")
	portfolioCmd.Flags().StringVarP(&flagOutput, "output", "o", "table", "Output format: table, json or csv")
	portfolioCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save results to file")
	root.AddCommand(portfolioCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, falling back to system env vars")
	}

	cfg := config.Load()
	logger := utils.NewLogger(os.Stderr, flagDebug || cfg.Debug)

	username := flagUser
	if username == "" {
		username = cfg.DefaultUsername
	}
	if username == "" {
		return fmt.Errorf("no username provided: use --user or set ETORO_DEFAULT_USERNAME in .env")
	}

	portfolio, err := extract(cfg, logger, username)
	if err != nil {
		return fmt.Errorf("extracting portfolio: %w", err)
	}

	if portfolio == nil {
		fmt.Println("No portfolio data found or user profile is private")
		return nil
	}

	var result string
	switch flagOutput {
	case "json":
		result, err = format.JSON(portfolio)
	case "csv":
		result, err = format.CSV(portfolio)
	case "table":
		result = format.Table(portfolio)
	default:
		return fmt.Errorf("unknown output format %q: want table, json or csv", flagOutput)
	}
	if err != nil {
		return fmt.Errorf("rendering portfolio: %w", err)
	}

	fmt.Println(result)

	if flagSave != "" {
		if err := os.WriteFile(flagSave, []byte(result), 0644); err != nil {
			return fmt.Errorf("saving results to %s: %w", flagSave, err)
		}
		logger.Info().Str("file", flagSave).Msg("Results saved")
	}

	return nil
}

// extract scopes the browser session to one extraction; the browser is
// released on every exit path.
func extract(cfg *config.Config, logger zerolog.Logger, username string) (*models.Portfolio, error) {
	session, err := etoro.NewSession(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	scraper := etoro.New(cfg, logger, session)
	return scraper.Portfolio(username)
}
