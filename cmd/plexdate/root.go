package main

import (
	"github.com/spf13/cobra"
)

type updateFlags struct {
	title       string
	csvPath     string
	date        string
	year        int
	library     string
	interactive bool
	dryRun      bool
	server      string
	token       string
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags updateFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "plexdate",
		Short: "Set the added date of Plex library items",
		Long: "plexdate changes the \"added at\" date Plex records for library items, " +
			"either for a single title or for every title,date[,year] row of a CSV file.",
		Example: `  plexdate --title "The Matrix" --date "2020-01-15 13:45:00"
  plexdate --title "Dune" --year 2021 --date 2020-01-15 --library Films
  plexdate --csv dates.csv --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, ctx, &flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	f := rootCmd.Flags()
	f.StringVarP(&flags.title, "title", "t", "", "Title of the item to update")
	f.StringVar(&flags.csvPath, "csv", "", "CSV file of title,date[,year] rows")
	f.StringVarP(&flags.date, "date", "d", "", "New added date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	f.IntVarP(&flags.year, "year", "y", 0, "Release year to disambiguate titles")
	f.StringVarP(&flags.library, "library", "l", "", "Library section name (default from config, Movies)")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Offer a numbered choice when no exact match is found")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Show what would change without editing")
	f.StringVar(&flags.server, "server", "", "Plex server URL (default PLEX_URL, config, or http://localhost:32400)")
	f.StringVar(&flags.token, "token", "", "Plex authentication token (default PLEX_TOKEN or config)")

	rootCmd.MarkFlagsMutuallyExclusive("title", "csv")
	rootCmd.MarkFlagsOneRequired("title", "csv")

	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
