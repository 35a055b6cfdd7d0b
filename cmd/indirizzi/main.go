package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/indirizzi-api/internal/app"
	"github.com/indirizzi-api/internal/capdata"
	"github.com/indirizzi-api/internal/config"
	"github.com/indirizzi-api/internal/db"
	"github.com/indirizzi-api/internal/logging"
	"github.com/indirizzi-api/internal/parser"
	"github.com/indirizzi-api/internal/validation"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "indirizzi",
		Short: "Italian address normalization service",
		Long:  `Parses, validates and normalizes Italian postal addresses against the CAP lookup table and OpenStreetMap`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger = logging.New(os.Stderr, cfg.Env, cfg.LogLevel)
		},
	}

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createMigrateCmd())
	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createLookupCmd())
	rootCmd.AddCommand(createCheckStreetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// createServeCmd runs the HTTP API
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return a.Server().Start()
		},
	}
}

// createMigrateCmd applies the lookup table schema
func createMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the cap_comuni table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.CAPDatabaseURL == "" {
				return fmt.Errorf("CAP_DATABASE_URL is not set")
			}

			conn, err := db.NewConnection(cmd.Context(), cfg.CAPDatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(conn.DB); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}

// createImportCmd loads a CAP CSV into Postgres
func createImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-cap [csv-file]",
		Short: "Import a cap,comune CSV into the cap_comuni table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.CAPDataPath
			if len(args) == 1 {
				path = args[0]
			}
			if cfg.CAPDatabaseURL == "" {
				return fmt.Errorf("CAP_DATABASE_URL is not set")
			}

			conn, err := db.NewConnection(cmd.Context(), cfg.CAPDatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(conn.DB); err != nil {
				return err
			}

			n, err := capdata.NewImporter(conn.DB).ImportCSV(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d rows from %s\n", n, path)
			return nil
		},
	}
}

// createParseCmd prints parser output without running any checks
func createParseCmd() *cobra.Command {
	var regexOnly bool

	cmd := &cobra.Command{
		Use:   "parse <address>",
		Short: "Parse an address and show labels and resolved fields",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			address := strings.Join(args, " ")
			chain := app.NewParser(cfg.UseLibpostal && !regexOnly, logger)
			result := chain.Parse(address)

			fmt.Printf("Input:    %s\n", address)
			fmt.Printf("Strategy: %s\n\n", result.Strategy)

			labels := make([]string, 0, len(result.Components))
			for label := range result.Components {
				labels = append(labels, string(label))
			}
			sort.Strings(labels)
			fmt.Println("Components:")
			for _, label := range labels {
				fmt.Printf("  %-15s %s\n", label, result.Components[parser.Label(label)])
			}

			f := parser.Resolve(result.Components)
			fmt.Println("\nResolved:")
			fmt.Printf("  %-15s %s\n", "street", f.Street)
			fmt.Printf("  %-15s %s\n", "house_number", f.HouseNumber)
			fmt.Printf("  %-15s %s\n", "postcode", f.Postcode)
			fmt.Printf("  %-15s %s\n", "city", f.City)
			fmt.Printf("  %-15s %s\n", "province", f.Province)
		},
	}

	cmd.Flags().BoolVar(&regexOnly, "regex", false, "Skip libpostal and use the regex parser")
	return cmd
}

// createLookupCmd queries the lookup table
func createLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <cap> [comune]",
		Short: "Show the comuni for a CAP, or check a CAP against a comune",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.LoadTable(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			code := args[0]
			comuni := table.CitiesFor(code)
			if len(comuni) == 0 {
				fmt.Printf("%s: not in lookup table\n", code)
			} else {
				fmt.Printf("%s: %s\n", code, strings.Join(comuni, ", "))
			}

			if len(args) == 2 {
				v := validation.NewPostcodeValidator(table)
				comune := args[1]
				fmt.Printf("Matches %q: %v\n", comune, v.Matches(code, comune))
				if suggested, ok := v.Suggest(comune); ok {
					fmt.Printf("Suggested CAP for %q: %s\n", comune, suggested)
				} else {
					fmt.Printf("No CAP known for %q\n", comune)
				}
			}
			return nil
		},
	}
}

// createCheckStreetCmd runs a single Overpass lookup
func createCheckStreetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-street <street> <city>",
		Short: "Check whether a street exists in a comune on OpenStreetMap",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			client := app.NewStreetChecker(cfg, logger)
			result := client.Exists(cmd.Context(), args[0], args[1], "")
			fmt.Printf("%s, %s: %s\n", args[0], args[1], result)
		},
	}
}
