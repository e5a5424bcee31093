package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/moazmaksod/YourContactMerger/internal/config"
	"github.com/moazmaksod/YourContactMerger/internal/report"
	"github.com/moazmaksod/YourContactMerger/internal/sources"
	"github.com/moazmaksod/YourContactMerger/internal/sources/addressbook"
	"github.com/moazmaksod/YourContactMerger/internal/sources/csvutil"
	"github.com/moazmaksod/YourContactMerger/internal/sources/directory"
	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/export"
	"github.com/moazmaksod/YourContactMerger/pkg/logging"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

var mergeFlags struct {
	primaryCSV    string
	fromAPI       bool
	clientSecret  string
	tokenFile     string
	secondaryCSVs []string
	secondaryDB   string
	dbQuery       string
	output        string
	template      string
	reportsDir    string
}

// mergeCmd runs the full consolidation pipeline.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge primary contacts with the secondary directory",
	Long: `Merge loads the primary contacts (address-book CSV export or the
live People API), consolidates duplicates by name and phone number,
integrates the secondary directory (CSV export or SQLite database), and
writes the merged contacts plus audit reports.`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeFlags.primaryCSV, "primary", "", "primary contacts CSV export")
	mergeCmd.Flags().BoolVar(&mergeFlags.fromAPI, "from-api", false, "load primary contacts from the People API")
	mergeCmd.Flags().StringVar(&mergeFlags.clientSecret, "client-secret", "client_secret.json", "OAuth client secret file")
	mergeCmd.Flags().StringVar(&mergeFlags.tokenFile, "token", "token.json", "OAuth token file")
	mergeCmd.Flags().StringArrayVar(&mergeFlags.secondaryCSVs, "secondary", nil, "secondary directory CSV (repeatable)")
	mergeCmd.Flags().StringVar(&mergeFlags.secondaryDB, "secondary-db", "", "secondary directory SQLite database")
	mergeCmd.Flags().StringVar(&mergeFlags.dbQuery, "db-query", "", "override the directory database query")
	mergeCmd.Flags().StringVar(&mergeFlags.output, "output", "merged_contacts.csv", "merged contacts output file")
	mergeCmd.Flags().StringVar(&mergeFlags.template, "template", "", "CSV whose header defines the export columns")
	mergeCmd.Flags().StringVar(&mergeFlags.reportsDir, "reports-dir", "logs", "directory for merge reports")
}

func runMerge(cmd *cobra.Command, _ []string) error {
	ctx := logging.WithLogger(cmd.Context(), logging.Default())
	logger := logging.FromContext(ctx)

	rules, err := loadRules()
	if err != nil {
		return err
	}
	normalizer, err := rules.Normalizer()
	if err != nil {
		return err
	}

	primary, err := loadPrimary(ctx, normalizer)
	if err != nil {
		return err
	}
	secondary, err := loadSecondary(ctx, normalizer, rules)
	if err != nil {
		return err
	}

	merger, err := contacts.New(rules.MergerOptions(normalizer)...)
	if err != nil {
		return err
	}
	result, err := merger.Merge(ctx, primary, secondary)
	if err != nil {
		return err
	}

	if err := writeExport(normalizer, result); err != nil {
		return err
	}

	writer, err := report.NewWriter(mergeFlags.reportsDir)
	if err != nil {
		return err
	}
	jsonPath, csvPath, err := writer.Write(result)
	if err != nil {
		return err
	}
	if jsonPath != "" {
		logger.Info().Str("json", jsonPath).Str("csv", csvPath).Msg("Wrote merge reports")
	}

	logger.Info().Msg(result.Summary())
	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	return nil
}

// loadRules reads the rules file when one is configured, otherwise returns
// the zero rules that select the stock behavior everywhere.
func loadRules() (*config.Rules, error) {
	path := rulesFile
	if path == "" {
		path = config.GetString("rules")
	}
	if path == "" {
		return &config.Rules{}, nil
	}
	return config.LoadRules(path)
}

func loadPrimary(ctx context.Context, n *normalize.Normalizer) (map[string]*contacts.Record, error) {
	var loader sources.Source
	switch {
	case mergeFlags.fromAPI:
		conf, err := addressbook.OAuthConfig(mergeFlags.clientSecret)
		if err != nil {
			return nil, err
		}
		tok, err := addressbook.LoadToken(mergeFlags.tokenFile)
		if err != nil {
			return nil, err
		}
		ts := conf.TokenSource(ctx, tok)
		loader, err = addressbook.NewPeopleAPI(
			[]option.ClientOption{option.WithTokenSource(ts)},
			addressbook.WithNormalizer(n))
		if err != nil {
			return nil, err
		}
	case mergeFlags.primaryCSV != "":
		var err error
		loader, err = addressbook.NewCSV(mergeFlags.primaryCSV, addressbook.WithNormalizer(n))
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewValidationError("primary", nil,
			"either --primary or --from-api is required")
	}
	return loader.Load(ctx)
}

func loadSecondary(ctx context.Context, n *normalize.Normalizer, rules *config.Rules) (map[string]*contacts.Record, error) {
	var loaders []sources.Source
	for _, path := range mergeFlags.secondaryCSVs {
		loader, err := directory.NewCSV(path, directory.WithNormalizer(n))
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, loader)
	}
	if mergeFlags.secondaryDB != "" {
		query := mergeFlags.dbQuery
		if query == "" {
			query = rules.DirectoryQuery
		}
		loader, err := directory.NewDB(mergeFlags.secondaryDB, query, directory.WithNormalizer(n))
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, loader)
	}

	combined := make(map[string]*contacts.Record)
	for _, loader := range loaders {
		records, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		for name, rec := range records {
			existing, ok := combined[name]
			if !ok {
				combined[name] = rec
				continue
			}
			// Same display name across directory inputs: union the
			// numbers onto the first occurrence.
			for _, num := range rec.Numbers {
				existing.AddNumber(num)
			}
		}
	}
	return combined, nil
}

func writeExport(n *normalize.Normalizer, result *contacts.Result) error {
	opts := []export.Option{export.WithNormalizer(n)}
	if mergeFlags.template != "" {
		table, err := csvutil.ReadFile(mergeFlags.template)
		if err != nil {
			return err
		}
		opts = append(opts, export.WithTemplateColumns(table.Columns))
	}
	exporter, err := export.New(opts...)
	if err != nil {
		return err
	}
	return exporter.WriteFile(mergeFlags.output, result.Merged)
}
