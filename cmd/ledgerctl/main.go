package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"colorledger/internal/config"
	"colorledger/internal/db"
	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
	"colorledger/internal/spreadsheet"
)

var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = db.Configure
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg      config.Config
	database *gorm.DB
	ledger   *ledger.Service
	printer  *i18n.Printer
}

type globalOptions struct {
	book     string
	database string
	locale   string
}

func main() {
	a := &app{}
	err := newRootCmd(a).ExecuteContext(context.Background())
	if closeErr := db.Close(a.database); closeErr != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: close database: %v\n", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintain the dye formula ledger from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return a.open(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.book, "book", "", "Book label for imported formulas (default from config)")
	root.PersistentFlags().StringVar(&opts.database, "database", "", "Database URL or sqlite path (default from config)")
	root.PersistentFlags().StringVar(&opts.locale, "locale", "", "Language of printed messages (default from config)")

	root.AddCommand(
		newImportCmd(a),
		newTemplateCmd(),
		newListCmd(a),
		newAnalyticsCmd(a),
		newMigrateCmd(a),
		newWipeCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context, opts globalOptions) error {
	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.book != "" {
		cfg.Import.Book = opts.book
	}
	if opts.database != "" {
		cfg.Database.URL = opts.database
	}
	if opts.locale != "" {
		cfg.Import.Locale = opts.locale
	}

	if err := applog.SetOutput(os.Stderr, cfg.Logging.Format); err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}

	database, err := openDatabaseFunc(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	svc, err := ledger.New(database, ledger.Options{
		Book:         cfg.Import.Book,
		WipeCodeHash: cfg.Admin.WipeCodeHash,
		ReadFile:     spreadsheet.ReadFile,
	})
	if err != nil {
		return err
	}
	svc.Reload(ctx)

	a.cfg = cfg
	a.database = database
	a.ledger = svc
	a.printer = i18n.New(cfg.Import.Locale)
	return nil
}
