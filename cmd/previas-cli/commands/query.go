package commands

import (
	"database/sql"
	"os"
	"strconv"

	"bedelias-backend/lib/configuration"
	"bedelias-backend/lib/serviceutil"
	"bedelias-backend/lib/sqliteutil"
	"bedelias-backend/services/previas"
	"bedelias-backend/services/previas/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	availableDb     *string
	availableType   *string
	availableTerm   *string
	availableActive *bool

	unlockedDb     *string
	unlockedType   *string
	unlockedTerm   *string
	unlockedActive *bool
)

func init() {
	availableDb = availableCmd.Flags().String("db", "previas.db", "The database to query.")
	availableType = availableCmd.Flags().String("type", "", "Filter by offering type (COURSE/EXAM).")
	availableTerm = availableCmd.Flags().String("term", "", "Filter by term.")
	availableActive = availableCmd.Flags().Bool("active", false, "Only active offerings.")
	rootCmd.AddCommand(availableCmd)

	unlockedDb = unlockedCmd.Flags().String("db", "previas.db", "The database to query.")
	unlockedType = unlockedCmd.Flags().String("type", "", "Filter by offering type (COURSE/EXAM).")
	unlockedTerm = unlockedCmd.Flags().String("term", "", "Filter by term.")
	unlockedActive = unlockedCmd.Flags().Bool("active", false, "Only active offerings.")
	rootCmd.AddCommand(unlockedCmd)
}

// cliConfig is the optional previas.json5 next to (or above) the cwd;
// the --db flag wins over it.
type cliConfig struct {
	Db configuration.Sqlite `json:"db"`
}

func openService(path string) (previas.Service, *sql.DB) {
	if path == "previas.db" {
		cfg, err := configuration.ReadRecursively[cliConfig]("previas.json5")
		if err == nil && (cfg.Db.File != "" || cfg.Db.Url != "") {
			database, err := cfg.Db.OpenDB()
			if err != nil {
				serviceutil.Fatal("failed to open configured db", err)
			}
			if err := sqliteutil.ApplySchema(database, db.Schema); err != nil {
				serviceutil.Fatal("failed to apply schema", err)
			}
			return previas.NewService(database), database
		}
	}
	database, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return previas.NewService(database), database
}

func renderOfferings(offerings []previas.OfferingSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Code", "Subject", "Type", "Term", "Credits"})
	for _, o := range offerings {
		credits := ""
		if o.Credits != nil {
			credits = strconv.FormatFloat(*o.Credits, 'f', -1, 64)
		}
		t.AppendRow(table.Row{o.SubjectCode, o.SubjectName, o.Type, o.Term, credits})
	}
	t.Render()
}

var availableCmd = &cobra.Command{
	Use:   "available [--db <previas.db>] <approved code> ...",
	Short: "Lists offerings whose requirements the approved subjects satisfy.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, database := openService(*availableDb)
		defer database.Close()

		offerings, err := svc.AvailableOfferings(cmd.Context(), args, previas.OfferingFilters{
			Type:       *availableType,
			Term:       *availableTerm,
			ActiveOnly: *availableActive,
		})
		if err != nil {
			serviceutil.Fatal("query failed", err)
		}
		renderOfferings(offerings)
	},
}

var unlockedCmd = &cobra.Command{
	Use:   "unlocked [--db <previas.db>] <subject code> ...",
	Short: "Lists offerings that reference the given subjects in their requirements.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, database := openService(*unlockedDb)
		defer database.Close()

		offerings, err := svc.UnlockedBy(cmd.Context(), args, previas.OfferingFilters{
			Type:       *unlockedType,
			Term:       *unlockedTerm,
			ActiveOnly: *unlockedActive,
		})
		if err != nil {
			serviceutil.Fatal("query failed", err)
		}
		renderOfferings(offerings)
	},
}
