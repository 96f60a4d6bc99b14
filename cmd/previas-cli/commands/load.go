package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bedelias-backend/lib/serviceutil"
	"bedelias-backend/services/previas"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	loadDb         *string
	loadBundle     *string
	loadPosprevias *string
	loadVigentes   *string
	loadProgram    *string
	loadTerm       *string
)

func init() {
	loadDb = loadCmd.Flags().String("db", "previas.db", "The database to load into.")
	loadBundle = loadCmd.Flags().String("bundle", "bedelias_normalized.json", "Normalized bundle produced by convert.")
	loadPosprevias = loadCmd.Flags().String("posprevias", "", "Raw posprevias listing JSON.")
	loadVigentes = loadCmd.Flags().String("vigentes", "", "Raw vigentes listing JSON.")
	loadProgram = loadCmd.Flags().String("program", "", "Program key, e.g. INGENIERIA_1997.")
	loadTerm = loadCmd.Flags().String("term", "", "Term to stamp on offerings, e.g. 2026.")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load --program <NAME_YEAR> [--db <previas.db>] [--bundle <bundle.json>]",
	Short: "Loads a normalized bundle (plus raw listings) into the database.",
	Run: func(cmd *cobra.Command, args []string) {
		bundle := readJSONFile[previas.Bundle](*loadBundle)
		name, planYear := parseProgramKey(*loadProgram)

		svc, database := openService(*loadDb)
		defer database.Close()

		res, err := svc.Ingest(cmd.Context(),
			previas.IngestOptions{Program: name, PlanYear: planYear, Term: *loadTerm},
			previas.IngestInput{
				Subjects:     bundle.Subjects,
				Requirements: bundle.Requirements,
				Posprevias:   readJSONFile[map[string]previas.PosEntry](*loadPosprevias),
				Vigentes:     readJSONFile[[]previas.VigenteEntry](*loadVigentes),
			})
		if err != nil {
			serviceutil.Fatal("load failed", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Stat", "Count"})
		t.AppendRows([]table.Row{
			{"subjects created", res.Subjects},
			{"subjects updated", res.SubjectsUpdated},
			{"offerings", res.Offerings},
			{"groups", res.Groups},
			{"links", res.Links},
			{"items", res.Items},
			{"notes", res.Notes},
			{"edges", res.Edges},
			{"vigentes", res.Vigentes},
			{"failed entries", res.FailedEntries},
			{"warnings", res.Warnings},
		})
		t.Render()

		if len(res.MissingSubjects) > 0 {
			fmt.Printf("missing subjects (%d): %s\n",
				len(res.MissingSubjects), strings.Join(res.MissingSubjects, ", "))
		}
		slog.Info("load complete", "db", *loadDb, "program", *loadProgram)
	},
}
