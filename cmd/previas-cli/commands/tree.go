package commands

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/lib/serviceutil"
	"bedelias-backend/services/previas"
	"bedelias-backend/services/previas/db"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"
)

var (
	treeDb   *string
	treeMode *string
)

func init() {
	treeDb = treeCmd.Flags().String("db", "previas.db", "The database to query.")
	treeMode = treeCmd.Flags().String("mode", "Curso", "Offering mode (Curso/Examen).")
	rootCmd.AddCommand(treeCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree [--db <previas.db>] [--mode Curso|Examen] <subject code>",
	Short: "Prints an offering's requirement tree.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, database := openService(*treeDb)
		defer database.Close()
		ctx := cmd.Context()

		offeringID, err := findOffering(database, args[0], previas.OfferingTypeFromMode(*treeMode))
		if err != nil {
			serviceutil.Fatal("offering not found", err)
		}
		trees, err := svc.RequirementTree(ctx, offeringID)
		if err != nil {
			serviceutil.Fatal("query failed", err)
		}
		if len(trees) == 0 {
			fmt.Println("no requirements")
			return
		}

		l := list.NewWriter()
		l.SetOutputMirror(os.Stdout)
		l.SetStyle(list.StyleConnectedRounded)
		for _, tree := range trees {
			appendGroup(l, tree)
		}
		l.Render()
	},
}

func findOffering(database *sql.DB, code, typ string) (int64, error) {
	var id int64
	err := database.QueryRow(`
		SELECT o.id FROM offerings o
		JOIN subjects s ON s.id = o.subject_id
		WHERE s.code = ? AND o.type = ?
		ORDER BY o.id LIMIT 1`,
		bedelias.CanonicalCode(code), typ).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("offering for %s (%s): %w", code, typ, err)
	}
	return id, nil
}

func appendGroup(l list.Writer, tree previas.GroupTree) {
	l.AppendItem(groupHeading(tree.Group))
	l.Indent()
	for _, item := range tree.Items {
		l.AppendItem(item.AltLabel)
	}
	for _, note := range tree.Notes {
		if note.Kind == previas.NoteCreditsInPlan {
			l.AppendItem(fmt.Sprintf("%d credits in plan %s", note.Credits.Int64, note.Plan))
		} else {
			l.AppendItem(note.Value)
		}
	}
	for _, child := range tree.Children {
		appendGroup(l, child)
	}
	l.UnIndent()
}

func groupHeading(group db.RequirementGroup) string {
	heading := group.Scope
	if group.Scope == previas.ScopeAny && group.MinRequired.Valid {
		heading += " (min " + strconv.FormatInt(group.MinRequired.Int64, 10) + ")"
	}
	if group.Note != "" {
		heading += " [" + group.Note + "]"
	}
	return heading
}
