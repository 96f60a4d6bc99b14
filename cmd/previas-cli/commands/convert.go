package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"bedelias-backend/lib/serviceutil"
	"bedelias-backend/services/previas"

	"github.com/spf13/cobra"
)

var (
	convertCredits      *string
	convertRequirements *string
	convertPosprevias   *string
	convertOut          *string
)

func init() {
	convertCredits = convertCmd.Flags().String("credits", "", "Raw credits listing JSON.")
	convertRequirements = convertCmd.Flags().String("requirements", "", "Raw requirement trees JSON.")
	convertPosprevias = convertCmd.Flags().String("posprevias", "", "Raw posprevias listing JSON.")
	convertOut = convertCmd.Flags().String("out", "bedelias_normalized.json", "Normalized bundle output path.")
	rootCmd.AddCommand(convertCmd)
}

func readJSONFile[T any](path string) T {
	var out T
	if path == "" {
		return out
	}
	data, err := os.ReadFile(path)
	if err != nil {
		serviceutil.Fatal("failed to read "+path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		serviceutil.Fatal("failed to parse "+path, err)
	}
	return out
}

var convertCmd = &cobra.Command{
	Use:   "convert [--credits <raw.json>] [--requirements <raw.json>] [--posprevias <raw.json>] [--out <bundle.json>]",
	Short: "Normalizes raw portal dumps into a loadable bundle.",
	Run: func(cmd *cobra.Command, args []string) {
		bundle := previas.Convert(previas.ConvertInput{
			Credits:      readJSONFile[[]previas.CreditEntry](*convertCredits),
			Requirements: readJSONFile[map[string]previas.RawRequirementEntry](*convertRequirements),
			Posprevias:   readJSONFile[map[string]previas.PosEntry](*convertPosprevias),
		})

		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode bundle", err)
		}
		if err := os.WriteFile(*convertOut, data, 0644); err != nil {
			serviceutil.Fatal("failed to write "+*convertOut, err)
		}

		slog.Info("wrote normalized bundle",
			"path", *convertOut,
			"subjects", len(bundle.Subjects),
			"trees", len(bundle.Requirements))
	},
}
