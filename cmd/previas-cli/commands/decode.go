package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <saved-tree.html>",
	Short: "Decodes a saved PrimeFaces requirement tree fragment and prints the normalized tree.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := os.Open(args[0])
		if err != nil {
			serviceutil.Fatal("failed to open "+args[0], err)
		}
		defer file.Close()

		raw, err := bedelias.DecodeTree(file)
		if err != nil {
			serviceutil.Fatal("failed to decode tree", err)
		}
		node := bedelias.Normalize(raw)
		if node == nil {
			fmt.Println("tree normalized to nothing")
			return
		}

		data, err := json.MarshalIndent(node, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode tree", err)
		}
		fmt.Println(string(data))
	},
}
