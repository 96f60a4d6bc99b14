package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "previas-cli",
	Short: "previas-cli converts, loads and queries bedelías prerequisite data.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseProgramKey splits a program key like "INGENIERIA_1997" into
// name and plan year. Keys without a trailing year are just a name.
func parseProgramKey(key string) (name string, planYear int64) {
	at := strings.LastIndex(key, "_")
	if at < 0 {
		return key, 0
	}
	year, err := strconv.ParseInt(key[at+1:], 10, 64)
	if err != nil {
		return key, 0
	}
	return key[:at], year
}
