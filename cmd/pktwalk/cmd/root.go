package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quietpixel/jpeg2000/internal/logging"
)

// NewRoot builds the pktwalk command tree: an inspection CLI over the
// packet iterator, not an encoder or decoder front-end.
func NewRoot(ctx context.Context) *cobra.Command {
	runID := uuid.NewString()

	cmd := &cobra.Command{
		Use:   "pktwalk",
		Short: "inspect JPEG 2000 packet-iterator sequences",
		Long:  "pktwalk drives the packet iterator over a synthetic or header-derived tile configuration and prints the resulting quadruple sequence or geometry table.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFile, _ := cmd.Flags().GetString("log-file")
			jsonLog, _ := cmd.Flags().GetBool("log-json")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}
			logger := logging.New(logging.Options{FilePath: logFile, JSON: jsonLog, Level: level}, runID)
			slog.SetDefault(logger)
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}

	cmd.AddCommand(
		NewWalkCmd(ctx),
		NewValidateCmd(ctx),
	)

	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "rotated log file path (stderr only when empty)")
	pf.Bool("log-json", false, "emit JSON log lines instead of text")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, sub := range cmd.Commands() {
		printCommandTree(sub, indent+1)
	}
}
