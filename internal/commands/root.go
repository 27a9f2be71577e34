package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"admission-workers/internal/extraction"
	"admission-workers/internal/models"
)

// Version is set at build time.
var Version = "dev"

// ErrRejected is returned when a checked document fails validation. The
// result has already been printed.
var ErrRejected = errors.New("document rejected")

// NewRootCommand creates the doccheck CLI with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "doccheck",
		Short:   "Validate admission document candidates offline",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCommand(),
		newIdentityCommand(),
		newAcademicCommand(),
		newReceiptsCommand(),
		newActivitiesCommand(),
	)

	return rootCmd
}

func readCandidate(path string) (*models.DocumentCandidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate: %w", err)
	}
	c, err := extraction.ParseCandidate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints v and maps an invalid result to ErrRejected.
func report(cmd *cobra.Command, v interface{}, valid bool) error {
	if err := printJSON(cmd.OutOrStdout(), v); err != nil {
		return err
	}
	if !valid {
		return ErrRejected
	}
	return nil
}
