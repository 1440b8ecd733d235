package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-ats/internal/ats"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the weighted keywords of a document, heaviest first",
	RunE:  runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().StringP("file", "f", "", "path to the document (.txt, .docx or .pdf)")
	keywordsCmd.Flags().Int("limit", 0, "print at most this many keywords (0 prints all)")
	keywordsCmd.MarkFlagRequired("file")
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, _, e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer e.Close()

	path, _ := cmd.Flags().GetString("file")
	text, err := e.extract(ctx, path)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	printKeywords(cmd.OutOrStdout(), e.builder.Build(text), limit)
	return nil
}

func printKeywords(w io.Writer, m ats.Multiset, limit int) {
	ranked := m.Ranked()
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	for _, entry := range ranked {
		fmt.Fprintf(w, "%-30s %6.1f\n", entry.Term, entry.Weight)
	}
}
