package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/peerlens/internal/services"
)

func newClassifyCmd() *cobra.Command {
	var lexicon string
	cmd := &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Classify a piece of feedback as strength, improvement or neutral",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadClassifier(lexicon)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Classify(strings.Join(args, " ")))
			return nil
		},
	}
	cmd.Flags().StringVar(&lexicon, "lexicon", "", "YAML lexicon file")
	return cmd
}

func newKeywordsCmd() *cobra.Command {
	var lexicon string
	cmd := &cobra.Command{
		Use:   "keywords TEXT...",
		Short: "Print the keywords extracted from a piece of feedback",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadClassifier(lexicon)
			if err != nil {
				return err
			}
			for _, kw := range c.ExtractKeywords(strings.Join(args, " ")) {
				fmt.Fprintln(cmd.OutOrStdout(), kw)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lexicon, "lexicon", "", "YAML lexicon file")
	return cmd
}

func loadClassifier(path string) (*services.Classifier, error) {
	lex, err := services.LoadLexicon(path)
	if err != nil {
		return nil, runtimeErr(err)
	}
	return services.NewClassifier(lex), nil
}
