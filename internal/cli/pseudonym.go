package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/peerlens/internal/services"
)

func newPseudonymCmd() *cobra.Command {
	var reviewer, request, at, key string
	cmd := &cobra.Command{
		Use:   "pseudonym",
		Short: "Derive the pseudonym a reviewer gets for one submission",
		Long:  "The key defaults to PEERLENS_PSEUDONYM_KEY; the pseudonym matches the server's only with the same key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("PEERLENS_PSEUDONYM_KEY")
			}
			if key == "" {
				return errors.New("no key: pass --key or set PEERLENS_PSEUDONYM_KEY")
			}
			ts := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339Nano, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				ts = parsed
			}
			p := services.NewAnonymizer([]byte(key)).DerivePseudonym(reviewer, request, ts)
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer id")
	cmd.Flags().StringVar(&request, "request", "", "Review request id")
	cmd.Flags().StringVar(&at, "at", "", "Submission time, RFC 3339 (default now)")
	cmd.Flags().StringVar(&key, "key", "", "Pseudonym key")
	_ = cmd.MarkFlagRequired("reviewer")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}
