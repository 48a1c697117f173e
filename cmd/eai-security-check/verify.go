package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eaiti/eai-security-check-sub001/internal/integrity"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <report-file>",
	Short: "Verify a signed report's integrity",
	Long: `Verify recomputes the HMAC over a signed report and compares it to
the stored signature. Exit code 0 means the report is intact; 1 means it
was modified after signing or carries no valid signature.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	signer, err := integrity.NewSigner()
	if err != nil {
		return err
	}

	res := signer.Verify(string(data))
	out := cmd.OutOrStdout()
	if res.IsValid {
		fmt.Fprintln(out, "✅", res.Message)
		if env := res.Envelope; env != nil && env.Metadata.Hostname != "" {
			fmt.Fprintf(out, "   host: %s\n", env.Metadata.Hostname)
		}
		return nil
	}

	fmt.Fprintln(out, "❌", res.Message)
	return errExitFailure
}
