package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/spf13/cobra"
)

// NewSbomCommand creates the sbom command group.
func NewSbomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sbom",
		Short: "Work with SBOM reports",
		Long:  "Download software bill of materials reports",
	}

	cmd.AddCommand(newSbomDownloadCommand())

	return cmd
}

func newSbomDownloadCommand() *cobra.Command {
	var (
		format     string
		outputFile string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "download PROJECT_KEY",
		Short: "Download an SBOM report",
		Long:  "Download the software bill of materials report for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSbomDownloadCommand(args[0], format, outputFile, quiet)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "report format (e.g. cyclonedx)")
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "output file (defaults to PROJECT_KEY-sbom.json)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress indicator")

	return cmd
}

func runSbomDownloadCommand(projectKey, format, outputFile string, quiet bool) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	if outputFile == "" {
		outputFile = projectKey + "-sbom.json"
	}

	var options *sonar.DownloadOptions

	if !quiet {
		options = &sonar.DownloadOptions{
			OnProgress: printProgress,
		}
	}

	report, err := client.Sca().DownloadSBOM(context.Background(), projectKey, format, options)
	if err != nil {
		return fmt.Errorf("downloading SBOM: %w", err)
	}

	if !quiet {
		fmt.Fprintln(os.Stderr)
	}

	err = os.WriteFile(outputFile, report, 0600)
	if err != nil {
		return fmt.Errorf("writing SBOM file: %w", err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(report), outputFile)

	return nil
}

// printProgress rewrites a single status line on stderr as chunks arrive.
func printProgress(p sonar.Progress) {
	if p.Total > 0 {
		fmt.Fprintf(os.Stderr, "\rDownloading... %d%% (%d/%d bytes)", p.Percentage, p.Loaded, p.Total)

		return
	}

	fmt.Fprintf(os.Stderr, "\rDownloading... %d bytes", p.Loaded)
}
