package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewBadgesCommand creates the badges command group.
func NewBadgesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Fetch quality badges",
		Long:  "Fetch SVG quality badges for projects",
	}

	cmd.AddCommand(newBadgesMeasureCommand())
	cmd.AddCommand(newBadgesQualityGateCommand())

	return cmd
}

func newBadgesMeasureCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "measure PROJECT_KEY METRIC",
		Short: "Fetch a measure badge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			svg, err := client.Badges().Measure(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("fetching measure badge: %w", err)
			}

			return writeBadge(svg, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "write the SVG to a file instead of stdout")

	return cmd
}

func newBadgesQualityGateCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "quality-gate PROJECT_KEY",
		Short: "Fetch a quality gate badge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			svg, err := client.Badges().QualityGate(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("fetching quality gate badge: %w", err)
			}

			return writeBadge(svg, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "write the SVG to a file instead of stdout")

	return cmd
}

func writeBadge(svg, outputFile string) error {
	if outputFile == "" {
		fmt.Println(svg)

		return nil
	}

	err := os.WriteFile(outputFile, []byte(svg), 0600)
	if err != nil {
		return fmt.Errorf("writing badge file: %w", err)
	}

	fmt.Printf("Wrote badge to %s\n", outputFile)

	return nil
}
