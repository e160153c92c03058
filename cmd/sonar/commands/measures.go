package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewMeasuresCommand creates the measures command group.
func NewMeasuresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measures",
		Short: "Read measures",
		Long:  "Read current and historical metric values for components",
	}

	cmd.AddCommand(newMeasuresGetCommand())
	cmd.AddCommand(newMeasuresHistoryCommand())

	return cmd
}

func newMeasuresGetCommand() *cobra.Command {
	var metrics []string

	cmd := &cobra.Command{
		Use:   "get COMPONENT_KEY",
		Short: "Get component measures",
		Long:  "Get the current values of the given metrics for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(metrics) == 0 {
				return ErrMetricsRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Measures().Component(context.Background(), args[0], metrics)
			if err != nil {
				return fmt.Errorf("getting measures: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(result.Component)
			case OutputFormatYAML:
				return StandardYAMLRenderer(result.Component)
			default:
				return renderMeasuresTable(result.Component)
			}
		},
	}

	cmd.Flags().StringSliceVarP(&metrics, "metrics", "m", nil, "metric keys (e.g. coverage,bugs,code_smells)")

	return cmd
}

func renderMeasuresTable(component sonar.Component) error {
	if len(component.Measures) == 0 {
		_, _ = os.Stdout.WriteString("No measures found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Value")

	for _, measure := range component.Measures {
		_ = table.Append(measure.Metric, measure.Value)
	}

	_ = table.Render()

	return nil
}

func newMeasuresHistoryCommand() *cobra.Command {
	var (
		metrics  []string
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "history COMPONENT_KEY",
		Short: "Get measure history",
		Long:  "Get dated historical values of the given metrics for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(metrics) == 0 {
				return ErrMetricsRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Measures().SearchHistory(
				context.Background(),
				args[0],
				metrics,
				sonar.NewQueryParams().WithPageSize(pageSize),
			)
			if err != nil {
				return fmt.Errorf("getting measure history: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(page.Items)
			case OutputFormatYAML:
				return StandardYAMLRenderer(page.Items)
			default:
				return renderHistoryTable(page.Items)
			}
		},
	}

	cmd.Flags().StringSliceVarP(&metrics, "metrics", "m", nil, "metric keys")
	cmd.Flags().IntVar(&pageSize, "page-size", sonar.DefaultPageSize, "results per page")

	return cmd
}

func renderHistoryTable(histories []sonar.MeasureHistory) error {
	if len(histories) == 0 {
		_, _ = os.Stdout.WriteString("No history found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Date", "Value")

	for _, history := range histories {
		for _, row := range history.History {
			_ = table.Append(history.Metric, row.Date, row.Value)
		}
	}

	_ = table.Render()

	return nil
}
