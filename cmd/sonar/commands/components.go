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

// NewComponentsCommand creates the components command group.
func NewComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"component"},
		Short:   "Browse components",
		Long:    "Show components and navigate component trees",
	}

	cmd.AddCommand(newComponentsShowCommand())
	cmd.AddCommand(newComponentsTreeCommand())

	return cmd
}

func newComponentsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show COMPONENT_KEY",
		Short: "Show a component",
		Long:  "Display a component and its ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Components().Show(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("showing component: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(result)
			case OutputFormatYAML:
				return StandardYAMLRenderer(result)
			default:
				return renderComponentTable([]sonar.Component{result.Component})
			}
		},
	}
}

func newComponentsTreeCommand() *cobra.Command {
	var (
		qualifiers []string
		strategy   string
		allPages   bool
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "tree COMPONENT_KEY",
		Short: "List a component tree",
		Long:  "List the components under a root component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComponentsTreeCommand(args[0], qualifiers, strategy, allPages, pageSize)
		},
	}

	cmd.Flags().StringSliceVar(&qualifiers, "qualifiers", nil, "filter by qualifier (TRK, DIR, FIL, UTS)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "traversal strategy (all, children, leaves)")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", sonar.DefaultPageSize, "results per page")

	return cmd
}

func runComponentsTreeCommand(key string, qualifiers []string, strategy string, allPages bool, pageSize int) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	builder := client.Components().Tree().WithComponent(key)
	builder.PageSize(pageSize)

	if len(qualifiers) > 0 {
		builder.WithQualifiers(qualifiers...)
	}

	if strategy != "" {
		builder.WithStrategy(strategy)
	}

	var components []sonar.Component

	if allPages {
		components, err = builder.All(ctx)
	} else {
		var page *sonar.Page[sonar.Component]

		page, err = builder.Execute(ctx)
		if page != nil {
			components = page.Items
		}
	}

	if err != nil {
		return fmt.Errorf("listing component tree: %w", err)
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(components)
	case OutputFormatYAML:
		return StandardYAMLRenderer(components)
	default:
		return renderComponentTable(components)
	}
}

func renderComponentTable(components []sonar.Component) error {
	if len(components) == 0 {
		_, _ = os.Stdout.WriteString("No components found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Name", "Qualifier", "Language")

	for _, component := range components {
		_ = table.Append(component.Key, component.Name, component.Qualifier, component.Language)
	}

	_ = table.Render()

	return nil
}
