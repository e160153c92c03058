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

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
		Long:    "List, create, and delete projects",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsCreateCommand())
	cmd.AddCommand(newProjectsDeleteCommand())
	cmd.AddCommand(newProjectsUpdateKeyCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	var (
		allPages bool
		pageSize int
		query    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "List the projects the user has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsListCommand(allPages, pageSize, query)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&pageSize, "page-size", sonar.DefaultPageSize, "results per page")
	cmd.Flags().StringVarP(&query, "query", "q", "", "limit to keys and names matching the query")

	return cmd
}

func runProjectsListCommand(allPages bool, pageSize int, query string) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	builder := client.Projects().Search()
	builder.PageSize(pageSize)

	if query != "" {
		builder.WithQuery(query)
	}

	if allPages {
		projects, err := builder.All(ctx)
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}

		return outputProjects(projects, sonar.Paging{}, true)
	}

	page, err := builder.Execute(ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	return outputProjects(page.Items, page.Paging, false)
}

func outputProjects(projects []sonar.Project, paging sonar.Paging, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(projects)
	case OutputFormatYAML:
		return StandardYAMLRenderer(projects)
	default:
		return renderProjectTable(projects, paging, allPages)
	}
}

func renderProjectTable(projects []sonar.Project, paging sonar.Paging, allPages bool) error {
	if len(projects) == 0 {
		_, _ = os.Stdout.WriteString("No projects found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Name", "Visibility", "Last Analysis")

	for _, project := range projects {
		lastAnalysis := project.LastAnalysisDate
		if lastAnalysis == "" {
			lastAnalysis = "never"
		}

		_ = table.Append(project.Key, project.Name, project.Visibility, lastAnalysis)
	}

	_ = table.Render()

	if !allPages && paging.Total > len(projects) {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing %d of %d projects. Use --all to fetch all pages.\n",
			len(projects), paging.Total)
	}

	return nil
}

func newProjectsCreateCommand() *cobra.Command {
	var (
		name       string
		visibility string
		mainBranch string
	)

	cmd := &cobra.Command{
		Use:   "create PROJECT_KEY",
		Short: "Create a project",
		Long:  "Provision a project with the given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if name == "" {
				name = args[0]
			}

			project, err := client.Projects().Create(context.Background(), &sonar.ProjectCreateRequest{
				Project:    args[0],
				Name:       name,
				Visibility: visibility,
				MainBranch: mainBranch,
			})
			if err != nil {
				return fmt.Errorf("creating project: %w", err)
			}

			fmt.Printf("Created project '%s' (%s)\n", project.Name, project.Key)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (defaults to the key)")
	cmd.Flags().StringVar(&visibility, "visibility", "", "project visibility (public, private)")
	cmd.Flags().StringVar(&mainBranch, "main-branch", "", "main branch name")

	return cmd
}

func newProjectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT_KEY",
		Short: "Delete a project",
		Long:  "Delete a project and all of its analysis history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Projects().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("deleting project: %w", err)
			}

			fmt.Printf("Deleted project '%s'\n", args[0])

			return nil
		},
	}
}

func newProjectsUpdateKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-key OLD_KEY NEW_KEY",
		Short: "Change a project key",
		Long:  "Rename a project key, keeping its analysis history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Projects().UpdateKey(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("updating project key: %w", err)
			}

			fmt.Printf("Renamed project '%s' to '%s'\n", args[0], args[1])

			return nil
		},
	}
}
