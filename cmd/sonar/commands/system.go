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

// NewSystemCommand creates the system command group.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Inspect the server",
		Long:  "Check server status, health, and version",
	}

	cmd.AddCommand(newSystemStatusCommand())
	cmd.AddCommand(newSystemHealthCommand())
	cmd.AddCommand(newSystemPingCommand())
	cmd.AddCommand(newSystemVersionCommand())

	return cmd
}

func newSystemStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.System().Status(context.Background())
			if err != nil {
				return fmt.Errorf("getting system status: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(status)
			case OutputFormatYAML:
				return StandardYAMLRenderer(status)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Status", status.Status)
				_ = table.Append("Version", status.Version)
				_ = table.Append("ID", status.ID)
				_ = table.Render()

				return nil
			}
		},
	}
}

func newSystemHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Long:  "Show server health (GREEN, YELLOW, RED) and degradation causes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			health, err := client.System().Health(context.Background())
			if err != nil {
				return fmt.Errorf("getting system health: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(health)
			case OutputFormatYAML:
				return StandardYAMLRenderer(health)
			default:
				return renderHealthTable(health)
			}
		},
	}
}

func renderHealthTable(health *sonar.SystemHealth) error {
	fmt.Printf("Health: %s\n", health.Health)

	if len(health.Causes) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Cause")

	for _, cause := range health.Causes {
		_ = table.Append(cause.Message)
	}

	_ = table.Render()

	return nil
}

func newSystemPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Ping the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			pong, err := client.System().Ping(context.Background())
			if err != nil {
				return fmt.Errorf("pinging server: %w", err)
			}

			fmt.Println(pong)

			return nil
		},
	}
}

func newSystemVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			version, err := client.System().Version(ctx)
			if err != nil {
				return fmt.Errorf("getting server version: %w", err)
			}

			supportsV2, err := client.System().SupportsV2(ctx)
			if err != nil {
				return fmt.Errorf("checking v2 support: %w", err)
			}

			fmt.Printf("Server version: %s\n", version)

			if supportsV2 {
				fmt.Println("v2 API: supported")
			} else {
				fmt.Println("v2 API: not supported")
			}

			return nil
		},
	}
}
