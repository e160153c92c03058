package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage users",
		Long:    "List, create, and deactivate users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersDeactivateCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		query    string
		maxItems int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			users, err := client.Users().SearchAll(context.Background(), query, maxItems)
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(users)
			case OutputFormatYAML:
				return StandardYAMLRenderer(users)
			default:
				return renderUserTable(users)
			}
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by login, name, or email")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of users to fetch (0 = all)")

	return cmd
}

func renderUserTable(users []sonar.User) error {
	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Login", "Name", "Email", "Active")

	for _, user := range users {
		active := "no"
		if user.Active {
			active = "yes"
		}

		_ = table.Append(user.Login, user.Name, user.Email, active)
	}

	_ = table.Render()

	return nil
}

func newUsersCreateCommand() *cobra.Command {
	var (
		name     string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create LOGIN",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if name == "" {
				name = args[0]
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			user, err := client.Users().Create(context.Background(), &sonar.UserCreateRequest{
				Login:    args[0],
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Printf("Created user '%s' (%s)\n", user.Login, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (defaults to the login)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	return cmd
}

func newUsersDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate USER_ID",
		Short: "Deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Users().Deactivate(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("deactivating user: %w", err)
			}

			fmt.Printf("Deactivated user '%s'\n", args[0])

			return nil
		},
	}
}
