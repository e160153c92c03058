package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		server       string
		token        string
		organization string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a server",
		Long:  "Verify credentials against a server and save them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get server URL
			if server == "" {
				server = viper.GetString("server")
			}

			if server == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Server URL: ")
				server, _ = reader.ReadString('\n')
				server = strings.TrimSpace(server)
			}

			if server == "" {
				return ErrServerRequired
			}

			// Get token, hidden from the terminal
			if token == "" {
				fmt.Print("Token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}

				token = string(byteToken)

				fmt.Println()
			}

			viper.Set("server", server)
			viper.Set("token", token)

			if organization != "" {
				viper.Set("organization", organization)
			}

			// Verify the credentials before saving them
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.System().Status(context.Background())
			if err != nil {
				return fmt.Errorf("connecting to server: %w", err)
			}

			if err := saveConfig(); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s (version %s, status %s)\n",
				server, status.Version, status.Status)

			return nil
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server URL")
	cmd.Flags().StringVarP(&token, "token", "t", "", "authentication token (prompted when omitted)")
	cmd.Flags().StringVarP(&organization, "organization", "o", "", "organization key")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the server",
		Long:  "Clear the saved authentication token",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("token", "")

			if err := saveConfig(); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}
