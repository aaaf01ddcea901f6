package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/account-api/cmd/accountctl/ui"
	"github.com/redmonkez12/account-api/internal/account"
	"github.com/redmonkez12/account-api/internal/client"
)

const requestTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "accountctl",
		Short:         "Manage accounts on a running account API",
		Long:          "Command-line client for registering, logging in, reading, updating and deleting accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", envOr("ACCOUNTCTL_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().String("token", os.Getenv("ACCOUNTCTL_TOKEN"), "Bearer token (defaults to $ACCOUNTCTL_TOKEN)")

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE:  runRegister,
	}
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE:  runLogin,
	}
	loginCmd.Flags().String("email", "", "Email address")

	profileCmd := &cobra.Command{
		Use:   "profile <id>",
		Short: "Show an account profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change the name and/or password of your account",
		RunE:  runUpdate,
	}
	updateCmd.Flags().String("name", "", "New display name")
	updateCmd.Flags().Bool("password", false, "Prompt for a new password")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account",
		RunE:  runDelete,
	}
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	rootCmd.AddCommand(registerCmd, loginCmd, profileCmd, updateCmd, deleteCmd)

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func newClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	return client.New(server, client.WithToken(token))
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	req, err := ui.RegisterForm(name, email)
	if err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	resp, err := newClient(cmd).Register(ctx, *req)
	if err != nil {
		return err
	}

	ui.PrintSuccess(resp.Message)
	ui.PrintProfile(resp.User)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")

	req, err := ui.LoginForm(email)
	if err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	resp, err := newClient(cmd).Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	ui.PrintToken(resp.ID, resp.Token)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	profile, err := newClient(cmd).Profile(ctx, args[0])
	if err != nil {
		return err
	}

	ui.PrintProfile(*profile)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	changePassword, _ := cmd.Flags().GetBool("password")

	if name == "" && !changePassword {
		return fmt.Errorf("nothing to update: pass --name and/or --password")
	}

	req, err := ui.UpdateForm(name, changePassword)
	if err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	msg, err := newClient(cmd).Update(ctx, *req)
	if err != nil {
		return err
	}

	ui.PrintSuccess(msg)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		confirmed, err := ui.Confirm("Delete your account? This cannot be undone.")
		if err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	password, err := ui.PasswordPrompt("Password")
	if err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	msg, err := newClient(cmd).Delete(ctx, account.DeleteRequest{Password: password})
	if err != nil {
		return err
	}

	ui.PrintSuccess(msg)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
