package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"netwebquiz/internal/domain"
)

// NewLoginCmd exchanges credentials for a stored session.
func NewLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if username == "" || password == "" {
				username, password = promptCredentials(false)
			}

			resp, err := a.client.Login(cmd.Context(), domain.Credentials{Username: username, Password: password})
			if err != nil {
				return err
			}
			user, err := a.store.Save(resp.Token)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", color.CyanString(user.Username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

// NewRegisterCmd creates an account and stores the fresh session.
func NewRegisterCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if username == "" || password == "" {
				username, password = promptCredentials(true)
			}

			resp, err := a.client.Register(cmd.Context(), domain.Credentials{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			user, err := a.store.Save(resp.Token)
			if err != nil {
				return err
			}
			fmt.Printf("welcome, %s\n", color.CyanString(user.Username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

// NewLogoutCmd drops the stored session.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.store.Clear()
			fmt.Println("logged out")
			return nil
		},
	}
}

// NewWhoamiCmd prints the current session's user.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.user()
			if err != nil {
				return err
			}
			fmt.Printf("%s (level %d)\n", user.Username, user.Level)
			if user.IsAdmin() {
				fmt.Println("role: admin")
			}
			return nil
		},
	}
}

func promptCredentials(withConfirm bool) (string, string) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("username: ")
	username, _ := reader.ReadString('\n')
	fmt.Print("password: ")
	password, _ := reader.ReadString('\n')
	if withConfirm {
		fmt.Print("confirm password: ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != strings.TrimSpace(password) {
			fmt.Println(color.RedString("passwords do not match"))
			return promptCredentials(true)
		}
	}
	return strings.TrimSpace(username), strings.TrimSpace(password)
}
