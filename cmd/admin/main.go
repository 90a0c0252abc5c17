package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"headsup-server/internal/config"
	"headsup-server/internal/factory"
	"headsup-server/pkg/account"

	"github.com/badoux/checkmail"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var app *factory.App

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "headsup-admin",
		Short: "Administrative tasks for the heads-up server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}

			cfg := config.Instance()
			if cfg.Storage == config.StorageMemory {
				return errors.New("the admin tool requires postgres storage")
			}

			var err error
			app, err = factory.New(cmd.Context(), cfg, false)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPlayerCmd())
	return rootCmd
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerCreditCmd())
	cmd.AddCommand(newPlayerListCmd())

	return cmd
}

func newPlayerCreateCmd() *cobra.Command {
	var email, name string
	var admin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a player, prompting for the password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = getEmail()
				if email == "" {
					return errors.New("an email address is required")
				}
			}

			password := getPassword()
			if password == "" {
				return errors.New("a password is required")
			}

			player, err := app.Accounts.Register(cmd.Context(), account.Registration{
				Email:       email,
				DisplayName: name,
				Password:    password,
				IsSiteAdmin: admin,
			})
			if err != nil {
				return fmt.Errorf("could not create player: %w", err)
			}

			fmt.Printf("Created player %d (%s)\n", player.ID, player.DisplayName)
			if player.IsSiteAdmin {
				fmt.Println("Player is a site admin")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (prompted if empty)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (random if empty)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Make the player a site admin")

	return cmd
}

func newPlayerCreditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credit <player-id> <amount>",
		Short: "Adjust a player's balance, use a negative amount to debit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player ID: %q", args[0])
			}

			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %q", args[1])
			}

			balance, err := app.Accounts.AdjustBalance(cmd.Context(), id, amount)
			if err != nil {
				return err
			}

			fmt.Printf("Player %d now has a balance of %d\n", id, balance)
			return nil
		},
	}
}

func newPlayerListCmd() *cobra.Command {
	var start int64
	var rows int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := app.Accounts.ListPlayers(cmd.Context(), start, rows)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tBALANCE\tADMIN")
			for _, p := range players {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", p.ID, p.Email, p.DisplayName, p.Balance, p.IsSiteAdmin)
			}

			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "Offset")
	cmd.Flags().IntVar(&rows, "rows", 50, "Number of players")

	return cmd
}

func getPassword() string {
	for {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return ""
		}
		fmt.Println("")

		password := strings.TrimRight(string(pwBytes), "\r\n")

		if password == "" {
			return ""
		}

		if len(password) < account.MinPasswordLength {
			_, _ = fmt.Fprintf(os.Stderr, "password must be %d or more characters\n", account.MinPasswordLength)
			continue
		}

		return password
	}
}

func getEmail() string {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Email: ")
		str, err := reader.ReadString('\n')
		str = strings.TrimRight(str, "\r\n")
		if err != nil || str == "" {
			return ""
		}

		if err := checkmail.ValidateFormat(str); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			continue
		}

		return str
	}
}
