// cmd/bookshelf/root.go
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alestoica/online-bookshelf/internal/app"
	"github.com/alestoica/online-bookshelf/internal/config"
	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/session"
)

func newRootCmd() *cobra.Command {
	var a *app.App

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Client for the online bookshelf library service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
			a = app.New(cfg, session.NewFileTokenStore(cfg.TokenFile), logger)
			return nil
		},
	}

	root.AddCommand(
		newLoginCmd(&a),
		newRegisterCmd(&a),
		newLogoutCmd(&a),
		newBooksCmd(&a),
		newLoanCmd(&a),
		newReturnCmd(&a),
		newLoansCmd(&a),
		newFavoritesCmd(&a),
		newReviewsCmd(&a),
		newFeesCmd(&a),
		newAdminCmd(&a),
	)
	return root
}

// readPassword reads a password with terminal masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// describe turns a classified store error into the message a page would
// show. The outstanding-fees rejection gets its dedicated text.
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case errs.IsBusinessRule(err):
		if err.Error() == "Outstanding fees" {
			return fmt.Errorf("you have outstanding fees! pay them before loaning more books")
		}
		return err
	case errs.IsAuth(err):
		return fmt.Errorf("please log in first (%v)", err)
	case errs.IsNetwork(err):
		return fmt.Errorf("could not reach the library service (%v)", err)
	default:
		return err
	}
}
