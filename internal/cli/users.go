package cli

import (
	"errors"
	"fmt"
	"strings"

	"table_booking/internal/db"
	"table_booking/internal/domain"
	"table_booking/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user roles",
	}
	cmd.AddCommand(newUsersPromoteCmd())
	return cmd
}

func newUsersPromoteCmd() *cobra.Command {
	var role string

	c := &cobra.Command{
		Use:   "promote <login_id>",
		Short: "Set the role of a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			gdb, _, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			users := repository.NewUserRepository(gdb)
			loginID := strings.ToLower(strings.TrimSpace(args[0]))
			user, err := users.FindByLoginID(ctx, loginID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no user with login %q", loginID)
			} else if err != nil {
				return err
			}
			if user.Role == r {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", loginID, r)
				return nil
			}
			if err := users.UpdateRole(ctx, user.ID, r); err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{"user_id": user.ID, "login_id": loginID, "role": r}).Info("User role changed")
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", loginID, r)
			return nil
		},
	}

	c.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "admin or user")
	return c
}
