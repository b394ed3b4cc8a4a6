package cli

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sdaadmin/app/internal/app/bootstrap"
	"sdaadmin/app/internal/domain/accounts"
)

func createAdminCmd() *cobra.Command {
	params := accounts.CreateParams{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user for the login page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(rt *runtime, db *gorm.DB) error {
				service, err := bootstrap.NewAccountService(db, rt.logger, rt.hub)
				if err != nil {
					return err
				}

				user, err := service.Create(cmd.Context(), params)
				if err != nil {
					if eris.Is(err, accounts.ErrUserExists) {
						return eris.Errorf("user %q already exists", params.Username)
					}
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created admin user %s (%s).\n", user.Username, user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params.Username, "username", "admin", "login name")
	cmd.Flags().StringVar(&params.Email, "email", "admin@sda.com", "contact address")
	cmd.Flags().StringVar(&params.Password, "password", "", "initial password (required)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
