package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/store"
)

func newKYCCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kyc",
		Short: "View or update identity verification details",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the KYC record on file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			access, err := requireAccess(a)
			if err != nil {
				return err
			}

			kyc, err := a.api.KYC(cmd.Context(), access)
			if err != nil {
				return err
			}
			fmt.Printf("ID number:     %s\n", orUnset(kyc.IDNumber))
			fmt.Printf("Date of birth: %s\n", orUnset(kyc.DateOfBirth))
			fmt.Printf("Address:       %s\n", orUnset(kyc.Address))
			return nil
		},
	}

	var idNumber, dateOfBirth, address string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update the KYC record",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			access, err := requireAccess(a)
			if err != nil {
				return err
			}

			if idNumber == "" {
				idNumber = a.prompt("ID number: ")
			}
			if dateOfBirth == "" {
				dateOfBirth = a.prompt("Date of birth (YYYY-MM-DD): ")
			}
			if address == "" {
				address = a.prompt("Address: ")
			}

			err = a.api.UpdateKYC(cmd.Context(), access, model.KYC{
				IDNumber:    idNumber,
				DateOfBirth: dateOfBirth,
				Address:     address,
			})
			if err != nil {
				return err
			}
			fmt.Println("KYC details updated.")
			return nil
		},
	}
	update.Flags().StringVar(&idNumber, "id-number", "", "national ID number")
	update.Flags().StringVar(&dateOfBirth, "date-of-birth", "", "date of birth (YYYY-MM-DD)")
	update.Flags().StringVar(&address, "address", "", "residential address")

	cmd.AddCommand(show, update)
	return cmd
}

func requireAccess(a *app) (string, error) {
	access, ok, err := a.store.Get(store.KeyAccess)
	if err != nil {
		return "", err
	}
	if !ok || access == "" {
		return "", fmt.Errorf("not signed in; run: fxrental login")
	}
	return access, nil
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
