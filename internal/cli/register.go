package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fxrental/client/internal/register"
	"github.com/fxrental/client/internal/validate"
)

func newRegisterCommand(configPath *string) *cobra.Command {
	var single bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long:  "Walks the three-step registration flow. With --single the one-page signup form is used instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if single {
				return runSingleRegistration(cmd, a)
			}
			return runStepRegistration(cmd, a)
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "use the single-page signup form")
	return cmd
}

func runSingleRegistration(cmd *cobra.Command, a *app) error {
	fields := validate.SignupFields{
		FullName:        a.prompt("Full name: "),
		Email:           a.prompt("Email: "),
		Password:        a.prompt("Password: "),
		ConfirmPassword: a.prompt("Confirm password: "),
	}
	errs, err := register.RegisterOnce(cmd.Context(), a.api, fields)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		printFieldErrors(errs)
		return errors.New("registration not submitted")
	}
	fmt.Println("Account created. You can now sign in with: fxrental login")
	return nil
}

func runStepRegistration(cmd *cobra.Command, a *app) error {
	m := register.NewMachine(a.api, a.store, a, a)

	// Resume where a previous run left off: with a persisted draft the
	// guard admits step two directly.
	startAt := register.StepOne
	if decision, err := m.Enter(register.StepTwo); err != nil {
		return err
	} else if decision.Proceed {
		fmt.Println("Resuming your saved registration.")
		startAt = register.StepTwo
	}

	if startAt == register.StepOne {
		for {
			fields := validate.StepOneFields{
				FullName: a.prompt("Full name: "),
				Email:    a.prompt("Email: "),
				Password: a.prompt("Password (min 6 characters): "),
			}
			errs, err := m.SubmitStepOne(fields)
			if err != nil {
				return err
			}
			if len(errs) == 0 {
				break
			}
			printFieldErrors(errs)
		}
	}

	for m.Step() == register.StepTwo {
		fields := validate.StepTwoFields{
			PhoneNumber: a.prompt("Phone number (e.g. 0712345678): "),
		}
		errs, err := m.SubmitStepTwo(cmd.Context(), fields)
		if err != nil {
			if errors.Is(err, register.ErrPaymentDeclined) {
				fmt.Println("Registration paused. Run this command again to continue.")
				return nil
			}
			return err
		}
		if len(errs) > 0 {
			printFieldErrors(errs)
		}
	}

	for m.Step() == register.StepThree {
		fields := validate.StepThreeFields{
			FullName:    a.prompt("Full name (as on your ID): "),
			IDNumber:    a.prompt("ID number: "),
			DateOfBirth: a.prompt("Date of birth (YYYY-MM-DD): "),
			Address:     a.prompt("Address: "),
		}
		errs, err := m.SubmitStepThree(cmd.Context(), fields)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			printFieldErrors(errs)
		}
	}

	if m.Step() == register.Completed {
		fmt.Println("Registration complete!")
	}
	return nil
}

func printFieldErrors(errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Printf("  %s: %s\n", field, errs[field])
	}
}
