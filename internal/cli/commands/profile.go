package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/client"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileCreateCmd())
	cmd.AddCommand(newProfileUpdateCmd())

	return cmd
}

func profileFlags(cmd *cobra.Command, req *client.ProfileRequest) {
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.DateOfBirth, "date-of-birth", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Gender, "gender", "", "Gender")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.EducationLevel, "education", "", "Education level: none, primary, secondary, tertiary, vocational, graduate")
	cmd.Flags().StringVar(&req.EmploymentStatus, "employment", "", "Employment status: unemployed, employed_full_time, employed_part_time, self_employed, student, retired, unable_to_work")
	cmd.Flags().Float64Var(&req.IncomeLevel, "income", 0, "Monthly income")
	cmd.Flags().IntVar(&req.HouseholdSize, "household-size", 0, "People in the household")
	cmd.Flags().IntVar(&req.Dependents, "dependents", 0, "Number of dependents")
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runProfileShow(store, os.Stdout)
		},
	}
}

func runProfileShow(store *session.Store, out io.Writer) error {
	if _, err := requireSession(context.Background(), store, nil); err != nil {
		return err
	}

	profile, err := store.Client().GetMyProfile(context.Background())
	if err != nil {
		return err
	}

	printProfile(out, profile)
	return nil
}

func newProfileCreateCmd() *cobra.Command {
	var req client.ProfileRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runProfileCreate(store, os.Stdout, req)
		},
	}

	profileFlags(cmd, &req)
	return cmd
}

func runProfileCreate(store *session.Store, out io.Writer, req client.ProfileRequest) error {
	if _, err := requireSession(context.Background(), store, nil); err != nil {
		return err
	}

	profile, err := store.Client().CreateProfile(context.Background(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Profile created!")
	printProfile(out, profile)
	return nil
}

func newProfileUpdateCmd() *cobra.Command {
	var req client.ProfileRequest

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Long:  `Update profile fields. Only the flags you pass change; everything else keeps its value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runProfileUpdate(store, os.Stdout, req)
		},
	}

	profileFlags(cmd, &req)
	return cmd
}

func runProfileUpdate(store *session.Store, out io.Writer, req client.ProfileRequest) error {
	if _, err := requireSession(context.Background(), store, nil); err != nil {
		return err
	}

	profile, err := store.Client().UpdateMyProfile(context.Background(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Profile updated!")
	printProfile(out, profile)
	return nil
}

func printProfile(out io.Writer, profile *client.Profile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s %s\n", profile.FirstName, profile.LastName)
	if profile.DateOfBirth != nil {
		fmt.Fprintf(w, "Date of birth:\t%s\n", *profile.DateOfBirth)
	}
	fmt.Fprintf(w, "Phone:\t%s\n", orDash(profile.PhoneNumber))
	fmt.Fprintf(w, "Education:\t%s\n", orDash(profile.EducationLevel))
	fmt.Fprintf(w, "Employment:\t%s\n", orDash(profile.EmploymentStatus))
	if profile.IncomeLevel > 0 {
		fmt.Fprintf(w, "Income:\t%.2f\n", profile.IncomeLevel)
	}
	fmt.Fprintf(w, "Household size:\t%d\n", profile.HouseholdSize)
	fmt.Fprintf(w, "Dependents:\t%d\n", profile.Dependents)
	fmt.Fprintf(w, "Complete:\t%d%%\n", profile.CompletionPercentage)
	w.Flush()
}
