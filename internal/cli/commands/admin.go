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

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration (admin accounts)",
	}

	cmd.AddCommand(newAdminDashboardCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminVerifyCmd())
	cmd.AddCommand(newAdminPendingResourcesCmd())
	cmd.AddCommand(newAdminApproveCmd())
	cmd.AddCommand(newAdminPendingApplicationsCmd())
	cmd.AddCommand(newAdminReviewCmd())
	cmd.AddCommand(newAdminAnalyticsCmd())

	return cmd
}

func newAdminDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the platform overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminDashboard(store, os.Stdout)
		},
	}
}

func runAdminDashboard(store *session.Store, out io.Writer) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	dashboard, err := store.Client().AdminDashboard(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Users:\t%d\n", dashboard.Summary.Users)
	fmt.Fprintf(w, "Profiles:\t%d\n", dashboard.Summary.Profiles)
	fmt.Fprintf(w, "Resources:\t%d\n", dashboard.Summary.Resources)
	fmt.Fprintf(w, "Applications:\t%d\n", dashboard.Summary.Applications)
	fmt.Fprintf(w, "Pending resources:\t%d\n", dashboard.Summary.PendingResources)
	fmt.Fprintf(w, "Pending applications:\t%d\n", dashboard.Summary.PendingApplications)
	if err := w.Flush(); err != nil {
		return err
	}

	printJSONSection(out, "Trends", dashboard.Trends)
	printJSONSection(out, "Distributions", dashboard.Distributions)
	printJSONSection(out, "Recent activity", dashboard.RecentActivity)

	return nil
}

func newAdminUsersCmd() *cobra.Command {
	var opts client.ListUsersOptions

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminUsers(store, os.Stdout, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", "", "Filter by role: user, provider or admin")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by verification status: unverified, pending, verified or rejected")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Search username and email")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", 0, "Results per page")

	return cmd
}

func runAdminUsers(store *session.Store, out io.Writer, opts client.ListUsersOptions) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	list, err := store.Client().AdminListUsers(context.Background(), opts)
	if err != nil {
		return err
	}

	if len(list.Users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}

	fmt.Fprintf(out, "Users (page %d of %d, %d total):\n\n", list.Page, list.Pages, list.Total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tVERIFICATION\tACTIVE")
	fmt.Fprintln(w, "──\t────────\t─────\t────\t────────────\t──────")
	for _, user := range list.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			user.ID, user.Username, user.Email, user.Role, user.VerificationStatus, user.IsActive)
	}
	return w.Flush()
}

func newAdminVerifyCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "verify <user-id>",
		Short: "Set an account's verification status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminVerify(store, os.Stdout, args[0], status)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status: unverified, pending, verified or rejected (interactive prompt if omitted)")

	return cmd
}

func runAdminVerify(store *session.Store, out io.Writer, userID, status string) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	if status == "" {
		selected, err := promptChoice("Set verification status", []string{"verified", "rejected", "pending", "unverified"})
		if err != nil {
			return err
		}
		status = selected
	}

	user, err := store.Client().AdminVerifyUser(context.Background(), userID, status)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %s is now %s\n", user.Username, user.VerificationStatus)
	return nil
}

func newAdminPendingResourcesCmd() *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "pending-resources",
		Short: "List resources awaiting verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminPendingResources(store, os.Stdout, page, perPage)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Results per page")

	return cmd
}

func runAdminPendingResources(store *session.Store, out io.Writer, page, perPage int) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	list, err := store.Client().AdminPendingResources(context.Background(), page, perPage)
	if err != nil {
		return err
	}

	if len(list.Resources) == 0 {
		fmt.Fprintln(out, "No resources waiting for verification.")
		return nil
	}

	fmt.Fprintf(out, "Pending resources (page %d of %d, %d total):\n\n", list.Page, list.Pages, list.Total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPROVIDER\tSUBMITTED")
	fmt.Fprintln(w, "──\t─────\t────────\t────────\t─────────")
	for _, resource := range list.Resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			resource.ID, resource.Title, resource.Category, orDash(resource.ProviderName), resource.CreatedAt)
	}
	return w.Flush()
}

func newAdminApproveCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "approve <resource-id>",
		Short: "Approve or decline a pending resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminApprove(store, os.Stdout, args[0], status)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Decision: active or inactive (interactive prompt if omitted)")

	return cmd
}

func runAdminApprove(store *session.Store, out io.Writer, resourceID, status string) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	if status == "" {
		selected, err := promptChoice("Resource decision", []string{"active", "inactive"})
		if err != nil {
			return err
		}
		status = selected
	}

	resource, err := store.Client().AdminApproveResource(context.Background(), resourceID, status)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %s is now %s\n", resource.Title, resource.Status)
	return nil
}

func newAdminPendingApplicationsCmd() *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "pending-applications",
		Short: "List applications awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminPendingApplications(store, os.Stdout, page, perPage)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Results per page")

	return cmd
}

func runAdminPendingApplications(store *session.Store, out io.Writer, page, perPage int) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	list, err := store.Client().AdminPendingApplications(context.Background(), page, perPage)
	if err != nil {
		return err
	}

	if len(list.Applications) == 0 {
		fmt.Fprintln(out, "No applications waiting for review.")
		return nil
	}

	fmt.Fprintf(out, "Pending applications (page %d of %d, %d total):\n\n", list.Page, list.Pages, list.Total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tRESOURCE\tNEED\tSUBMITTED")
	fmt.Fprintln(w, "──\t────\t────────\t────\t─────────")
	for _, application := range list.Applications {
		submitted := "-"
		if application.SubmittedAt != nil {
			submitted = *application.SubmittedAt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			application.ID, application.UserID, application.ResourceID, application.NeedLevel, submitted)
	}
	return w.Flush()
}

func newAdminReviewCmd() *cobra.Command {
	var req client.ReviewRequest

	cmd := &cobra.Command{
		Use:   "review <application-id>",
		Short: "Record a decision on an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminReview(store, os.Stdout, args[0], req)
		},
	}

	cmd.Flags().StringVar(&req.Status, "status", "", "Decision: approved, rejected, waitlisted or under_review (interactive prompt if omitted)")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Decision reason shared with the applicant")
	cmd.Flags().StringVar(&req.AdminNotes, "notes", "", "Internal notes")

	return cmd
}

func runAdminReview(store *session.Store, out io.Writer, applicationID string, req client.ReviewRequest) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	if req.Status == "" {
		selected, err := promptChoice("Application decision", []string{"approved", "rejected", "waitlisted", "under_review"})
		if err != nil {
			return err
		}
		req.Status = selected
	}

	application, err := store.Client().AdminReviewApplication(context.Background(), applicationID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Application %s is now %s\n", application.ID, application.Status)
	return nil
}

func newAdminAnalyticsCmd() *cobra.Command {
	var kind, period string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show user or resource analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runAdminAnalytics(store, os.Stdout, kind, period)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "users", "Report to show: users or resources")
	cmd.Flags().StringVar(&period, "period", "month", "Bucket size: week, month or year")

	return cmd
}

func runAdminAnalytics(store *session.Store, out io.Writer, kind, period string) error {
	if _, err := requireSession(context.Background(), store, adminRole()); err != nil {
		return err
	}

	var analytics *client.Analytics
	var err error
	switch kind {
	case "users":
		analytics, err = store.Client().AdminUserAnalytics(context.Background(), period)
	case "resources":
		analytics, err = store.Client().AdminResourceAnalytics(context.Background(), period)
	default:
		return fmt.Errorf("unknown analytics kind %q (expected users or resources)", kind)
	}
	if err != nil {
		return err
	}

	printJSONSection(out, "Trends", analytics.Trends)
	printJSONSection(out, "Distributions", analytics.Distributions)

	return nil
}
