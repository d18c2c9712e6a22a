package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/client"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// NewResourcesCmd creates the resources command group
func NewResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Browse and apply for support resources",
	}

	cmd.AddCommand(newResourcesLsCmd())
	cmd.AddCommand(newResourcesShowCmd())
	cmd.AddCommand(newResourcesCreateCmd())
	cmd.AddCommand(newResourcesApplyCmd())

	return cmd
}

func newResourcesLsCmd() *cobra.Command {
	var opts client.ListResourcesOptions

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List available resources",
		Long:  `List verified resources. Browsing needs no account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runResourcesLs(store, os.Stdout, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "Filter by category (food, housing, healthcare, ...)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Search in title and description")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", 0, "Results per page")

	return cmd
}

func runResourcesLs(store *session.Store, out io.Writer, opts client.ListResourcesOptions) error {
	list, err := store.Client().ListResources(context.Background(), opts)
	if err != nil {
		return err
	}

	if len(list.Resources) == 0 {
		fmt.Fprintln(out, "No resources found.")
		fmt.Fprintln(out, "Try a broader search or drop the --category filter.")
		return nil
	}

	fmt.Fprintf(out, "Resources (page %d of %d, %d total):\n\n", list.Page, list.Pages, list.Total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPROVIDER\tCAPACITY")
	fmt.Fprintln(w, "──\t─────\t────────\t────────\t────────")
	for _, resource := range list.Resources {
		capacity := "-"
		if resource.Capacity > 0 {
			capacity = strconv.Itoa(resource.Capacity)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			resource.ID, resource.Title, resource.Category, orDash(resource.ProviderName), capacity)
	}
	return w.Flush()
}

func newResourcesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <resource-id>",
		Short: "Show one resource in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runResourcesShow(store, os.Stdout, args[0])
		},
	}
}

func runResourcesShow(store *session.Store, out io.Writer, resourceID string) error {
	resource, err := store.Client().GetResource(context.Background(), resourceID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Title:\t%s\n", resource.Title)
	fmt.Fprintf(w, "Category:\t%s\n", resource.Category)
	fmt.Fprintf(w, "Provider:\t%s\n", orDash(resource.ProviderName))
	fmt.Fprintf(w, "Status:\t%s\n", resource.Status)
	if resource.Capacity > 0 {
		fmt.Fprintf(w, "Capacity:\t%d\n", resource.Capacity)
	}
	if resource.StartDate != nil {
		fmt.Fprintf(w, "Starts:\t%s\n", *resource.StartDate)
	}
	if resource.EndDate != nil {
		fmt.Fprintf(w, "Ends:\t%s\n", *resource.EndDate)
	}
	fmt.Fprintf(w, "Description:\t%s\n", resource.Description)
	if resource.ApplicationProcess != "" {
		fmt.Fprintf(w, "How to apply:\t%s\n", resource.ApplicationProcess)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printJSONSection(out, "Eligibility", resource.EligibilityCriteria)
	printJSONSection(out, "Location", resource.Location)
	printJSONSection(out, "Contact", resource.ProviderContact)
	printJSONSection(out, "Required documents", resource.RequiredDocuments)

	return nil
}

func newResourcesCreateCmd() *cobra.Command {
	var req client.CreateResourceRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a new resource (provider accounts)",
		Long:  `Submit a resource listing. New listings stay pending until an admin verifies them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runResourcesCreate(store, os.Stdout, req)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Resource title (required)")
	cmd.Flags().StringVar(&req.Description, "description", "", "What the resource offers (required)")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category: food, housing, healthcare, education, employment, financial, legal, childcare, transportation, other (required)")
	cmd.Flags().StringVar(&req.ProviderName, "provider-name", "", "Organization name shown to applicants (defaults to your username)")
	cmd.Flags().StringVar(&req.ApplicationProcess, "application-process", "", "How applicants should apply")
	cmd.Flags().IntVar(&req.Capacity, "capacity", 0, "How many people the resource can serve")
	cmd.Flags().StringVar(&req.StartDate, "start-date", "", "First day the resource is available (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end-date", "", "Last day the resource is available (YYYY-MM-DD)")

	return cmd
}

func runResourcesCreate(store *session.Store, out io.Writer, req client.CreateResourceRequest) error {
	user, err := requireSession(context.Background(), store, providerRole())
	if err != nil {
		return err
	}

	if req.Title == "" {
		return fmt.Errorf("title is required (use --title flag)")
	}
	if req.Description == "" {
		return fmt.Errorf("description is required (use --description flag)")
	}
	if req.Category == "" {
		return fmt.Errorf("category is required (use --category flag)")
	}
	if req.ProviderName == "" {
		req.ProviderName = user.Username
	}

	resource, err := store.Client().CreateResource(context.Background(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Resource submitted for verification!")
	fmt.Fprintf(out, "  ID: %s\n", resource.ID)
	fmt.Fprintf(out, "  Status: %s\n", resource.Status)

	return nil
}

func newResourcesApplyCmd() *cobra.Command {
	var req client.ApplyRequest

	cmd := &cobra.Command{
		Use:   "apply <resource-id>",
		Short: "Apply for a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runResourcesApply(store, os.Stdout, args[0], req)
		},
	}

	cmd.Flags().StringVar(&req.Reason, "reason", "", "Why you need this resource")
	cmd.Flags().StringVar(&req.NeedLevel, "need-level", "", "Urgency: low, medium, high or critical (defaults to medium)")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Anything else the provider should know")

	return cmd
}

func runResourcesApply(store *session.Store, out io.Writer, resourceID string, req client.ApplyRequest) error {
	if _, err := requireSession(context.Background(), store, nil); err != nil {
		return err
	}

	application, err := store.Client().Apply(context.Background(), resourceID, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Application submitted!")
	fmt.Fprintf(out, "  ID: %s\n", application.ID)
	fmt.Fprintf(out, "  Status: %s\n", application.Status)
	fmt.Fprintf(out, "  Need level: %s\n", application.NeedLevel)

	return nil
}
