package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/state"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.WithError(err).Fatal("crmctl failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "crmctl",
		Usage:     "drive the CRM API from the command line",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", EnvVars: []string{"CRM_URL"}},
			&cli.StringFlag{Name: "user", Value: "john@example.com", EnvVars: []string{"CRM_USER"}, Usage: "login email"},
			&cli.StringFlag{Name: "password", Value: "password123", EnvVars: []string{"CRM_PASSWORD"}},
		},
		Commands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "show first-page totals for customers and leads",
				Action: withClient(dashboard),
			},
			{
				Name:  "customers",
				Usage: "list and manage customers",
				Subcommands: []*cli.Command{
					{
						Name: "list",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "search"},
							&cli.IntFlag{Name: "page", Value: 1},
						},
						Action: withClient(listCustomers),
					},
					{
						Name:      "show",
						ArgsUsage: "ID",
						Action:    withClient(showCustomer),
					},
					{
						Name: "create",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "phone", Required: true},
							&cli.StringFlag{Name: "company"},
						},
						Action: withClient(createCustomer),
					},
					{
						Name:      "delete",
						ArgsUsage: "ID",
						Action:    withClient(deleteCustomer),
					},
				},
			},
			{
				Name:  "leads",
				Usage: "list and manage leads",
				Subcommands: []*cli.Command{
					{
						Name: "list",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "status", Value: string(entity.LeadStatusAll)},
							&cli.StringFlag{Name: "customer"},
							&cli.IntFlag{Name: "page", Value: 1},
						},
						Action: withClient(listLeads),
					},
					{
						Name: "create",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Required: true},
							&cli.StringFlag{Name: "description", Required: true},
							&cli.Float64Flag{Name: "value"},
							&cli.StringFlag{Name: "status"},
							&cli.StringFlag{Name: "customer", Required: true},
						},
						Action: withClient(createLead),
					},
					{
						Name:      "status",
						Usage:     "move a lead to another status",
						ArgsUsage: "ID STATUS",
						Action:    withClient(setLeadStatus),
					},
					{
						Name:      "delete",
						ArgsUsage: "ID",
						Action:    withClient(deleteLead),
					},
				},
			},
		},
	}
}

type action func(c *cli.Context, client *state.Client) error

// withClient logs in before running a and logs out afterwards.
func withClient(a action) cli.ActionFunc {
	return func(c *cli.Context) error {
		client := state.NewClient(crmapi.NewClient(c.String("url")), state.WithSearchDebounce(0), state.WithFilterDelay(0))
		if res := client.Login(c.Context, c.String("user"), c.String("password")); !res.OK() {
			return errors.Wrap(res.Err, "login")
		}
		defer client.Logout(c.Context)
		return a(c, client)
	}
}

func dashboard(c *cli.Context, client *state.Client) error {
	if err := client.LoadDashboard(c.Context); err != nil {
		return err
	}
	s := client.DashboardStats()
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "customers\t%d of %d\n", s.Customers, client.Customers().TotalCount)
	fmt.Fprintf(w, "leads\t%d of %d\n", s.Leads, client.Leads().TotalCount)
	fmt.Fprintf(w, "new\t%d\n", s.New)
	fmt.Fprintf(w, "contacted\t%d\n", s.Contacted)
	fmt.Fprintf(w, "converted\t%d\n", s.Converted)
	fmt.Fprintf(w, "lost\t%d\n", s.Lost)
	fmt.Fprintf(w, "pipeline value\t%.2f\n", s.TotalValue)
	return w.Flush()
}

func listCustomers(c *cli.Context, client *state.Client) error {
	client.SetSearchQuery(c.String("search"))
	client.SetCustomerPage(c.Int("page"))
	if res := client.RefreshCustomers(c.Context); !res.OK() {
		return res.Err
	}
	s := client.Customers()
	printCustomers(c.App.Writer, s.Customers)
	fmt.Fprintf(c.App.Writer, "page %d, %d customers in total\n", s.CurrentPage, s.TotalCount)
	return nil
}

func showCustomer(c *cli.Context, client *state.Client) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("customer id required")
	}
	if err := client.LoadCustomerDetails(c.Context, id); err != nil {
		return err
	}
	cu := client.Customers().CurrentCustomer
	printCustomers(c.App.Writer, []entity.Customer{*cu})
	fmt.Fprintln(c.App.Writer)
	printLeads(c.App.Writer, client.Leads().Leads)
	return nil
}

func createCustomer(c *cli.Context, client *state.Client) error {
	res := client.CreateCustomer(c.Context, entity.CustomerInput{
		Name:    c.String("name"),
		Email:   c.String("email"),
		Phone:   c.String("phone"),
		Company: c.String("company"),
	})
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintf(c.App.Writer, "created customer %s\n", res.Value.ID)
	return nil
}

func deleteCustomer(c *cli.Context, client *state.Client) error {
	res := client.DeleteCustomer(c.Context, c.Args().First())
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintf(c.App.Writer, "deleted customer %s\n", res.Value)
	return nil
}

func listLeads(c *cli.Context, client *state.Client) error {
	status, ok := entity.ParseLeadStatusFilter(c.String("status"))
	if !ok {
		return errors.Errorf("unknown status %q", c.String("status"))
	}
	client.SetStatusFilter(status)
	client.SetLeadPage(c.Int("page"))
	if res := client.RefreshLeads(c.Context, c.String("customer")); !res.OK() {
		return res.Err
	}
	s := client.Leads()
	printLeads(c.App.Writer, s.Leads)
	fmt.Fprintf(c.App.Writer, "page %d, %d leads in total\n", s.CurrentPage, s.TotalCount)
	return nil
}

func createLead(c *cli.Context, client *state.Client) error {
	res := client.CreateLead(c.Context, entity.LeadInput{
		Title:       c.String("title"),
		Description: c.String("description"),
		Status:      entity.LeadStatus(c.String("status")),
		Value:       c.Float64("value"),
		CustomerID:  c.String("customer"),
	})
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintf(c.App.Writer, "created lead %s\n", res.Value.ID)
	return nil
}

func setLeadStatus(c *cli.Context, client *state.Client) error {
	if c.NArg() != 2 {
		return errors.New("usage: leads status ID STATUS")
	}
	status := entity.LeadStatus(c.Args().Get(1))
	res := client.UpdateLead(c.Context, c.Args().Get(0), entity.LeadPatch{Status: &status})
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintf(c.App.Writer, "lead %s is now %s\n", res.Value.ID, res.Value.Status)
	return nil
}

func deleteLead(c *cli.Context, client *state.Client) error {
	res := client.DeleteLead(c.Context, c.Args().First())
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintf(c.App.Writer, "deleted lead %s\n", res.Value)
	return nil
}

func printCustomers(out io.Writer, customers []entity.Customer) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Company)
	}
	w.Flush()
}

func printLeads(out io.Writer, leads []entity.Lead) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tVALUE\tCUSTOMER")
	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", l.ID, l.Title, l.Status, l.Value, l.CustomerID)
	}
	w.Flush()
}
