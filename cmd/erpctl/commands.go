package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/erp-service/pkg/client"
	"github.com/spec-kit/erp-service/pkg/workday"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			result, err := c.Login(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s), token expires %s\n",
				result.User.Email, result.User.Role, result.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.Logout(commandContext(cmd)); err != nil {
				// The local token is gone either way.
				fmt.Fprintf(cmd.ErrOrStderr(), "server logout failed: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newLeaveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave requests and working-day calculation",
	}

	days := &cobra.Command{
		Use:   "days START END",
		Short: "Count working days between two YYYY-MM-DD dates, inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := workday.CountBetween(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	var status string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List leave requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			items, err := c.ListLeaveRequests(commandContext(cmd), client.ListOptions{Limit: limit, Status: strings.ToUpper(status)})
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "EMPLOYEE", "TYPE", "FROM", "TO", "DAYS", "STATUS"}, len(items), func(i int) []string {
				l := items[i]
				return []string{l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, fmt.Sprint(l.WorkingDays), l.Status}
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, APPROVED, REJECTED, CANCELLED)")
	list.Flags().IntVar(&limit, "limit", 50, "Maximum rows")

	cmd.AddCommand(days, list)
	return cmd
}

func newEmployeesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "employees", Short: "HR employees"}
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			items, err := c.ListEmployees(commandContext(cmd), client.ListOptions{Limit: limit})
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"CODE", "NAME", "EMAIL", "POSITION", "STATUS"}, len(items), func(i int) []string {
				e := items[i]
				return []string{e.EmployeeCode, e.FullName, e.Email, e.Position, e.Status}
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Maximum rows")
	cmd.AddCommand(list)
	return cmd
}

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Inventory products"}
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			items, err := c.ListProducts(commandContext(cmd), client.ListOptions{Limit: limit})
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"SKU", "NAME", "CATEGORY", "PRICE", "REORDER"}, len(items), func(i int) []string {
				p := items[i]
				return []string{p.SKU, p.Name, p.Category, p.UnitPrice.StringFixed(2), fmt.Sprint(p.ReorderLevel)}
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Maximum rows")
	cmd.AddCommand(list)
	return cmd
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the ERP dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if local {
				snap, err := client.FetchDashboard(commandContext(cmd), c)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "employees:        %d\n", len(snap.Employees))
				fmt.Fprintf(out, "pending leave:    %d\n", len(snap.PendingLeave))
				fmt.Fprintf(out, "products:         %d\n", len(snap.Products))
				fmt.Fprintf(out, "low stock:        %d\n", snap.LowStockCount)
				fmt.Fprintf(out, "recent sales:     %d\n", len(snap.RecentSales))
				fmt.Fprintf(out, "recent movements: %d\n", len(snap.RecentMoves))
				printFallbacks(out, snap.Fallbacks)
				return nil
			}

			d, err := c.Dashboard(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "employees:        %d (%d active, %d on leave)\n", d.EmployeeCount, d.ActiveEmployeeCount, d.EmployeesOnLeave)
			fmt.Fprintf(out, "pending leave:    %d\n", d.PendingLeaveRequests)
			fmt.Fprintf(out, "products:         %d (%d low stock)\n", d.ProductCount, d.LowStockProducts)
			fmt.Fprintf(out, "sales this month: %d, revenue %s\n", d.SalesThisMonth, d.RevenueThisMonth.StringFixed(2))
			fmt.Fprintf(out, "open POs:         %d\n", d.OpenPurchaseOrders)
			fmt.Fprintf(out, "open surveys:     %d\n", d.OpenSurveys)
			printFallbacks(out, d.Fallbacks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Assemble the summary client-side from list endpoints")
	return cmd
}

func printFallbacks(w io.Writer, fallbacks []string) {
	if len(fallbacks) > 0 {
		fmt.Fprintf(w, "unavailable:      %s\n", strings.Join(fallbacks, ", "))
	}
}

func printTable(w io.Writer, header []string, n int, row func(int) []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := 0; i < n; i++ {
		fmt.Fprintln(tw, strings.Join(row(i), "\t"))
	}
	return tw.Flush()
}
