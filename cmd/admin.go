// ABOUTME: Back-office commands for ADMIN and SUPER_ADMIN users
// ABOUTME: Dashboard stats, order status changes and user moderation

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/spf13/cobra"
)

var (
	adminOrdersStatus string
	adminOrdersPage   int
	adminNotes        string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Back-office tasks",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runAdminStats)
	},
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List every order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runAdminOrders)
	},
}

var adminOrderStatusCmd = &cobra.Command{
	Use:   "order-status <order-id> <status>",
	Short: "Move an order to its next status",
	Long: `Move an order along PENDING_PAYMENT → PAGO_CONFIRMADO → EN_CAMINO → ENTREGADO.
CANCELADO is allowed from any non-final status.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runAdminOrderStatus(ctx, w, args[0], args[1], adminNotes)
		})
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runAdminUsers)
	},
}

var adminBanCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban or unban a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runAdminBan(ctx, w, args[0])
		})
	},
}

func init() {
	adminCmd.AddCommand(adminStatsCmd, adminOrdersCmd, adminOrderStatusCmd, adminUsersCmd, adminBanCmd)
	rootCmd.AddCommand(adminCmd)

	adminOrdersCmd.Flags().StringVar(&adminOrdersStatus, "status", "", "Only orders in this status")
	adminOrdersCmd.Flags().IntVar(&adminOrdersPage, "page", 1, "Page number")
	adminOrderStatusCmd.Flags().StringVar(&adminNotes, "notes", "", "Internal notes stored with the change")
}

// runAdminStats shows dashboard stats and returns exit code
func runAdminStats(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	stats, err := rt.api.Dashboard.Stats(ctx)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, stats, func() string { return formatStatsHuman(stats, rt.rates) })
	return exitOK
}

// runAdminOrders lists all orders and returns exit code
func runAdminOrders(ctx context.Context, w io.Writer) int {
	status := models.OrderStatus(strings.ToUpper(adminOrdersStatus))
	if status != "" && !status.Valid() {
		return fail(w, validation.NewError("status", fmt.Sprintf("estado desconocido: %s", adminOrdersStatus)))
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	page, err := rt.api.Orders.All(ctx, api.OrderFilters{Status: status, Page: adminOrdersPage})
	if err != nil {
		return fail(w, err)
	}
	emit(w, page, func() string { return formatOrdersHuman(page) })
	return exitOK
}

// runAdminOrderStatus changes an order's status and returns exit code
func runAdminOrderStatus(ctx context.Context, w io.Writer, orderID, status, notes string) int {
	target := models.OrderStatus(strings.ToUpper(status))
	if !target.Valid() {
		return fail(w, validation.NewError("status", fmt.Sprintf("estado desconocido: %s", status)))
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	order, err := rt.api.Orders.Get(ctx, orderID)
	if err != nil {
		return fail(w, err)
	}
	updated, err := rt.api.Orders.UpdateStatus(ctx, order, target, notes)
	if err != nil {
		return fail(w, err)
	}
	emit(w, updated, func() string {
		return fmt.Sprintf("Order %s: %s → %s", updated.ShortID(), order.Status.Label(), updated.Status.Label())
	})
	return exitOK
}

// runAdminUsers lists users and returns exit code
func runAdminUsers(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	list, err := rt.api.Users.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	emit(w, list, func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d users\n", list.Total)
		for _, u := range list.Users {
			state := "active"
			if !u.IsActive {
				state = "banned"
			}
			fmt.Fprintf(&sb, "  %s  %-30s %-12s %s\n", u.ID, u.Email, u.Role, state)
		}
		return strings.TrimRight(sb.String(), "\n")
	})
	return exitOK
}

// runAdminBan toggles a user's ban and returns exit code
func runAdminBan(ctx context.Context, w io.Writer, userID string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	res, err := rt.api.Users.ToggleBan(ctx, userID)
	if err != nil {
		return fail(w, err)
	}
	emit(w, res, func() string {
		if res.User.IsActive {
			return "User " + res.User.ID + " unbanned"
		}
		return "User " + res.User.ID + " banned"
	})
	return exitOK
}

func formatStatsHuman(s *models.DashboardStats, rates *currency.Cache) string {
	return fmt.Sprintf(`Products:   %d (%d active, %d inactive)
Users:      %d (%d admins, %d super admins)
Orders:     %d
  Pendiente de Pago:  %d
  Pago Confirmado:    %d
  En Camino:          %d
  Entregado:          %d
  Cancelado:          %d
Sales:      € %s (%s)`,
		s.Products.Total, s.Products.Active, s.Products.Inactive,
		s.Users.Total, s.Users.Admins, s.Users.SuperAdmins,
		s.Orders.Total,
		s.Orders.PendingPayment,
		s.Orders.ConfirmedPayment,
		s.Orders.InTransit,
		s.Orders.Delivered,
		s.Orders.Cancelled,
		currency.Format(s.Sales.Total), rates.Display(s.Sales.Total))
}
