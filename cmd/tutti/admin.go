package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/admin"
	"github.com/sergiomvp10/tutti-services/internal/app"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/orderstatus"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
	"github.com/sergiomvp10/tutti-services/internal/session"
)

const adminTimeout = 2 * time.Minute

var (
	adminEmail    string
	adminPassword string
	assumeYes     bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Back-office operations against the upstream API",
	Long: `Back-office operations against the upstream API. Every command logs in
with an admin account first.

Credentials come from --email/--password or TUTTI_ADMIN_EMAIL and
TUTTI_ADMIN_PASSWORD.`,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show products, categories, promotions, orders and buyers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, gw *gateway.Client, _ *admin.Actions) error {
			d, err := admin.LoadDashboard(ctx, gw)
			if err != nil {
				return err
			}
			return printDashboard(cmd.OutOrStdout(), d)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <product|category|promotion|order> <id>",
	Short: "Delete an entity after confirmation",
	Long: `Delete a product, category, promotion or order. Orders are removed
permanently. The command asks for confirmation unless --yes is given.

Examples:
  tutti admin delete product 12
  tutti admin delete order 40 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return withAdmin(cmd, func(ctx context.Context, _ *gateway.Client, actions *admin.Actions) error {
			if err := actions.Delete(ctx, admin.Kind(args[0]), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d eliminado\n", args[0], id)
			return nil
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAdmin(cmd, func(ctx context.Context, _ *gateway.Client, actions *admin.Actions) error {
			if err := actions.CancelOrder(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pedido #%d cancelado\n", id)
			return nil
		})
	},
}

var orderStatusCmd = &cobra.Command{
	Use:   "order-status <order-id> <status>",
	Short: "Move an order to another status",
	Long: `Move an order to another status. Valid statuses: pending, confirmed,
preparing, ready, delivered, cancelled.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withAdmin(cmd, func(ctx context.Context, _ *gateway.Client, actions *admin.Actions) error {
			o, err := actions.SetOrderStatus(ctx, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pedido #%d: %s\n", o.ID, orderstatus.Admin.Lookup(o.Status).Label)
			return nil
		})
	},
}

var (
	currentPassword string
	newPassword     string
	confirmPassword string
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the admin password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := admin.ValidatePasswordChange(newPassword, confirmPassword); err != nil {
			return err
		}
		return withAdmin(cmd, func(ctx context.Context, _ *gateway.Client, actions *admin.Actions) error {
			if err := actions.ChangePassword(ctx, currentPassword, newPassword, confirmPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "contraseña actualizada")
			return nil
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a product or landing image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, gw *gateway.Client, actions *admin.Actions) error {
			res, err := actions.Upload(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), gw.FileURL(res.URL))
			return nil
		})
	},
}

func init() {
	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "admin email (env TUTTI_ADMIN_EMAIL)")
	adminCmd.PersistentFlags().StringVar(&adminPassword, "password", "", "admin password (env TUTTI_ADMIN_PASSWORD)")
	adminCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	passwordCmd.Flags().StringVar(&currentPassword, "current", "", "current password")
	passwordCmd.Flags().StringVar(&newPassword, "new", "", "new password")
	passwordCmd.Flags().StringVar(&confirmPassword, "confirm", "", "new password again")
	_ = passwordCmd.MarkFlagRequired("current")
	_ = passwordCmd.MarkFlagRequired("new")
	_ = passwordCmd.MarkFlagRequired("confirm")

	adminCmd.AddCommand(dashboardCmd, deleteCmd, cancelCmd, orderStatusCmd, passwordCmd, uploadCmd)
}

func parseID(s string) (int64, error) {
	id, err := cast.ToInt64E(s)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}

// withAdmin logs in against the upstream API and runs fn with the admin
// token on the context.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, gw *gateway.Client, actions *admin.Actions) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := app.InitLogger(cfg.Logger); err != nil {
		return err
	}
	logger := zap.L()
	defer func() { _ = logger.Sync() }()

	email := firstNonEmpty(adminEmail, os.Getenv("TUTTI_ADMIN_EMAIL"))
	password := firstNonEmpty(adminPassword, os.Getenv("TUTTI_ADMIN_PASSWORD"))
	if email == "" || password == "" {
		return errors.New("admin credentials required: --email/--password or TUTTI_ADMIN_EMAIL/TUTTI_ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), adminTimeout)
	defer cancel()

	gw := gateway.New(cfg.Upstream.BaseURL, cfg.UpstreamTimeout())
	resp, err := gw.Login(ctx, email, password)
	if err != nil {
		return err
	}
	role := session.ParseClaims(resp.AccessToken).Role
	if role == "" {
		role = resp.User.Role
	}
	if role != "admin" {
		return errors.Errorf("%s is not an admin account", email)
	}

	confirm := admin.Confirmer(admin.AlwaysConfirm)
	if !assumeYes {
		confirm = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	return fn(gateway.WithToken(ctx, resp.AccessToken), gw, admin.NewActions(gw, confirm, logger))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// promptConfirmer asks on out and accepts "s", "si", "y" or "yes" from in.
func promptConfirmer(in io.Reader, out io.Writer) admin.Confirmer {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [s/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "si", "sí", "y", "yes":
			return true
		}
		return false
	}
}

func printDashboard(w io.Writer, d *admin.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Productos\t%d\n", len(d.Products))
	fmt.Fprintf(tw, "Categorias\t%d\n", len(d.Categories))
	fmt.Fprintf(tw, "Promociones\t%d\n", len(d.Promotions))
	fmt.Fprintf(tw, "Pedidos\t%d\n", len(d.Orders))
	fmt.Fprintf(tw, "Compradores\t%d\n", d.Buyers())

	byStatus := d.OrdersByStatus()
	if len(byStatus) > 0 {
		fmt.Fprintln(tw, "\nEstado\tPedidos")
		keys := make([]string, 0, len(byStatus))
		for k := range byStatus {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%d\n", orderstatus.Admin.Lookup(k).Label, byStatus[k])
		}
	}

	if len(d.Orders) > 0 {
		fmt.Fprintln(tw, "\nPedido\tCliente\tEstado\tTotal")
		for _, o := range d.Orders {
			name := ""
			if o.Customer != nil {
				name = o.Customer.DisplayName()
			}
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", o.ID, name, orderstatus.Admin.Lookup(o.Status).Label, pricing.FormatCOP(o.Total))
		}
	}
	return tw.Flush()
}
