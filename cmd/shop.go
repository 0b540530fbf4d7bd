// ABOUTME: Shopper commands: cart, favorites, orders and addresses
// ABOUTME: All of them need a signed-in session; the client refreshes it transparently

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/tui/styles"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/spf13/cobra"
)

var (
	ordersStatus string
	ordersPage   int
	orderAddress string
	orderPayment string
	orderNotes   string
	addressInput models.AddressPayload
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show your cart",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runCart)
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <variant-id> [quantity]",
	Short: "Add a product variant to the cart",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		qty := "1"
		if len(args) == 2 {
			qty = args[1]
		}
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runCartAdd(ctx, w, args[0], qty)
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runCartClear)
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List your favorite products",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runFavorites)
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Mark a product as favorite",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runFavoritesAdd(ctx, w, args[0])
		})
	},
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check <product-id>...",
	Short: "Tell which products are favorites",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runFavoritesCheck(ctx, w, args)
		})
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders [order-id]",
	Short: "List your orders or show one",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runOrders(ctx, w, id)
		})
	},
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Place an order with the current cart",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runOrderCreate)
	},
}

var ordersProofCmd = &cobra.Command{
	Use:   "proof <order-id> <file>",
	Short: "Upload a payment proof (image or PDF) for an order",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runOrderProof(ctx, w, args[0], args[1])
		})
	},
}

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "List your shipping addresses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runAddresses)
	},
}

var addressesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new shipping address",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runAddressAdd(ctx, w, addressInput)
		})
	},
}

var addressesDefaultCmd = &cobra.Command{
	Use:   "default <address-id>",
	Short: "Make an address the default one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runAddressDefault(ctx, w, args[0])
		})
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartClearCmd)
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesCheckCmd)
	ordersCmd.AddCommand(ordersCreateCmd, ordersProofCmd)
	addressesCmd.AddCommand(addressesAddCmd, addressesDefaultCmd)
	rootCmd.AddCommand(cartCmd, favoritesCmd, ordersCmd, addressesCmd)

	ordersCmd.Flags().StringVar(&ordersStatus, "status", "", "Only orders in this status")
	ordersCmd.Flags().IntVar(&ordersPage, "page", 1, "Page number")

	ordersCreateCmd.Flags().StringVar(&orderAddress, "address", "", "Shipping address id")
	ordersCreateCmd.Flags().StringVar(&orderPayment, "payment", string(models.PaymentMobile), "MOBILE_PAYMENT, BANK_TRANSFER or CASH")
	ordersCreateCmd.Flags().StringVar(&orderNotes, "notes", "", "Notes for the store")

	f := addressesAddCmd.Flags()
	f.StringVar(&addressInput.Alias, "alias", "", "Short name, e.g. Casa")
	f.StringVar(&addressInput.FullName, "full-name", "", "Recipient full name")
	f.StringVar(&addressInput.Phone, "phone", "", "Contact phone")
	f.StringVar(&addressInput.State, "state", "", "State")
	f.StringVar(&addressInput.City, "city", "", "City")
	f.StringVar(&addressInput.Municipality, "municipality", "", "Municipality")
	f.StringVar(&addressInput.Address, "address", "", "Street address")
	f.StringVar(&addressInput.ZipCode, "zip", "", "Zip code")
	f.StringVar(&addressInput.Reference, "reference", "", "Reference point")
	f.BoolVar(&addressInput.IsDefault, "default", false, "Make it the default address")
}

// runCart shows the cart and returns exit code
func runCart(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	cart, err := rt.api.Cart.Get(ctx)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, cart, func() string { return formatCartHuman(cart, rt.rates) })
	return exitOK
}

// runCartAdd adds a variant and returns exit code
func runCartAdd(ctx context.Context, w io.Writer, variantID, quantity string) int {
	qty, err := strconv.Atoi(quantity)
	if err != nil || qty < 1 {
		return fail(w, validation.NewError("quantity", "la cantidad debe ser un número mayor a 0"))
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	cart, err := rt.api.Cart.Add(ctx, variantID, qty)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, cart, func() string { return formatCartHuman(cart, rt.rates) })
	return exitOK
}

// runCartClear empties the cart and returns exit code
func runCartClear(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	cart, err := rt.api.Cart.Clear(ctx)
	if err != nil {
		return fail(w, err)
	}
	emit(w, cart, func() string { return "Cart emptied" })
	return exitOK
}

// runFavorites lists favorites and returns exit code
func runFavorites(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	favs, err := rt.api.Favorites.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, favs, func() string {
		if favs.Total == 0 {
			return "No favorites yet."
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d favorites\n", favs.Total)
		for i := range favs.Favorites {
			p := &favs.Favorites[i].Product
			eur, local := priceColumns(p, rt.rates)
			fmt.Fprintf(&sb, "  %-30s %-12s %s\n", p.Name, eur, local)
		}
		return strings.TrimRight(sb.String(), "\n")
	})
	return exitOK
}

// runFavoritesAdd marks a product and returns exit code
func runFavoritesAdd(ctx context.Context, w io.Writer, productID string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	fav, err := rt.api.Favorites.Add(ctx, productID)
	if err != nil {
		return fail(w, err)
	}
	emit(w, fav, func() string { return "Added to favorites" })
	return exitOK
}

// runFavoritesCheck checks several products at once and returns exit code
func runFavoritesCheck(ctx context.Context, w io.Writer, productIDs []string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	flags, err := rt.api.Favorites.CheckMany(ctx, productIDs)
	if err != nil {
		return fail(w, err)
	}
	emit(w, flags, func() string {
		ids := make([]string, 0, len(flags))
		for id := range flags {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		var sb strings.Builder
		for _, id := range ids {
			mark := "no"
			if flags[id] {
				mark = "yes"
			}
			fmt.Fprintf(&sb, "%s: %s\n", id, mark)
		}
		return strings.TrimRight(sb.String(), "\n")
	})
	return exitOK
}

// runOrders lists orders or shows one and returns exit code
func runOrders(ctx context.Context, w io.Writer, id string) int {
	status := models.OrderStatus(strings.ToUpper(ordersStatus))
	if status != "" && !status.Valid() {
		return fail(w, validation.NewError("status", fmt.Sprintf("estado desconocido: %s", ordersStatus)))
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if id != "" {
		order, err := rt.api.Orders.Get(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		rt.refreshRateQuietly(ctx)
		emit(w, order, func() string { return formatOrderHuman(order, rt.rates) })
		return exitOK
	}

	page, err := rt.api.Orders.Mine(ctx, api.OrderFilters{Status: status, Page: ordersPage})
	if err != nil {
		return fail(w, err)
	}
	emit(w, page, func() string { return formatOrdersHuman(page) })
	return exitOK
}

// runOrderCreate places an order and returns exit code
func runOrderCreate(ctx context.Context, w io.Writer) int {
	method := models.PaymentMethod(strings.ToUpper(orderPayment))
	switch method {
	case models.PaymentMobile, models.PaymentTransfer, models.PaymentCash:
	default:
		return fail(w, validation.NewError("paymentMethod", fmt.Sprintf("método de pago desconocido: %s", orderPayment)))
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	order, err := rt.api.Orders.Create(ctx, api.OrderPayload{
		AddressID:     orderAddress,
		PaymentMethod: method,
		CustomerNotes: orderNotes,
	})
	if err != nil {
		return fail(w, err)
	}
	emit(w, order, func() string {
		return fmt.Sprintf("Order %s placed: € %s (%s)", order.ShortID(), currency.Format(order.Total), order.Status.Label())
	})
	return exitOK
}

// runOrderProof uploads a payment proof and returns exit code
func runOrderProof(ctx context.Context, w io.Writer, orderID, path string) int {
	f, err := os.Open(path)
	if err != nil {
		return fail(w, validation.NewError("file", fmt.Sprintf("no se pudo abrir el archivo: %v", err)))
	}
	defer f.Close()

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	uploaded, err := rt.api.Orders.AttachPaymentProof(ctx, orderID, filepath.Base(path), f)
	if err != nil {
		return fail(w, err)
	}
	emit(w, uploaded, func() string { return "Payment proof uploaded: " + uploaded.URL })
	return exitOK
}

// runAddresses lists addresses and returns exit code
func runAddresses(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	addrs, err := rt.api.Addresses.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	emit(w, addrs, func() string { return formatAddressesHuman(addrs) })
	return exitOK
}

// runAddressAdd validates and saves an address and returns exit code
func runAddressAdd(ctx context.Context, w io.Writer, payload models.AddressPayload) int {
	payload = validation.NormalizeAddress(payload)
	if err := validation.Address(payload); err != nil {
		return fail(w, err)
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	addr, err := rt.api.Addresses.Create(ctx, payload)
	if err != nil {
		return fail(w, err)
	}
	emit(w, addr, func() string { return fmt.Sprintf("Address %q saved (%s)", addr.Alias, addr.ID) })
	return exitOK
}

// runAddressDefault marks an address as default and returns exit code
func runAddressDefault(ctx context.Context, w io.Writer, id string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	addr, err := rt.api.Addresses.SetDefault(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	emit(w, addr, func() string { return fmt.Sprintf("Address %q is now the default", addr.Alias) })
	return exitOK
}

func formatCartHuman(cart *models.Cart, rates *currency.Cache) string {
	if len(cart.Items) == 0 {
		return "Your cart is empty."
	}
	var sb strings.Builder
	for _, item := range cart.Items {
		name := item.Variant.SKU
		if item.Variant.Product != nil {
			name = item.Variant.Product.Name
		}
		fmt.Fprintf(&sb, "  %d x %-28s %-4s %-10s € %s\n",
			item.Quantity, name, item.Variant.Size, item.Variant.Color,
			currency.Format(item.Variant.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(&sb, "Items:     %d\n", cart.TotalItems)
	fmt.Fprintf(&sb, "Subtotal:  € %s (%s)", currency.Format(cart.Subtotal), rates.Display(cart.Subtotal))
	return sb.String()
}

func formatOrdersHuman(page *models.Paginated[models.Order]) string {
	if len(page.Data) == 0 {
		return "No orders yet."
	}
	var sb strings.Builder
	for i := range page.Data {
		o := &page.Data[i]
		fmt.Fprintf(&sb, "%s  %-10s € %-10s %s\n", o.ShortID(), dateOnly(o.CreatedAt), currency.Format(o.Total), styles.StatusBadge(o.Status))
	}
	fmt.Fprintf(&sb, "Page %d of %d", page.Meta.Page, page.Meta.TotalPages)
	return sb.String()
}

func formatOrderHuman(o *models.Order, rates *currency.Cache) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order:     %s\n", o.ID)
	fmt.Fprintf(&sb, "Status:    %s\n", styles.StatusBadge(o.Status))
	fmt.Fprintf(&sb, "Placed:    %s\n", dateOnly(o.CreatedAt))
	fmt.Fprintf(&sb, "Payment:   %s\n", o.PaymentMethod)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "  %d x %s %s/%s  € %s\n", it.Quantity, it.ProductName, it.VariantSize, it.VariantColor, currency.Format(it.Subtotal))
	}
	fmt.Fprintf(&sb, "Total:     € %s (%s)", currency.Format(o.Total), rates.Display(o.Total))
	if o.PaymentProof == "" && o.Status == models.StatusPendingPayment {
		fmt.Fprintf(&sb, "\nUpload your payment proof with 'delcarajo orders proof %s <file>'.", o.ID)
	}
	return sb.String()
}

func formatAddressesHuman(addrs []models.Address) string {
	if len(addrs) == 0 {
		return "No saved addresses."
	}
	var sb strings.Builder
	for _, a := range addrs {
		mark := " "
		if a.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %s  %s: %s, %s, %s\n", mark, a.ID, a.Alias, a.Address, a.City, a.State)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// dateOnly trims an ISO timestamp to its date
func dateOnly(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
