// ABOUTME: Tests for the cart, orders and address commands
// ABOUTME: Includes end-to-end token refresh and session expiry through a command

package cmd

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/delcarajo/storefront/internal/models"
)

func sampleCart() models.Cart {
	return models.Cart{
		ID: "c1",
		Items: []models.CartItem{{
			ID: "i1", Quantity: 2,
			Variant: models.ProductVariant{SKU: "FR-M-N", Size: "M", Color: "Negro", Price: 10},
		}},
		Subtotal:   20,
		TotalItems: 2,
	}
}

func TestCartCommand_RefreshesExpiredToken(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", rateHandler(40))
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, sampleCart())
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "fresh"})
	})
	b := newTestBackend(t, mux)
	b.setToken(t, "stale")

	var buf bytes.Buffer
	code := runCart(t.Context(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected 1 refresh, got %d", refreshes.Load())
	}
	if got := b.store().AccessToken(); got != "fresh" {
		t.Errorf("expected refreshed token to be stored, got %q", got)
	}
	for _, check := range []string{"FR-M-N", "€ 20,00", "Bs. 800,00"} {
		if !strings.Contains(buf.String(), check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, buf.String())
		}
	}
}

func TestCartCommand_SessionExpired(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Refresh token inválido"})
	})
	b := newTestBackend(t, mux)
	b.setToken(t, "stale")

	var buf bytes.Buffer
	code := runCart(t.Context(), &buf)

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if got := b.store().AccessToken(); got != "" {
		t.Errorf("expected token to be cleared, got %q", got)
	}
}

func TestCartAddCommand_InvalidQuantity(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())

	var buf bytes.Buffer
	code := runCartAdd(t.Context(), &buf, "v1", "0")

	if code != exitInvalid {
		t.Errorf("expected exit code %d, got %d", exitInvalid, code)
	}
	if b.hits.Load() != 0 {
		t.Errorf("expected no request, got %d", b.hits.Load())
	}
}

func TestFormatCartHuman_Empty(t *testing.T) {
	if got := formatCartHuman(&models.Cart{}, nil); got != "Your cart is empty." {
		t.Errorf("expected empty cart message, got %q", got)
	}
}

func TestFormatOrdersHuman(t *testing.T) {
	page := &models.Paginated[models.Order]{
		Data: []models.Order{{
			ID: "0123456789abcdef", Status: models.StatusPendingPayment,
			Total: 25, CreatedAt: "2026-10-15T12:00:00.000Z",
		}},
		Meta: models.PageMeta{Page: 1, TotalPages: 1},
	}

	output := formatOrdersHuman(page)

	for _, check := range []string{"01234567", "2026-10-15", "€ 25,00", "Pendiente de Pago"} {
		if !strings.Contains(output, check) {
			t.Errorf("expected output to contain %q, got %q", check, output)
		}
	}
	if strings.Contains(output, "89abcdef") {
		t.Error("expected the order id to be shortened")
	}
}

func TestOrdersCommand_UnknownStatus(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())
	ordersStatus = "shipped"
	defer func() { ordersStatus = "" }()

	var buf bytes.Buffer
	code := runOrders(t.Context(), &buf, "")

	if code != exitInvalid {
		t.Errorf("expected exit code %d, got %d", exitInvalid, code)
	}
	if b.hits.Load() != 0 {
		t.Errorf("expected no request, got %d", b.hits.Load())
	}
}

func TestOrderCreateCommand_RequiresAddress(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())
	b.setToken(t, "tok")
	orderPayment = string(models.PaymentCash)
	defer func() { orderPayment = string(models.PaymentMobile) }()

	var buf bytes.Buffer
	code := runOrderCreate(t.Context(), &buf)

	if code != exitInvalid {
		t.Errorf("expected exit code %d, got %d", exitInvalid, code)
	}
	if b.hits.Load() != 0 {
		t.Errorf("expected no request, got %d", b.hits.Load())
	}
}

func TestOrderProofCommand_UploadsAndLinks(t *testing.T) {
	var linked atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/payment-proof", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected multipart file, got %v", err)
		}
		writeJSON(w, http.StatusOK, models.UploadResult{URL: "https://cdn.example.com/proof.pdf"})
	})
	mux.HandleFunc("PATCH /orders/{id}/payment-proof", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "o1" {
			t.Errorf("expected order o1, got %s", r.PathValue("id"))
		}
		linked.Store(true)
		writeJSON(w, http.StatusOK, models.Order{ID: "o1"})
	})
	b := newTestBackend(t, mux)
	b.setToken(t, "tok")

	path := filepath.Join(t.TempDir(), "proof.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	code := runOrderProof(t.Context(), &buf, "o1", path)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !linked.Load() {
		t.Error("expected proof URL to be linked to the order")
	}
	if !strings.Contains(buf.String(), "https://cdn.example.com/proof.pdf") {
		t.Errorf("expected uploaded URL in output, got %q", buf.String())
	}
}

func TestAddressAddCommand_ValidationFails(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())
	b.setToken(t, "tok")

	var buf bytes.Buffer
	code := runAddressAdd(t.Context(), &buf, models.AddressPayload{City: "Caracas"})

	if code != exitInvalid {
		t.Errorf("expected exit code %d, got %d", exitInvalid, code)
	}
	if b.hits.Load() != 0 {
		t.Errorf("expected no request, got %d", b.hits.Load())
	}
	if !strings.Contains(buf.String(), "Alias es obligatorio") {
		t.Errorf("expected Spanish validation message, got %q", buf.String())
	}
}

func TestFormatAddressesHuman_MarksDefault(t *testing.T) {
	output := formatAddressesHuman([]models.Address{
		{ID: "a1", Alias: "Casa", Address: "Av. Principal", City: "Caracas", State: "Miranda", IsDefault: true},
		{ID: "a2", Alias: "Oficina", Address: "Calle 2", City: "Valencia", State: "Carabobo"},
	})

	lines := strings.Split(output, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "* a1") {
		t.Errorf("expected default marker on first address, got %q", lines[0])
	}
	if strings.HasPrefix(lines[1], "*") {
		t.Errorf("expected no marker on second address, got %q", lines[1])
	}
}
