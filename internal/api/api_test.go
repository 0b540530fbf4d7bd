// ABOUTME: Tests for the storefront API services
// ABOUTME: Runs the services through the real client against httptest servers

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/delcarajo/storefront/internal/client"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/tokenstore"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/spf13/afero"
)

func newTestAPI(t *testing.T, handler http.Handler) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := tokenstore.New(afero.NewMemMapFs(), "/cfg")
	store.SetAccessToken("tok")
	c, err := client.New(client.Config{BaseURL: server.URL + "/api", Tokens: store})
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return New(c)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestProductFilters_Values(t *testing.T) {
	featured := true
	v := ProductFilters{
		Search:     "franela",
		Gender:     models.GenderKids,
		IsFeatured: &featured,
		Page:       2,
		SortBy:     "price",
		SortOrder:  "asc",
	}.Values()

	expected := "gender=KIDS&isFeatured=true&page=2&search=franela&sortBy=price&sortOrder=asc"
	if got := v.Encode(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}

	if got := (ProductFilters{}).Values().Encode(); got != "" {
		t.Errorf("expected empty query for zero filters, got %s", got)
	}
}

func TestOrderFilters_Values(t *testing.T) {
	got := OrderFilters{Status: models.StatusInTransit, Limit: 10}.Values().Encode()
	if got != "limit=10&status=EN_CAMINO" {
		t.Errorf("expected limit=10&status=EN_CAMINO, got %s", got)
	}
}

func TestProducts_ListSendsFilters(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("expected path /api/products, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("categorySlug") != "gorras" {
			t.Errorf("expected categorySlug gorras, got %s", r.URL.Query().Get("categorySlug"))
		}
		writeJSON(w, models.Paginated[models.Product]{
			Data: []models.Product{{ID: "p1", Name: "Gorra"}},
			Meta: models.PageMeta{Total: 1, Page: 1, Limit: 12, TotalPages: 1},
		})
	}))

	page, err := a.Products.List(context.Background(), ProductFilters{CategorySlug: "gorras"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Gorra" {
		t.Errorf("expected one product Gorra, got %+v", page.Data)
	}
	if page.Meta.TotalPages != 1 {
		t.Errorf("expected 1 page, got %d", page.Meta.TotalPages)
	}
}

func TestProducts_BySlugEscapes(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/products/slug/gorra%2Froja" {
			t.Errorf("expected escaped slug, got %s", r.URL.EscapedPath())
		}
		writeJSON(w, models.Product{Slug: "gorra/roja"})
	}))

	if _, err := a.Products.BySlug(context.Background(), "gorra/roja"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadHome_FetchesConcurrently(t *testing.T) {
	var hits sync.Map
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, true)
		switch r.URL.Path {
		case "/api/landing/sections":
			writeJSON(w, []models.LandingSection{{ID: "s1", Title: "Nuevos"}})
		case "/api/products":
			if r.URL.Query().Get("isFeatured") != "true" {
				t.Errorf("expected featured filter, got %s", r.URL.RawQuery)
			}
			writeJSON(w, models.Paginated[models.Product]{Data: []models.Product{{ID: "p1"}}})
		case "/api/categories":
			writeJSON(w, []models.Category{{ID: "c1"}, {ID: "c2"}})
		}
	}))

	home, err := a.LoadHome(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(home.Sections) != 1 || len(home.Featured) != 1 || len(home.Categories) != 2 {
		t.Errorf("expected 1/1/2 items, got %d/%d/%d", len(home.Sections), len(home.Featured), len(home.Categories))
	}
	for _, p := range []string{"/api/landing/sections", "/api/products", "/api/categories"} {
		if _, ok := hits.Load(p); !ok {
			t.Errorf("expected call to %s", p)
		}
	}
}

func TestLoadHome_FirstErrorWins(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/categories" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"db down"}`))
			return
		}
		if r.URL.Path == "/api/products" {
			writeJSON(w, models.Paginated[models.Product]{})
			return
		}
		writeJSON(w, []any{})
	}))

	_, err := a.LoadHome(context.Background())
	if client.ErrorMessage(err) != "db down" {
		t.Errorf("expected db down, got %v", err)
	}
}

func TestAddresses_CreateValidatesLocally(t *testing.T) {
	var calls atomic.Int32
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, models.Address{ID: "a1"})
	}))

	_, err := a.Addresses.Create(context.Background(), models.AddressPayload{Alias: "Casa"})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}

func TestAddresses_CreateSendsTrimmedPayload(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p models.AddressPayload
		json.NewDecoder(r.Body).Decode(&p)
		if p.Alias != "Casa" {
			t.Errorf("expected trimmed alias Casa, got %q", p.Alias)
		}
		writeJSON(w, models.Address{ID: "a1", Alias: p.Alias})
	}))

	addr, err := a.Addresses.Create(context.Background(), models.AddressPayload{
		Alias: "  Casa ", FullName: "Ana", Phone: "0414", State: "Zulia", City: "Maracaibo", Address: "Av 5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.ID != "a1" {
		t.Errorf("expected id a1, got %s", addr.ID)
	}
}

func TestOrders_UpdateStatusRejectsInvalidTransition(t *testing.T) {
	var calls atomic.Int32
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	order := &models.Order{ID: "o1", Status: models.StatusDelivered}
	_, err := a.Orders.UpdateStatus(context.Background(), order, models.StatusCancelled, "")
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}

func TestOrders_UpdateStatus(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/orders/o1/status" {
			t.Errorf("expected PATCH /api/orders/o1/status, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "EN_CAMINO" || body["adminNotes"] != "MRW 123" {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, models.Order{ID: "o1", Status: models.StatusInTransit})
	}))

	order := &models.Order{ID: "o1", Status: models.StatusPaymentConfirmed}
	updated, err := a.Orders.UpdateStatus(context.Background(), order, models.StatusInTransit, "MRW 123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.StatusInTransit {
		t.Errorf("expected EN_CAMINO, got %s", updated.Status)
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestOrders_AttachPaymentProof(t *testing.T) {
	var patched string
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/upload/payment-proof":
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				t.Errorf("expected multipart upload, got %s", r.Header.Get("Content-Type"))
			}
			writeJSON(w, models.UploadResult{URL: "https://cdn/proof.png", PublicID: "proof"})
		case "/api/orders/o1/payment-proof":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			patched = body["paymentProof"]
			writeJSON(w, map[string]string{"message": "ok"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	res, err := a.Orders.AttachPaymentProof(context.Background(), "o1", "proof.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.URL != "https://cdn/proof.png" {
		t.Errorf("expected uploaded URL, got %s", res.URL)
	}
	if patched != "https://cdn/proof.png" {
		t.Errorf("expected order to reference uploaded URL, got %q", patched)
	}
}

func TestUploads_RejectsUnsupportedType(t *testing.T) {
	var calls atomic.Int32
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := a.Uploads.Image(context.Background(), "notes.txt", strings.NewReader("just some text"))
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no upload call, got %d", calls.Load())
	}
}

func TestUploads_RejectsOversizedFile(t *testing.T) {
	a := newTestAPI(t, http.NotFoundHandler())

	big := io.MultiReader(bytes.NewReader(pngHeader), bytes.NewReader(make([]byte, MaxUploadBytes)))
	_, err := a.Uploads.Image(context.Background(), "big.png", big)
	if !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestFavorites_CheckMany(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/favorites/check/")
		writeJSON(w, models.FavoriteCheck{ProductID: id, IsFavorite: id == "p2"})
	}))

	got, err := a.Favorites.CheckMany(context.Background(), []string{"p1", "p2", "p3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got["p1"] || !got["p2"] || got["p3"] {
		t.Errorf("expected only p2 favorite, got %v", got)
	}
}

func TestFavorites_CheckManyFails(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Producto no encontrado"}`))
	}))

	_, err := a.Favorites.CheckMany(context.Background(), []string{"p1", "p2"})
	if !client.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestUsers_UpdateMe(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/users/me" {
			t.Errorf("expected PATCH /api/users/me, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["nickname"] != "Pana" {
			t.Errorf("expected only nickname in body, got %v", body)
		}
		writeJSON(w, models.UserUpdate{Message: "ok", User: models.User{ID: "u1", Nickname: "Pana"}})
	}))

	out, err := a.Users.UpdateMe(context.Background(), ProfileUpdate{Nickname: "Pana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.User.Nickname != "Pana" {
		t.Errorf("expected nickname Pana, got %s", out.User.Nickname)
	}
}

func TestCart_Add(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			VariantID string `json:"variantId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, models.Cart{TotalItems: body.Quantity, Subtotal: 25 * float64(body.Quantity)})
	}))

	cart, err := a.Cart.Add(context.Background(), "v1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.TotalItems != 2 || cart.Subtotal != 50 {
		t.Errorf("expected 2 items and subtotal 50, got %d %.2f", cart.TotalItems, cart.Subtotal)
	}
}

func TestAuth_LoginURL(t *testing.T) {
	a := newTestAPI(t, http.NotFoundHandler())

	if !strings.HasSuffix(a.Auth.LoginURL(), "/api/auth/google") {
		t.Errorf("expected login URL under /api/auth/google, got %s", a.Auth.LoginURL())
	}
}
