// ABOUTME: Tests for the rate, price and catalog commands
// ABOUTME: Verifies es-VE formatting of converted prices and exit codes

package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/models"
)

func rateHandler(rate float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.BcvRate{Rate: rate, LastUpdate: "2026-10-15", Source: "BCV"})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{"10.5", 10.5, false},
		{"10,5", 10.5, false},
		{" 0 ", 0, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRateCommand_Human(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", rateHandler(36.5))
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runRate(t.Context(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, check := range []string{"Bs. 36,50 per EUR", "BCV", "2026-10-15"} {
		if !strings.Contains(buf.String(), check) {
			t.Errorf("expected output to contain %q, got %q", check, buf.String())
		}
	}
}

func TestRateCommand_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "BCV no disponible"})
	})
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runRate(t.Context(), &buf)

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if !strings.Contains(buf.String(), currency.FetchErrorText) {
		t.Errorf("expected fetch error text, got %q", buf.String())
	}
}

func TestPriceCommand_JSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", rateHandler(36.5))
	newTestBackend(t, mux)
	jsonOutput = true

	var buf bytes.Buffer
	code := runPrice(t.Context(), &buf, "10")

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	var conv currency.Conversion
	if err := json.Unmarshal(buf.Bytes(), &conv); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if conv.AmountInLocal != 365 {
		t.Errorf("expected 365, got %v", conv.AmountInLocal)
	}
	if conv.Formatted != "365,00" {
		t.Errorf("expected formatted 365,00, got %q", conv.Formatted)
	}
}

func TestPriceCommand_InvalidAmountSendsNothing(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())

	var buf bytes.Buffer
	code := runPrice(t.Context(), &buf, "diez")

	if code != exitInvalid {
		t.Errorf("expected exit code %d, got %d", exitInvalid, code)
	}
	if b.hits.Load() != 0 {
		t.Errorf("expected no request, got %d", b.hits.Load())
	}
}

func TestPriceCommand_NoRate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "down"})
	})
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runPrice(t.Context(), &buf, "10")

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
}

func TestCatalogCommand_PricesInBolivares(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", rateHandler(40))
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "gorra" {
			t.Errorf("expected search filter, got %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, models.Paginated[models.Product]{
			Data: []models.Product{{
				ID: "p1", Name: "Gorra Caribe", Slug: "gorra-caribe",
				Variants: []models.ProductVariant{{Price: 12.5, Stock: 4, IsActive: true}},
			}},
			Meta: models.PageMeta{Total: 1, Page: 1, Limit: 20, TotalPages: 1},
		})
	})
	newTestBackend(t, mux)
	catalogSearch = "gorra"
	defer func() { catalogSearch = "" }()

	var buf bytes.Buffer
	code := runCatalog(t.Context(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, check := range []string{"Gorra Caribe", "€ 12,50", "Bs. 500,00", "Page 1 of 1"} {
		if !strings.Contains(buf.String(), check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, buf.String())
		}
	}
}

func TestCatalogCommand_RateDownShowsLoadingText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "down"})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Paginated[models.Product]{
			Data: []models.Product{{
				Name:     "Gorra Caribe",
				Variants: []models.ProductVariant{{Price: 12.5, IsActive: true}},
			}},
			Meta: models.PageMeta{Total: 1, Page: 1, TotalPages: 1},
		})
	})
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runCatalog(t.Context(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), currency.LoadingText) {
		t.Errorf("expected loading text in place of the local price, got:\n%s", buf.String())
	}
}

func TestProductCommand_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/slug/{slug}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Producto no encontrado"})
	})
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runProduct(t.Context(), &buf, "nada")

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if !strings.Contains(buf.String(), "Error: Producto no encontrado") {
		t.Errorf("expected server message, got %q", buf.String())
	}
}

func TestHomeCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bcv/rate", rateHandler(40))
	mux.HandleFunc("GET /landing/sections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.LandingSection{{ID: "s1", Title: "Hecho en Venezuela", IsActive: true}})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("isFeatured") != "true" {
			t.Errorf("expected featured filter, got %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, models.Paginated[models.Product]{
			Data: []models.Product{{Name: "Franela Ávila", Variants: []models.ProductVariant{{Price: 10, IsActive: true}}}},
			Meta: models.PageMeta{Total: 1, Page: 1, TotalPages: 1},
		})
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Category{{Name: "Franelas"}, {Name: "Gorras"}})
	})
	newTestBackend(t, mux)

	var buf bytes.Buffer
	code := runHome(t.Context(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, check := range []string{"Hecho en Venezuela", "Franela Ávila", "Bs. 400,00", "Franelas, Gorras"} {
		if !strings.Contains(buf.String(), check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, buf.String())
		}
	}
}
