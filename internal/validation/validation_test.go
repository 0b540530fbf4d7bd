// ABOUTME: Tests for nickname, address and order status validation
// ABOUTME: Table-driven checks of limits and messages

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/delcarajo/storefront/internal/models"
)

func TestNickname(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"trimmed", "  Pana  ", "Pana", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
		{"max length", strings.Repeat("a", 50), strings.Repeat("a", 50), false},
		{"too long", strings.Repeat("a", 51), "", true},
		{"multibyte counts runes", strings.Repeat("ñ", 50), strings.Repeat("ñ", 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nickname(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNickname_Messages(t *testing.T) {
	_, err := Nickname("")
	if err == nil || err.Error() != "Por favor ingresa un alias" {
		t.Errorf("expected required message, got %v", err)
	}

	_, err = Nickname(strings.Repeat("x", 60))
	if err == nil || !strings.Contains(err.Error(), "50 caracteres") {
		t.Errorf("expected length message, got %v", err)
	}
}

func validAddress() models.AddressPayload {
	return models.AddressPayload{
		Alias:    "Casa",
		FullName: "María Pérez",
		Phone:    "04141234567",
		State:    "Miranda",
		City:     "Los Teques",
		Address:  "Calle 1, casa 2",
	}
}

func TestAddress_Valid(t *testing.T) {
	if err := Address(validAddress()); err != nil {
		t.Errorf("expected valid address, got %v", err)
	}
}

func TestAddress_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *models.AddressPayload)
		field   string
		message string
	}{
		{"missing alias", func(p *models.AddressPayload) { p.Alias = "" }, "alias", "Alias es obligatorio"},
		{"missing city", func(p *models.AddressPayload) { p.City = "" }, "city", "Ciudad es obligatoria"},
		{"long phone", func(p *models.AddressPayload) { p.Phone = strings.Repeat("1", 21) }, "phone", "phone no puede exceder 20 caracteres"},
		{"long zip", func(p *models.AddressPayload) { p.ZipCode = strings.Repeat("1", 21) }, "zipCode", "zipCode no puede exceder 20 caracteres"},
		{"long reference", func(p *models.AddressPayload) { p.Reference = strings.Repeat("r", 501) }, "reference", "reference no puede exceder 500 caracteres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validAddress()
			tt.mutate(&p)

			err := Address(p)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected 1 field error, got %d", len(verr.Fields))
			}
			if verr.Fields[0].Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Fields[0].Field)
			}
			if verr.Fields[0].Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, verr.Fields[0].Message)
			}
		})
	}
}

func TestNormalizeAddress_TrimsBeforeValidation(t *testing.T) {
	p := validAddress()
	p.Alias = "   "

	err := Address(NormalizeAddress(p))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected whitespace alias to be rejected, got %v", err)
	}
}

func TestStatusChange(t *testing.T) {
	tests := []struct {
		current models.OrderStatus
		target  models.OrderStatus
		wantErr bool
	}{
		{models.StatusPendingPayment, models.StatusPaymentConfirmed, false},
		{models.StatusPendingPayment, models.StatusDelivered, false},
		{models.StatusPaymentConfirmed, models.StatusCancelled, false},
		{models.StatusInTransit, models.StatusPendingPayment, true},
		{models.StatusDelivered, models.StatusCancelled, true},
		{models.StatusPendingPayment, models.OrderStatus("LOST"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"->"+string(tt.target), func(t *testing.T) {
			err := StatusChange(tt.current, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
