// ABOUTME: Client-side input validation run before any request is sent
// ABOUTME: Uses go-playground/validator with Spanish messages matching the storefront forms

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/go-playground/validator/v10"
)

// NicknameMaxLength is the longest alias a user may pick, in characters
const NicknameMaxLength = 50

// ErrInvalid matches every validation failure with errors.Is
var ErrInvalid = errors.New("invalid input")

// FieldError is one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every rejected field of an input
type Error struct {
	Fields []FieldError `json:"fields"`
}

// NewError builds an Error for a single field
func NewError(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Nickname trims s and checks it is a usable alias
func Nickname(s string) (string, error) {
	nickname := strings.TrimSpace(s)
	if err := validate.Var(nickname, fmt.Sprintf("required,max=%d", NicknameMaxLength)); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "max" {
			return "", NewError("nickname", fmt.Sprintf("El alias no puede exceder %d caracteres", NicknameMaxLength))
		}
		return "", NewError("nickname", "Por favor ingresa un alias")
	}
	return nickname, nil
}

var requiredMessages = map[string]string{
	"alias":    "Alias es obligatorio",
	"fullName": "Nombre completo es obligatorio",
	"phone":    "Teléfono es obligatorio",
	"state":    "Estado es obligatorio",
	"city":     "Ciudad es obligatoria",
	"address":  "Dirección es obligatoria",
}

// NormalizeAddress trims every text field of p
func NormalizeAddress(p models.AddressPayload) models.AddressPayload {
	p.Alias = strings.TrimSpace(p.Alias)
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.State = strings.TrimSpace(p.State)
	p.City = strings.TrimSpace(p.City)
	p.Municipality = strings.TrimSpace(p.Municipality)
	p.Address = strings.TrimSpace(p.Address)
	p.ZipCode = strings.TrimSpace(p.ZipCode)
	p.Reference = strings.TrimSpace(p.Reference)
	return p
}

// Address checks the field limits of an address payload
func Address(p models.AddressPayload) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s no puede exceder %s caracteres", fe.Field(), fe.Param())
		if fe.Tag() == "required" {
			msg = requiredMessages[fe.Field()]
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// StatusChange checks that an order may move from current to target
func StatusChange(current, target models.OrderStatus) error {
	if !target.Valid() {
		return NewError("status", fmt.Sprintf("estado desconocido: %s", target))
	}
	if !current.CanTransitionTo(target) {
		return NewError("status", fmt.Sprintf("no se puede pasar de %s a %s", current.Label(), target.Label()))
	}
	return nil
}
