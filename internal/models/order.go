// ABOUTME: Order, cart and favorite types plus the order status flow
// ABOUTME: The backend enforces transitions; Next only drives what the client offers

package models

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	StatusPaymentConfirmed OrderStatus = "PAGO_CONFIRMADO"
	StatusInTransit        OrderStatus = "EN_CAMINO"
	StatusDelivered        OrderStatus = "ENTREGADO"
	StatusCancelled        OrderStatus = "CANCELADO"
)

// statusFlow is the linear happy path; CANCELADO is reachable from any non-terminal step
var statusFlow = []OrderStatus{
	StatusPendingPayment,
	StatusPaymentConfirmed,
	StatusInTransit,
	StatusDelivered,
}

var statusLabels = map[OrderStatus]string{
	StatusPendingPayment:   "Pendiente de Pago",
	StatusPaymentConfirmed: "Pago Confirmado",
	StatusInTransit:        "En Camino",
	StatusDelivered:        "Entregado",
	StatusCancelled:        "Cancelado",
}

// AllStatuses returns every known status in display order
func AllStatuses() []OrderStatus {
	return append(append([]OrderStatus{}, statusFlow...), StatusCancelled)
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the customer-facing Spanish label
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether no further transition is offered
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the statuses an admin may move the order to
func (s OrderStatus) Next() []OrderStatus {
	if s.Terminal() || !s.Valid() {
		return nil
	}
	idx := 0
	for i, st := range statusFlow {
		if st == s {
			idx = i
			break
		}
	}
	next := append([]OrderStatus{}, statusFlow[idx+1:]...)
	return append(next, StatusCancelled)
}

// CanTransitionTo reports whether target is among Next()
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, n := range s.Next() {
		if n == target {
			return true
		}
	}
	return false
}

// PaymentMethod accepted at checkout
type PaymentMethod string

const (
	PaymentMobile   PaymentMethod = "MOBILE_PAYMENT"
	PaymentTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCash     PaymentMethod = "CASH"
)

type OrderItem struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId"`
	VariantID     string          `json:"variantId"`
	ProductName   string          `json:"productName"`
	VariantSize   string          `json:"variantSize"`
	VariantColor  string          `json:"variantColor"`
	VariantGender Gender          `json:"variantGender"`
	Price         float64         `json:"price"`
	Quantity      int             `json:"quantity"`
	Subtotal      float64         `json:"subtotal"`
	Variant       *ProductVariant `json:"variant,omitempty"`
}

type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	AddressID     string        `json:"addressId"`
	Status        OrderStatus   `json:"status"`
	Subtotal      float64       `json:"subtotal"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentProof  string        `json:"paymentProof,omitempty"`
	CustomerNotes string        `json:"customerNotes,omitempty"`
	AdminNotes    string        `json:"adminNotes,omitempty"`
	PaidAt        string        `json:"paidAt,omitempty"`
	ShippedAt     string        `json:"shippedAt,omitempty"`
	DeliveredAt   string        `json:"deliveredAt,omitempty"`
	CancelledAt   string        `json:"cancelledAt,omitempty"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
	Items         []OrderItem   `json:"items"`
	Address       *Address      `json:"address,omitempty"`
	User          *User         `json:"user,omitempty"`
}

// ShortID is the 8-character prefix shown in listings
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

type CartItem struct {
	ID        string         `json:"id"`
	CartID    string         `json:"cartId"`
	VariantID string         `json:"variantId"`
	Quantity  int            `json:"quantity"`
	ExpiresAt string         `json:"expiresAt"`
	CreatedAt string         `json:"createdAt"`
	Variant   ProductVariant `json:"variant"`
}

// Cart is the server cart with computed totals
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Items      []CartItem `json:"items"`
	Subtotal   float64    `json:"subtotal"`
	TotalItems int        `json:"totalItems"`
	CreatedAt  string     `json:"createdAt"`
	UpdatedAt  string     `json:"updatedAt"`
}

type Favorite struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	ProductID string  `json:"productId"`
	CreatedAt string  `json:"createdAt"`
	Product   Product `json:"product"`
}

type FavoriteList struct {
	Total     int        `json:"total"`
	Favorites []Favorite `json:"favorites"`
}

type FavoriteCheck struct {
	ProductID  string `json:"productId"`
	IsFavorite bool   `json:"isFavorite"`
}

// PageMeta describes a page of a list endpoint
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Paginated is the envelope every list endpoint returns
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// DashboardStats feeds the back-office overview
type DashboardStats struct {
	Products struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
	} `json:"products"`
	Users struct {
		Total       int `json:"total"`
		Admins      int `json:"admins"`
		SuperAdmins int `json:"superAdmins"`
		Regular     int `json:"regular"`
	} `json:"users"`
	Orders struct {
		Total            int `json:"total"`
		PendingPayment   int `json:"pendingPayment"`
		ConfirmedPayment int `json:"confirmedPayment"`
		InTransit        int `json:"inTransit"`
		Delivered        int `json:"delivered"`
		Cancelled        int `json:"cancelled"`
	} `json:"orders"`
	Sales struct {
		Total float64 `json:"total"`
	} `json:"sales"`
}

// BcvRate is the official EUR to VES rate published by the central bank
type BcvRate struct {
	Rate       float64 `json:"rate"`
	LastUpdate string  `json:"lastUpdate"`
	Source     string  `json:"source"`
}

// UploadResult is returned by the file upload endpoints
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int64  `json:"size,omitempty"`
}
