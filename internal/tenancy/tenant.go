package tenancy

import "time"

// Status is the lifecycle state of a tenant, owned by the remote backend.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

// Tenant is one onboarded restaurant. This service only ever reads tenant
// records from the backend; it never mutates or persists them.
type Tenant struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"ownerEmail"`
	Status     Status    `json:"status"`
	Settings   Settings  `json:"settings"`
	Branding   Branding  `json:"branding"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Settings holds per-tenant operational configuration.
type Settings struct {
	Currency            string  `json:"currency"`
	Timezone            string  `json:"timezone"`
	Language            string  `json:"language"`
	OrderingEnabled     bool    `json:"orderingEnabled"`
	ReservationsEnabled bool    `json:"reservationsEnabled"`
	DeliveryEnabled     bool    `json:"deliveryEnabled"`
	TaxRate             float64 `json:"taxRate"`
}

// Branding holds per-tenant visual identity, shown even on the suspended
// page so the restaurant remains recognizable.
type Branding struct {
	LogoURL        string `json:"logoUrl,omitempty"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	FontFamily     string `json:"fontFamily,omitempty"`
}
