package domain

import (
	"encoding/json"
	"time"
)

// ProductKind identifies one of the fixed product offerings.
type ProductKind string

const (
	ProductWeddingCard ProductKind = "wedding-card"
	ProductIDCard      ProductKind = "id-card"
	ProductPoster      ProductKind = "poster"
	ProductInvitation  ProductKind = "invitation"
	ProductCustomPrint ProductKind = "custom-print"
	ProductGraphicWork ProductKind = "graphic-work"
)

// PaperKind identifies the paper/material tier applied to an order.
type PaperKind string

const (
	PaperStandard PaperKind = "standard"
	PaperPremium  PaperKind = "premium"
	PaperLuxury   PaperKind = "luxury"
)

// FieldKind enumerates the input widget types a FieldSpec can request.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldDate     FieldKind = "date"
	FieldNumber   FieldKind = "number"
	FieldFile     FieldKind = "file"
	FieldSelect   FieldKind = "select"
	FieldTextarea FieldKind = "textarea"
)

// FieldSpec describes one user-input field collected by the order wizard.
type FieldSpec struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// ProductConfig is the immutable definition of a product offering: its base
// price and the fields an order of that kind collects.
type ProductConfig struct {
	Kind      ProductKind `json:"id"`
	Name      string      `json:"name"`
	Icon      string      `json:"icon"`
	BasePrice int64       `json:"basePrice"`
	Fields    []FieldSpec `json:"fields"`
}

// PaperOption pairs a paper kind with its display name and per-unit surcharge.
type PaperOption struct {
	Kind      PaperKind `json:"id"`
	Name      string    `json:"name"`
	Surcharge int64     `json:"upcharge"`
}

// PricingDetails is the derived pricing of a single order attempt. It is
// recomputed from its inputs on every pricing step and never mutated.
type PricingDetails struct {
	BasePrice         int64     `json:"basePrice"`
	Quantity          int       `json:"quantity"`
	PaperKind         PaperKind `json:"paperType"`
	PaperSurcharge    int64     `json:"paperUpcharge"`
	UnitPrice         int64     `json:"unitPrice"`
	TotalPrice        int64     `json:"totalPrice"`
	EstimatedDelivery string    `json:"estimatedDelivery"`
}

// FileRef points at a file the customer attached to an order.
type FileRef struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// OrderDraft is the in-progress order assembled by the wizard. It lives only
// in memory; the durable record of an order is the hand-off message plus the
// best-effort notification email.
type OrderDraft struct {
	ProductKind ProductKind
	Values      map[string]string
	Files       []FileRef
	Pricing     *PricingDetails
	OrderID     string
}

// orderDraftEnvelope mirrors the flat wire shape used by the order form:
// known keys at the top level and every field value spread beside them.
type orderDraftEnvelope struct {
	ProductType ProductKind     `json:"productType"`
	Pricing     *PricingDetails `json:"pricing,omitempty"`
	Files       []FileRef       `json:"uploadedFiles,omitempty"`
	OrderID     string          `json:"orderId,omitempty"`
}

// MarshalJSON flattens the field values next to the fixed draft attributes.
func (d OrderDraft) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Values)+4)
	for name, value := range d.Values {
		out[name] = value
	}
	out["productType"] = d.ProductKind
	if d.Pricing != nil {
		out["pricing"] = d.Pricing
	}
	if len(d.Files) > 0 {
		out["uploadedFiles"] = d.Files
	}
	if d.OrderID != "" {
		out["orderId"] = d.OrderID
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the flat wire shape, collecting unrecognised string
// keys into Values.
func (d *OrderDraft) UnmarshalJSON(data []byte) error {
	var envelope orderDraftEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(map[string]string)
	for key, value := range raw {
		switch key {
		case "productType", "pricing", "uploadedFiles", "orderId":
			continue
		}
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			// Non-string extras (numbers, nested objects) are not field
			// values and are dropped.
			continue
		}
		values[key] = str
	}
	if len(values) == 0 {
		values = nil
	}

	d.ProductKind = envelope.ProductType
	d.Pricing = envelope.Pricing
	d.Files = envelope.Files
	d.OrderID = envelope.OrderID
	d.Values = values
	return nil
}

// LogoHistoryEntry is an archived prior value of the active site logo.
type LogoHistoryEntry struct {
	URL        string    `json:"url" firestore:"url"`
	UploadedBy string    `json:"uploadedBy" firestore:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt" firestore:"uploadedAt"`
}

// SiteBranding is the singleton record governing the publicly displayed logo
// and WhatsApp contact number, plus the bounded trailing logo history.
type SiteBranding struct {
	WhatsApp       string             `json:"whatsapp" firestore:"whatsapp"`
	LogoURL        string             `json:"logoUrl" firestore:"logoUrl"`
	LogoUploadedBy string             `json:"logoUploadedBy,omitempty" firestore:"logoUploadedBy,omitempty"`
	LogoUploadedAt time.Time          `json:"logoUploadedAt,omitempty" firestore:"logoUploadedAt,omitempty"`
	LogoRemovedBy  string             `json:"logoRemovedBy,omitempty" firestore:"logoRemovedBy,omitempty"`
	LogoRemovedAt  time.Time          `json:"logoRemovedAt,omitempty" firestore:"logoRemovedAt,omitempty"`
	LogoHistory    []LogoHistoryEntry `json:"logoHistory,omitempty" firestore:"logoHistory,omitempty"`
}

// CatalogProduct is an administrator-managed product shown on the public
// site. It is independent of the wizard's ProductConfig catalog.
type CatalogProduct struct {
	ID          string  `json:"id" firestore:"-"`
	Name        string  `json:"name" firestore:"name"`
	Price       float64 `json:"price" firestore:"price"`
	Description string  `json:"description" firestore:"description"`
	ImageURL    string  `json:"imageUrl" firestore:"imageUrl"`
}
