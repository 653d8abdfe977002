package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProduct indicates the product kind is outside the fixed catalog.
	ErrUnknownProduct = errors.New("catalog: unknown product kind")
	// ErrUnknownPaper indicates the paper kind is outside the fixed enumeration.
	ErrUnknownPaper = errors.New("catalog: unknown paper kind")
)

// productCatalog is the fixed set of product offerings. Defined at process
// start, never mutated.
var productCatalog = map[ProductKind]ProductConfig{
	ProductWeddingCard: {
		Kind:      ProductWeddingCard,
		Name:      "Wedding Card",
		Icon:      "💌",
		BasePrice: 20,
		Fields: []FieldSpec{
			{Name: "brideName", Label: "Bride Name", Kind: FieldText, Required: true, Placeholder: "Enter bride name"},
			{Name: "groomName", Label: "Groom Name", Kind: FieldText, Required: true, Placeholder: "Enter groom name"},
			{Name: "weddingDate", Label: "Wedding Date", Kind: FieldDate, Required: true},
			{Name: "venue", Label: "Venue", Kind: FieldText, Required: true, Placeholder: "Enter venue"},
			{Name: "photo", Label: "Upload Photo (Optional)", Kind: FieldFile},
		},
	},
	ProductIDCard: {
		Kind:      ProductIDCard,
		Name:      "ID Card",
		Icon:      "💼",
		BasePrice: 150,
		Fields: []FieldSpec{
			{Name: "fullName", Label: "Full Name", Kind: FieldText, Required: true, Placeholder: "Enter full name"},
			{Name: "idNumber", Label: "ID / Roll Number", Kind: FieldText, Required: true, Placeholder: "Enter ID number"},
			{Name: "department", Label: "Department", Kind: FieldText, Required: true, Placeholder: "Enter department"},
			{Name: "photo", Label: "Upload Photo (Required)", Kind: FieldFile, Required: true},
		},
	},
	ProductPoster: {
		Kind:      ProductPoster,
		Name:      "Poster",
		Icon:      "🖼️",
		BasePrice: 150,
		Fields: []FieldSpec{
			{Name: "size", Label: "Size", Kind: FieldSelect, Required: true, Options: []string{"A4", "A3", "A2", "A1", "Custom"}},
			{Name: "orientation", Label: "Orientation", Kind: FieldSelect, Required: true, Options: []string{"Portrait", "Landscape"}},
			{Name: "designChoice", Label: "Design Choice", Kind: FieldSelect, Required: true, Options: []string{"Upload My Design", "Request Design"}},
			{Name: "design", Label: "Upload Design File", Kind: FieldFile},
		},
	},
	ProductInvitation: {
		Kind:      ProductInvitation,
		Name:      "Event Invitation",
		Icon:      "🎉",
		BasePrice: 15,
		Fields: []FieldSpec{
			{Name: "eventName", Label: "Event Name", Kind: FieldText, Required: true, Placeholder: "e.g., Birthday Party"},
			{Name: "eventDate", Label: "Event Date", Kind: FieldDate, Required: true},
			{Name: "venue", Label: "Venue", Kind: FieldText, Required: true, Placeholder: "Enter venue"},
			{Name: "message", Label: "Special Message", Kind: FieldTextarea, Placeholder: "Any special message"},
			{Name: "design", Label: "Upload Design (Optional)", Kind: FieldFile},
		},
	},
	ProductCustomPrint: {
		Kind:      ProductCustomPrint,
		Name:      "Custom Print",
		Icon:      "🎨",
		BasePrice: 100,
		Fields: []FieldSpec{
			{Name: "printType", Label: "Print Type", Kind: FieldText, Required: true, Placeholder: "e.g., Flyer, Brochure"},
			{Name: "size", Label: "Size", Kind: FieldSelect, Required: true, Options: []string{"A4", "A3", "A2", "Custom"}},
			{Name: "description", Label: "Description", Kind: FieldTextarea, Required: true, Placeholder: "Describe your requirements"},
			{Name: "design", Label: "Upload Design", Kind: FieldFile},
		},
	},
	ProductGraphicWork: {
		Kind:      ProductGraphicWork,
		Name:      "Graphic Design Work",
		Icon:      "✨",
		BasePrice: 500,
		Fields: []FieldSpec{
			{Name: "projectType", Label: "Project Type", Kind: FieldSelect, Required: true, Options: []string{"Logo Design", "Brand Identity", "Social Media Graphics", "Custom Design"}},
			{Name: "description", Label: "Project Description", Kind: FieldTextarea, Required: true, Placeholder: "Describe your design needs"},
			{Name: "reference", Label: "Upload Reference (Optional)", Kind: FieldFile},
		},
	},
}

// productKindOrder fixes the display ordering of the catalog.
var productKindOrder = []ProductKind{
	ProductWeddingCard,
	ProductIDCard,
	ProductPoster,
	ProductInvitation,
	ProductCustomPrint,
	ProductGraphicWork,
}

// paperOptions maps each paper kind to its display name and surcharge.
var paperOptions = map[PaperKind]PaperOption{
	PaperStandard: {Kind: PaperStandard, Name: "Standard", Surcharge: 0},
	PaperPremium:  {Kind: PaperPremium, Name: "Premium (Glossy)", Surcharge: 5},
	PaperLuxury:   {Kind: PaperLuxury, Name: "Luxury (Textured)", Surcharge: 10},
}

var paperKindOrder = []PaperKind{PaperStandard, PaperPremium, PaperLuxury}

// ProductConfigFor returns the configuration for the given product kind.
func ProductConfigFor(kind ProductKind) (ProductConfig, error) {
	config, ok := productCatalog[kind]
	if !ok {
		return ProductConfig{}, fmt.Errorf("%w: %q", ErrUnknownProduct, kind)
	}
	return config, nil
}

// ProductConfigs returns every product configuration in display order.
func ProductConfigs() []ProductConfig {
	out := make([]ProductConfig, 0, len(productKindOrder))
	for _, kind := range productKindOrder {
		out = append(out, productCatalog[kind])
	}
	return out
}

// PaperOptionFor returns the paper option for the given kind.
func PaperOptionFor(kind PaperKind) (PaperOption, error) {
	option, ok := paperOptions[kind]
	if !ok {
		return PaperOption{}, fmt.Errorf("%w: %q", ErrUnknownPaper, kind)
	}
	return option, nil
}

// PaperOptions returns the paper tiers in ascending surcharge order.
func PaperOptions() []PaperOption {
	out := make([]PaperOption, 0, len(paperKindOrder))
	for _, kind := range paperKindOrder {
		out = append(out, paperOptions[kind])
	}
	return out
}
