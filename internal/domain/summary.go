package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// StudioEmail is the studio's contact inbox included on wedding card orders.
const StudioEmail = "niyasjahangeer772@gmail.com"

// summaryRenderer formats the final order message for one product kind.
type summaryRenderer func(draft OrderDraft) string

// summaryRenderers selects the per-kind template. Adding a product kind is a
// table insertion here plus a catalog entry.
var summaryRenderers = map[ProductKind]summaryRenderer{
	ProductWeddingCard: renderWeddingCardSummary,
	ProductIDCard:      renderIDCardSummary,
	ProductPoster:      renderPosterSummary,
	ProductInvitation:  renderInvitationSummary,
	ProductCustomPrint: renderCustomPrintSummary,
	ProductGraphicWork: renderGraphicWorkSummary,
}

// RenderOrderSummary produces the plain-text order message handed off to the
// messaging channel. The field subset differs per product kind.
func RenderOrderSummary(draft OrderDraft) (string, error) {
	render, ok := summaryRenderers[draft.ProductKind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProduct, draft.ProductKind)
	}
	return render(draft), nil
}

func renderWeddingCardSummary(draft OrderDraft) string {
	return joinLines(
		"SIRAQ Order — WEDDING CARD",
		"Bride: "+draft.Values["brideName"],
		"Groom: "+draft.Values["groomName"],
		"Date: "+draft.Values["weddingDate"],
		"Venue: "+draft.Values["venue"],
		quantityLine(draft),
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
		"My Email: "+StudioEmail,
	)
}

func renderIDCardSummary(draft OrderDraft) string {
	return joinLines(
		"SIRAQ Order — ID CARD",
		"Name: "+draft.Values["fullName"],
		"ID No: "+draft.Values["idNumber"],
		"Department: "+draft.Values["department"],
		quantityLine(draft),
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
	)
}

func renderPosterSummary(draft OrderDraft) string {
	requested := draft.Values["designChoice"] == "Request Design"

	heading := "SIRAQ Order — POSTER"
	designLine := "Design: Uploaded"
	if requested {
		heading = "SIRAQ Order — POSTER DESIGN"
		designLine = "Request: Custom Design Needed"
	}

	return joinLines(
		heading,
		"Size: "+draft.Values["size"],
		"Orientation: "+draft.Values["orientation"],
		designLine,
		quantityLine(draft),
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
	)
}

func renderInvitationSummary(draft OrderDraft) string {
	return joinLines(
		"SIRAQ Order — EVENT INVITATION",
		"Event: "+draft.Values["eventName"],
		"Date: "+draft.Values["eventDate"],
		"Venue: "+draft.Values["venue"],
		quantityLine(draft),
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
	)
}

func renderCustomPrintSummary(draft OrderDraft) string {
	return joinLines(
		"SIRAQ Order — CUSTOM PRINT",
		"Type: "+draft.Values["printType"],
		"Size: "+draft.Values["size"],
		"Description: "+draft.Values["description"],
		quantityLine(draft),
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
	)
}

// Graphic design work is quoted per project, so the summary carries no
// quantity line.
func renderGraphicWorkSummary(draft OrderDraft) string {
	return joinLines(
		"SIRAQ Order — GRAPHIC DESIGN WORK",
		"Project Type: "+draft.Values["projectType"],
		"Description: "+draft.Values["description"],
		totalPriceLine(draft),
		"Order ID: "+draft.OrderID,
	)
}

func quantityLine(draft OrderDraft) string {
	if draft.Pricing == nil {
		return "Quantity: "
	}
	return fmt.Sprintf("Quantity: %d", draft.Pricing.Quantity)
}

func totalPriceLine(draft OrderDraft) string {
	if draft.Pricing == nil {
		return "Total Price: ₹"
	}
	return fmt.Sprintf("Total Price: ₹%d", draft.Pricing.TotalPrice)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

// BuildHandoffLink assembles the wa.me deep link that delivers the order
// message. Every non-digit character is stripped from the contact number
// before embedding.
func BuildHandoffLink(message, contactNumber string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", digitsOnly(contactNumber), url.QueryEscape(message))
}

// ProductOrderLink builds the short "I want to order" link shown next to
// public catalog products.
func ProductOrderLink(productName string, price float64, contactNumber string) string {
	message := fmt.Sprintf("Hi, I want to order: %s (₹%s). Please confirm.", productName, formatPrice(price))
	return BuildHandoffLink(message, contactNumber)
}

func formatPrice(price float64) string {
	formatted := strings.TrimRight(fmt.Sprintf("%.2f", price), "0")
	return strings.TrimRight(formatted, ".")
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
