package mail

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/siraq-studio/api/internal/domain"
)

// sanitizer strips any markup a customer may have pasted into a form field
// before the value is embedded in the notification email.
var sanitizer = bluemonday.StrictPolicy()

// BuildOrderNotification renders the internal notification email for a new
// order. Field rows follow the product's configured field order; the plain
// text part carries the same summary the customer hands off over chat.
func BuildOrderNotification(draft domain.OrderDraft, config domain.ProductConfig, summary string) Message {
	var b strings.Builder

	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px">`)
	b.WriteString(fmt.Sprintf("<h2>New Order — %s</h2>", escape(config.Name)))
	b.WriteString(fmt.Sprintf("<p><strong>Order ID:</strong> %s</p>", escape(draft.OrderID)))

	b.WriteString(`<table cellpadding="6" style="border-collapse:collapse">`)
	for _, field := range config.Fields {
		if field.Kind == domain.FieldFile {
			continue
		}
		value := strings.TrimSpace(draft.Values[field.Name])
		if value == "" {
			continue
		}
		b.WriteString("<tr>")
		b.WriteString(fmt.Sprintf(`<td style="border:1px solid #ddd"><strong>%s</strong></td>`, escape(field.Label)))
		b.WriteString(fmt.Sprintf(`<td style="border:1px solid #ddd">%s</td>`, escape(value)))
		b.WriteString("</tr>")
	}
	if pricing := draft.Pricing; pricing != nil {
		writeRow(&b, "Quantity", fmt.Sprintf("%d", pricing.Quantity))
		writeRow(&b, "Paper", string(pricing.PaperKind))
		writeRow(&b, "Unit Price", fmt.Sprintf("₹%d", pricing.UnitPrice))
		writeRow(&b, "Total Price", fmt.Sprintf("₹%d", pricing.TotalPrice))
		writeRow(&b, "Estimated Delivery", pricing.EstimatedDelivery)
	}
	b.WriteString("</table>")

	if len(draft.Files) > 0 {
		b.WriteString("<h3>Attached Files</h3><ul>")
		for _, file := range draft.Files {
			b.WriteString(fmt.Sprintf("<li>%s</li>", escape(file.Name)))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</div>")

	return Message{
		Subject: fmt.Sprintf("New Order Received - %s", draft.OrderID),
		HTML:    b.String(),
		Text:    summary,
	}
}

func writeRow(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("<tr>")
	b.WriteString(fmt.Sprintf(`<td style="border:1px solid #ddd"><strong>%s</strong></td>`, escape(label)))
	b.WriteString(fmt.Sprintf(`<td style="border:1px solid #ddd">%s</td>`, escape(value)))
	b.WriteString("</tr>")
}

// escape strips markup and entity-encodes the remainder; bluemonday's strict
// policy escapes what it keeps, so the output embeds safely in HTML.
func escape(value string) string {
	return sanitizer.Sanitize(value)
}
