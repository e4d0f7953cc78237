package model

import (
	"strings"
	"testing"
)

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplateString(`{
		"elements": [
			{"id": "h", "type": "text", "x": 40, "y": 36, "width": 400, "height": 44,
			 "content": "<strong>INVOICE</strong>", "fontSize": 30, "fontWeight": "bold"},
			{"id": "items", "type": "itemsTable", "x": 40, "y": 300, "width": 714, "height": 600},
			{"id": "rule", "type": "line", "x": 40, "y": 120, "width": 714, "height": 4, "thickness": 1.5}
		]
	}`)
	if err != nil {
		t.Fatalf("ParseTemplateString: %v", err)
	}
	if len(tpl.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(tpl.Elements))
	}

	heading := tpl.Elements[0]
	if heading.Type != ElementText || heading.FontSize != 30 || !heading.Bold() {
		t.Errorf("heading decoded wrong: %+v", heading)
	}
	if !tpl.HasElement(ElementItemsTable) {
		t.Error("HasElement(itemsTable) = false")
	}
	if tpl.HasElement(ElementTotalsBlock) {
		t.Error("HasElement(totalsBlock) = true for template without one")
	}
	if rule := tpl.FindFirst(ElementLine); rule == nil || rule.EffectiveThickness() != 1.5 {
		t.Errorf("FindFirst(line) = %+v", rule)
	}
}

func TestParseTemplateInvalid(t *testing.T) {
	if _, err := ParseTemplateString(`{"elements": [`); err == nil {
		t.Fatal("want error for truncated JSON")
	}
}

func TestParseInvoice(t *testing.T) {
	inv, err := ParseInvoiceString(`{
		"company_name": "Acme Trading Sdn Bhd",
		"address": "12 Jalan Ampang\n50450 Kuala Lumpur",
		"invoice_number": "INV-42",
		"invoice_date": "2026-08-14",
		"total": 1585.50,
		"items": [
			{"description": "Design consultation", "unit_price": 250, "quantity": 2, "total": 500}
		]
	}`)
	if err != nil {
		t.Fatalf("ParseInvoiceString: %v", err)
	}
	if inv.CompanyName != "Acme Trading Sdn Bhd" || inv.Total != 1585.5 {
		t.Errorf("invoice decoded wrong: %+v", inv)
	}
	if !strings.Contains(inv.Address, "\n") {
		t.Error("embedded address newline lost")
	}
	if len(inv.Items) != 1 || inv.Items[0].Quantity != 2 {
		t.Errorf("items decoded wrong: %+v", inv.Items)
	}
	if inv.Attention != "" {
		t.Errorf("absent field should decode empty, got %q", inv.Attention)
	}
}

func TestElementDefaults(t *testing.T) {
	e := &Element{Type: ElementText}
	if got := e.EffectiveFontSize(); got != 16 {
		t.Errorf("EffectiveFontSize() = %v, want 16", got)
	}
	if got := e.EffectiveLineHeight(); got != 1.4 {
		t.Errorf("EffectiveLineHeight() = %v, want 1.4", got)
	}
	if got := e.EffectiveThickness(); got != 2 {
		t.Errorf("EffectiveThickness() = %v, want 2", got)
	}
}

func TestElementStyleFlags(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		bold bool
		ital bool
		und  bool
	}{
		{"plain", Element{}, false, false, false},
		{"bold keyword", Element{FontWeight: "bold"}, true, false, false},
		{"bold numeric", Element{FontWeight: "700"}, true, false, false},
		{"italic", Element{FontStyle: "italic"}, false, true, false},
		{"oblique", Element{FontStyle: "Oblique"}, false, true, false},
		{"underline", Element{TextDecoration: "underline"}, false, false, true},
		{"combined decoration", Element{TextDecoration: "underline line-through"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.e.Bold() != tt.bold || tt.e.Italic() != tt.ital || tt.e.Underline() != tt.und {
				t.Errorf("flags = %v/%v/%v, want %v/%v/%v",
					tt.e.Bold(), tt.e.Italic(), tt.e.Underline(), tt.bold, tt.ital, tt.und)
			}
		})
	}
}
