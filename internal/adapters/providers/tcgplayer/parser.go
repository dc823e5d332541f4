// Package tcgplayer parses TCGplayer seller notifications and proxies
// storefront product search.
package tcgplayer

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// SaleNotice is one parsed sale-notification email. Items carry the
// order id, order total and per-unit price already filled in.
type SaleNotice struct {
	Subject string
	Date    string
	Items   []sale.Record
}

var (
	htmlBreakPattern  = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|td|tr|li)>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
	multiSpacePattern = regexp.MustCompile(`  +`)

	orderIDPattern = regexp.MustCompile(`(?i)Order:\s*([A-Z0-9-]+)`)
	// PowerShell-forwarded emails escape the dollar sign with a backtick.
	orderTotalPattern = regexp.MustCompile("(?i)Order\\s*Total:\\s*[$`]\\s*([\\d.]+)")
	orderDatePattern  = regexp.MustCompile(`(?i)order date of\s+(\d{1,2}/\d{1,2}/\d{4})`)

	qtyLinePattern        = regexp.MustCompile(`^\d{1,2}$`)
	numberedNamePattern   = regexp.MustCompile(`^(.+?)\s+-\s+(\d+/\d+)$`)
	numberedLinePattern   = regexp.MustCompile(`(?i)^(\d+)\s+(.+?)\s+-\s+(\d+/\d+)/(.+)$`)
	simpleLinePattern     = regexp.MustCompile(`(?i)^(\d+)\s+(.+?)/(.+)$`)
	subjectProductPattern = regexp.MustCompile(`(?i)items of\s+([^-]+?)\s+-\s+(\d+/\d+)\s+have sold`)
)

// ParseNotification extracts sale records from one notification email.
// Returns nil when the message is not a sale notification or carries no
// recognizable product lines.
func ParseNotification(n providers.Notification) *SaleNotice {
	body := n.Body
	if strings.HasPrefix(strings.TrimSpace(body), "<") {
		body = StripHTML(body)
	}
	body = blankLinePattern.ReplaceAllString(body, "\n")
	body = multiSpacePattern.ReplaceAllString(body, " ")

	if !strings.Contains(strings.ToLower(n.Subject), "have sold") &&
		!strings.Contains(strings.ToLower(body), "order") {
		return nil
	}

	var orderID, orderDate string
	if m := orderIDPattern.FindStringSubmatch(body); m != nil {
		orderID = m[1]
	}
	if m := orderDatePattern.FindStringSubmatch(body); m != nil {
		orderDate = m[1]
	}

	var orderTotal float64
	if m := orderTotalPattern.FindStringSubmatch(body); m != nil {
		orderTotal, _ = strconv.ParseFloat(m[1], 64)
	}

	items := parseBodyItems(body, orderTotal)
	if len(items) == 0 {
		items = parseSubjectItem(n.Subject, orderTotal)
	}
	if len(items) == 0 {
		return nil
	}

	soldDate := orderDate
	if soldDate == "" {
		soldDate = n.Date
	}

	for i := range items {
		items[i].Platform = sale.PlatformTCGPlayer
		items[i].OrderID = orderID
		items[i].OrderTotal = orderTotal
		items[i].SoldDate = soldDate
	}

	return &SaleNotice{Subject: n.Subject, Date: n.Date, Items: items}
}

// StripHTML converts an HTML email body to plain text, keeping line
// structure for block-level elements.
func StripHTML(s string) string {
	s = htmlBreakPattern.ReplaceAllString(s, "\n")
	s = htmlTagPattern.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// parseBodyItems walks the body lines looking for product entries.
//
// The multi-line format is a bare quantity line followed by
// "Name - 123/456/Condition"; its per-unit price is the order total
// divided by the total quantity across all multi-line entries. The
// single-line formats carry their own quantity and are priced as
// order total / line quantity.
func parseBodyItems(body string, orderTotal float64) []sale.Record {
	lines := strings.Split(body, "\n")

	var singleLine []sale.Record
	var multiLine []sale.Record

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if qtyLinePattern.MatchString(line) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if idx := strings.LastIndex(next, "/"); idx > 0 {
				qty, _ := strconv.Atoi(line)
				productPart := strings.TrimSpace(next[:idx])
				condition := strings.TrimSpace(next[idx+1:])

				name, number := splitCardNumber(productPart)
				fullName := displayName(name, number)
				if !containsName(multiLine, fullName) {
					multiLine = append(multiLine, sale.Record{
						Name:       fullName,
						Qty:        qty,
						Condition:  condition,
						CardNumber: number,
					})
				}
				i += 2
				continue
			}
		}

		if m := numberedLinePattern.FindStringSubmatch(line); m != nil {
			qty, _ := strconv.Atoi(m[1])
			number := strings.TrimSpace(m[3])
			fullName := displayName(strings.TrimSpace(m[2]), number)
			if !containsName(singleLine, fullName) {
				singleLine = append(singleLine, sale.Record{
					Name:       fullName,
					Qty:        qty,
					Condition:  strings.TrimSpace(m[4]),
					SoldPrice:  perUnitPrice(orderTotal, qty),
					CardNumber: number,
				})
			}
		} else if m := simpleLinePattern.FindStringSubmatch(line); m != nil {
			qty, _ := strconv.Atoi(m[1])
			fullName := strings.TrimSpace(m[2])
			if !containsName(singleLine, fullName) {
				singleLine = append(singleLine, sale.Record{
					Name:      fullName,
					Qty:       qty,
					Condition: strings.TrimSpace(m[3]),
					SoldPrice: perUnitPrice(orderTotal, qty),
				})
			}
		}

		i++
	}

	totalQty := 0
	for _, r := range multiLine {
		totalQty += r.Qty
	}
	if totalQty > 0 && orderTotal > 0 {
		perUnit := orderTotal / float64(totalQty)
		for j := range multiLine {
			multiLine[j].SoldPrice = perUnit
		}
	}

	return append(singleLine, multiLine...)
}

// parseSubjectItem falls back to the subject line:
// "Your TCGplayer.com items of Mew ex - 151/165 have sold!"
func parseSubjectItem(subject string, orderTotal float64) []sale.Record {
	m := subjectProductPattern.FindStringSubmatch(subject)
	if m == nil {
		return nil
	}

	number := strings.TrimSpace(m[2])
	return []sale.Record{{
		Name:       displayName(strings.TrimSpace(m[1]), number),
		Qty:        1,
		Condition:  "Unknown",
		SoldPrice:  orderTotal,
		CardNumber: number,
	}}
}

func splitCardNumber(productPart string) (name, number string) {
	if m := numberedNamePattern.FindStringSubmatch(productPart); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return productPart, ""
}

func displayName(name, number string) string {
	if number == "" {
		return name
	}
	return name + " #" + number
}

func containsName(records []sale.Record, name string) bool {
	for _, r := range records {
		if r.Name == name {
			return true
		}
	}
	return false
}

func perUnitPrice(orderTotal float64, qty int) float64 {
	if qty <= 0 || orderTotal <= 0 {
		return 0
	}
	return orderTotal / float64(qty)
}
