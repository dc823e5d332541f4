package tcgplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

const sampleBody = `
Selvin,

Payment for this order has been received and is being held for you until this order is confirmed as delivered.

Order: 65A71D89-0F1F1F-5C620
Order Total: $5.99

ORDER DETAILS
See all >
1 Mew ex - 151/165/Near Mint Holofoil
Remember to ship this order no later than 48 hours after the order date of 1/26/2026.

Confirm Shipment

Thanks,
Team TCGplayer
`

func TestParseNotification_SingleLineFormat(t *testing.T) {
	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items of Mew ex - 151/165 have sold!",
		Body:    sampleBody,
		Date:    "Sun, 26 Jan 2026 02:19:00 +0000",
	})

	require.NotNil(t, notice)
	require.Len(t, notice.Items, 1)

	item := notice.Items[0]
	assert.Equal(t, "Mew ex #151/165", item.Name)
	assert.Equal(t, 1, item.Qty)
	assert.Equal(t, "Near Mint Holofoil", item.Condition)
	assert.InDelta(t, 5.99, item.SoldPrice, 0.001)
	assert.Equal(t, "151/165", item.CardNumber)
	assert.Equal(t, "65A71D89-0F1F1F-5C620", item.OrderID)
	assert.InDelta(t, 5.99, item.OrderTotal, 0.001)
	assert.Equal(t, "1/26/2026", item.SoldDate)
	assert.Equal(t, sale.PlatformTCGPlayer, item.Platform)
}

func TestParseNotification_MultiLineFormat(t *testing.T) {
	body := `
Order: AAAA-BBBB-CCCC
Order Total: $12.00

2
Dragonite V/Near Mint Holofoil
1
Pikachu - 25/102/Lightly Played
`
	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items have sold!",
		Body:    body,
	})

	require.NotNil(t, notice)
	require.Len(t, notice.Items, 2)

	// Per-unit price is the order total over the combined quantity.
	assert.Equal(t, "Dragonite V", notice.Items[0].Name)
	assert.Equal(t, 2, notice.Items[0].Qty)
	assert.Equal(t, "Near Mint Holofoil", notice.Items[0].Condition)
	assert.InDelta(t, 4.00, notice.Items[0].SoldPrice, 0.001)

	assert.Equal(t, "Pikachu #25/102", notice.Items[1].Name)
	assert.Equal(t, "25/102", notice.Items[1].CardNumber)
	assert.Equal(t, "Lightly Played", notice.Items[1].Condition)
	assert.InDelta(t, 4.00, notice.Items[1].SoldPrice, 0.001)
}

func TestParseNotification_NoOrderTotal(t *testing.T) {
	body := `
Order: AAAA-BBBB-CCCC

1
Dragonite V/Near Mint Holofoil
`
	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items have sold!",
		Body:    body,
	})

	require.NotNil(t, notice)
	require.Len(t, notice.Items, 1)
	assert.Equal(t, 0.0, notice.Items[0].SoldPrice)
}

func TestParseNotification_EscapedDollarSign(t *testing.T) {
	body := "Order: X1\nOrder Total: `5.99\n\n1\nMew ex - 151/165/Near Mint\n"

	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items have sold!",
		Body:    body,
	})

	require.NotNil(t, notice)
	assert.InDelta(t, 5.99, notice.Items[0].OrderTotal, 0.001)
}

func TestParseNotification_SubjectFallback(t *testing.T) {
	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items of Mew ex - 151/165 have sold!",
		Body:    "Order: X2\nOrder Total: $5.99\nNothing machine readable here.\n",
		Date:    "Sun, 26 Jan 2026 02:19:00 +0000",
	})

	require.NotNil(t, notice)
	require.Len(t, notice.Items, 1)

	item := notice.Items[0]
	assert.Equal(t, "Mew ex #151/165", item.Name)
	assert.Equal(t, 1, item.Qty)
	assert.Equal(t, "Unknown", item.Condition)
	assert.InDelta(t, 5.99, item.SoldPrice, 0.001)
	// No order date in the body, so the email date is used.
	assert.Equal(t, "Sun, 26 Jan 2026 02:19:00 +0000", item.SoldDate)
}

func TestParseNotification_HTMLBody(t *testing.T) {
	body := `<html><body>
<p>Order: HTML-1</p>
<p>Order Total: $3.50</p>
<p>1 Dragonite V/Near Mint Holofoil</p>
</body></html>`

	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items have sold!",
		Body:    body,
	})

	require.NotNil(t, notice)
	require.Len(t, notice.Items, 1)
	assert.Equal(t, "Dragonite V", notice.Items[0].Name)
	assert.Equal(t, "HTML-1", notice.Items[0].OrderID)
}

func TestParseNotification_DuplicateProductLines(t *testing.T) {
	body := `
Order: DUP-1
Order Total: $4.00

1
Dragonite V/Near Mint Holofoil
1
Dragonite V/Near Mint Holofoil
`
	notice := ParseNotification(providers.Notification{
		Subject: "Your TCGplayer.com items have sold!",
		Body:    body,
	})

	require.NotNil(t, notice)
	assert.Len(t, notice.Items, 1)
}

func TestParseNotification_NotASaleEmail(t *testing.T) {
	notice := ParseNotification(providers.Notification{
		Subject: "Weekly seller newsletter",
		Body:    "Tips for growing your store.",
	})
	assert.Nil(t, notice)
}

func TestParseNotification_NoProducts(t *testing.T) {
	notice := ParseNotification(providers.Notification{
		Subject: "Your order shipped",
		Body:    "Order: SHIP-1 has shipped.",
	})
	assert.Nil(t, notice)
}
