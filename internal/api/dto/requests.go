package dto

// StartSyncRequest is the request body for starting a sync. An empty
// body is accepted and means a full live sync.
type StartSyncRequest struct {
	DryRun bool `json:"dry_run"`
}

// PendingSaleRequest is the body for manually recording a sale.
type PendingSaleRequest struct {
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Condition  string  `json:"condition"`
	SoldPrice  float64 `json:"sold_price"`
	Cost       float64 `json:"cost"`
	Platform   string  `json:"platform"`
	OrderID    string  `json:"order_id"`
	OrderTotal float64 `json:"order_total"`
	SoldDate   string  `json:"sold_date"`
	SetName    string  `json:"set_name"`
	CardNumber string  `json:"card_number"`
}

// UpdatePendingRequest carries edits to a pending sale. Only fields
// present in the body are applied.
type UpdatePendingRequest struct {
	Name      *string  `json:"name"`
	Qty       *int     `json:"qty"`
	SoldPrice *float64 `json:"sold_price"`
	Cost      *float64 `json:"cost"`
	Platform  *string  `json:"platform"`
	SoldDate  *string  `json:"sold_date"`
}

// ConfirmSaleRequest is the body for confirming a pending sale.
type ConfirmSaleRequest struct {
	UpdateInventory bool `json:"update_inventory"`
}
