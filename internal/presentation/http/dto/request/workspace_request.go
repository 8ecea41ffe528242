package request

// ToggleHeldRequest selects or deselects an unprinted customer tab.
type ToggleHeldRequest struct {
	CustomerCode string `json:"customer_code" binding:"required"`
}

// TogglePrintedRequest selects or deselects a closed bill.
type TogglePrintedRequest struct {
	CustomerCode string `json:"customer_code" binding:"required"`
	BillNo       string `json:"bill_no" binding:"required"`
}

// SetFieldRequest writes one entry form field.
type SetFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SelectCustomerRequest applies a customer picked from the customer list.
type SelectCustomerRequest struct {
	CustomerCode string `json:"customer_code" binding:"required"`
}

// SelectItemRequest applies an item picked from the item list.
type SelectItemRequest struct {
	ItemCode string `json:"item_code" binding:"required"`
}

// AdvanceRequest reports the field focus was in when the advance key was
// pressed.
type AdvanceRequest struct {
	Field string `json:"field" binding:"required"`
}
