package dto

// ItemPayload is one line of an incoming order.
type ItemPayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// OrderPayload is the client-supplied order body. All descriptive fields are
// advisory; which ones are present depends on the order type.
type OrderPayload struct {
	OrderType          string        `json:"orderType"`
	CustomerName       string        `json:"customerName"`
	RegistrationNumber string        `json:"registrationNumber"`
	Mobile             string        `json:"mobile"`
	TableNumber        string        `json:"tableNumber"`
	Address            string        `json:"address"`
	Items              []ItemPayload `json:"items"`
}

// CreateIntentRequest asks for a payment intent; amount is in major units.
type CreateIntentRequest struct {
	Amount float64 `json:"amount"`
}

// VerifyAndCreateRequest carries the completed-payment proof plus the order
// to create once the signature checks out.
type VerifyAndCreateRequest struct {
	RazorpayOrderID   string       `json:"razorpay_order_id"`
	RazorpayPaymentID string       `json:"razorpay_payment_id"`
	RazorpaySignature string       `json:"razorpay_signature"`
	OrderPayload      OrderPayload `json:"orderPayload"`
}

// StatusUpdateRequest carries the new status for an order.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
