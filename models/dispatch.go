package models

// DispatchRequest triggers one reminder batch for a shop and date.
type DispatchRequest struct {
	ShopID   string `json:"shopId"`
	Date     string `json:"date"`               // "YYYY-MM-DD"
	Template string `json:"template,omitempty"` // Overrides the configured default when set
}

// DispatchResult summarizes one batch. It is returned to the caller and
// never persisted.
type DispatchResult struct {
	Attempted int    `json:"attempted"` // Appointments considered, including skips
	Sent      int    `json:"sent"`      // Reminders delivered to the gateway this batch
	Skipped   int    `json:"skipped"`   // Already sent, invalid, or failed appointments
	Status    string `json:"status"`
}

// DispatchPayload is the queued form of a dispatch request for the
// scheduled-reminder worker.
type DispatchPayload struct {
	ShopID   string `json:"shopId"`
	Date     string `json:"date"`
	Template string `json:"template,omitempty"`
}
