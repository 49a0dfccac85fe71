package models

// Appointment is a single booked slot awaiting a reminder.
// Stored under appointments/{shopId}/{date}/{appointmentId}.
type Appointment struct {
	Name              string `json:"name"`                        // Client display name
	Phone             string `json:"phone"`                       // Raw or canonicalized phone string
	Time              string `json:"time"`                        // Appointment time label, e.g. "14:30" (not parsed)
	Sent              bool   `json:"sent"`                        // True once a reminder was delivered to the gateway
	ProviderMessageID string `json:"providerMessageId,omitempty"` // Gateway delivery id of the sent reminder
	SentAt            string `json:"sentAt,omitempty"`            // RFC 3339 timestamp of the send
}

// ShopInfo holds the tenant's display fields, stored under shops/{shopId}/info.
type ShopInfo struct {
	Name string `json:"name"` // Barber display name used in templates
}

// ShopUsage is one row of the admin usage report.
type ShopUsage struct {
	ShopID    string `json:"shopId"`
	ShopName  string `json:"shopName"`
	TotalSent int64  `json:"totalSent"`
}
