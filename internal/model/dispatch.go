package model

// NotificationRequest is the inbound dispatch payload. It lives for the
// duration of one dispatch call and is never persisted as-is. Fields are not
// validated up front: an absent value simply fails downstream (an unknown
// template id, an unroutable phone number).
type NotificationRequest struct {
	CampaignID  string `json:"campaignId"`
	VendorID    string `json:"vendorId"`
	VendorPhone string `json:"vendorPhone"`
	VendorName  string `json:"vendorName"`
	TemplateID  string `json:"templateId"`
}

// DispatchState names the stages a dispatch moves through. Transitions are
// linear; failed is terminal and reachable from any stage.
type DispatchState string

const (
	StateReceived         DispatchState = "received"
	StateTemplateResolved DispatchState = "template_resolved"
	StateRendered         DispatchState = "rendered"
	StateSent             DispatchState = "sent"
	StateRecorded         DispatchState = "recorded"
	StateCompleted        DispatchState = "completed"
	StateFailed           DispatchState = "failed"
)

func (s DispatchState) String() string {
	return string(s)
}

// Terminal reports whether s is an end state. Only terminal states are
// published to the audit log.
func (s DispatchState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// DispatchResult is what a completed dispatch hands back to the caller.
type DispatchResult struct {
	MessageSID string
}
