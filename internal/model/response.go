package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ResponseStatus string

const (
	ResponsePending   ResponseStatus = "Pending"
	ResponseCompleted ResponseStatus = "Completed"
	ResponsePartial   ResponseStatus = "Partial"
	ResponseFailed    ResponseStatus = "Failed"
)

func (s ResponseStatus) String() string {
	return string(s)
}

func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponsePending, ResponseCompleted, ResponsePartial, ResponseFailed:
		return true
	default:
		return false
	}
}

// FormData is the vendor-submitted answer payload, stored as a JSON column.
// A freshly dispatched notification always starts with an empty map; the
// response-collection flow fills it in later.
type FormData map[string]any

func (f FormData) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}

	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}

	return b, nil
}

func (f *FormData) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		if len(s) == 0 {
			*f = nil
			return nil
		}
		return json.Unmarshal(s, f)
	case string:
		if s == "" {
			*f = nil
			return nil
		}
		return json.Unmarshal([]byte(s), f)
	default:
		return fmt.Errorf("unsupported form data source type %T", src)
	}
}

// ResponseRecord tracks the expected vendor response for one
// (campaign, vendor) pair. The pair is unique; re-dispatching the same pair
// overwrites the row in place.
type ResponseRecord struct {
	ID          string         `db:"id"              json:"id"`
	CampaignID  string         `db:"campaign_id"     json:"campaign_id"`
	VendorID    string         `db:"vendor_id"       json:"vendor_id"`
	FormData    FormData       `db:"form_data"       json:"form_data"`
	Status      ResponseStatus `db:"response_status" json:"response_status"`
	SubmittedAt *time.Time     `db:"submitted_at"    json:"submitted_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at"      json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"      json:"updated_at"`
}
