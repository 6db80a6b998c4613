package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TargetKind identifies which kind of marketing artifact an audit points at
type TargetKind string

const (
	TargetKindStorefront TargetKind = "storefront"
	TargetKindCampaign   TargetKind = "campaign"
	TargetKindProduct    TargetKind = "product"
)

// String returns the string representation of the target kind
func (k TargetKind) String() string {
	return string(k)
}

// Valid checks if the target kind is valid
func (k TargetKind) Valid() bool {
	switch k {
	case TargetKindStorefront, TargetKindCampaign, TargetKindProduct:
		return true
	default:
		return false
	}
}

// StringList is a JSON-encoded list of strings stored in a jsonb column
type StringList []string

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(bytes, l)
}
