package models

import (
	"database/sql/driver"
	"encoding/json"
)

// UintList stores a list of ids as a jsonb column.
type UintList []uint

// Value implements the driver.Valuer interface
func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]uint{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *UintList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// ActionList stores a payment's planned postings as a jsonb column.
type ActionList []PaymentAction

// Value implements the driver.Valuer interface
func (l ActionList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]PaymentAction{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *ActionList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}
