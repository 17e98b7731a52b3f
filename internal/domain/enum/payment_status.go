package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents how much of an invoice has been paid
type PaymentStatus int

const (
	PaymentStatusPending PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
	PaymentStatusPaid    PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	names := [...]string{"pending", "partial", "paid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "pending"
	}
	return names[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = PaymentStatusPending
	case "partial":
		*s = PaymentStatusPartial
	case "paid":
		*s = PaymentStatusPaid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int32:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
