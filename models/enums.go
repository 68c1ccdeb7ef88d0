package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "Credit Card"
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodDebitCard  PaymentMethod = "Debit Card"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "Delivery"
	DeliveryTypePickup   DeliveryType = "Pickup"
)

// SearchField restricts customer search to one column group.
type SearchField string

const (
	SearchFieldName    SearchField = "Name"
	SearchFieldEmail   SearchField = "Email"
	SearchFieldPhone   SearchField = "Phone"
	SearchFieldAddress SearchField = "Address"
	SearchFieldCity    SearchField = "City"
	SearchFieldState   SearchField = "State"
)

var searchFields = map[string]SearchField{
	"Name":    SearchFieldName,
	"Email":   SearchFieldEmail,
	"Phone":   SearchFieldPhone,
	"Address": SearchFieldAddress,
	"City":    SearchFieldCity,
	"State":   SearchFieldState,
}

func ParseSearchField(str string) (SearchField, error) {
	v, ok := searchFields[str]
	if !ok {
		return "", errors.New("invalid search field")
	}
	return v, nil
}

func (f *SearchField) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("search field must be string")
	}
	v, perr := ParseSearchField(str)
	if perr != nil {
		return perr
	}
	*f = v
	return nil
}

// DateString carries a caller-supplied date boundary. It unmarshals from
// "2006-01-02" or "2006-01-02T15:04:05" and is widened to a day boundary
// before being bound into report SQL.
type DateString time.Time

func (t DateString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).Format("2006-01-02T15:04:05"))), nil
}

func (t *DateString) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("DateString must be string")
	}
	parsed, perr := ParseDateString(str)
	if perr != nil {
		return perr
	}
	*t = *parsed
	return nil
}

func ParseDateString(str string) (*DateString, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if localTime, err := time.Parse(layout, str); err == nil {
			d := DateString(localTime)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("error parsing date %q", str)
}

func (t DateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

func (t *DateString) StartOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	location, err := loadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		0, 0, 0, 0,
		location,
	)
	*t = DateString(localTimeInZone.In(time.UTC))
	return nil
}

func (t *DateString) EndOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	location, err := loadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		23, 59, 59, 999,
		location,
	)
	*t = DateString(localTimeInZone.In(time.UTC))
	return nil
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(timezone)
}

// DateTime scans timestamp-ish values coming back from aggregate columns.
// MySQL (parseTime=true) hands us time.Time; SQLite hands expression
// results (MAX(order_date), DATE(order_date)) back as text.
type DateTime time.Time

func (t *DateTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		*t = DateTime(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}

func (t *DateTime) parse(s string) error {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		"2006-01-02",
	} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = DateTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("error parsing datetime %q", s)
}

func (t DateTime) Value() (driver.Value, error) {
	return time.Time(t), nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).UTC().Format("2006-01-02 15:04:05"))), nil
}

func (t DateTime) Time() time.Time {
	return time.Time(t)
}
