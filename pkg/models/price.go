package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a money amount that tolerates the shapes the storefront client
// actually sends: a JSON number, a numeric string, or an object carrying a
// "value" or "price" field. Anything else decodes to zero. Coercion happens
// here, once, so everything downstream works with a plain number.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = 0
		return nil
	}
	*p = Price(coercePrice(raw))
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// Scan implements sql.Scanner so Price columns (NUMERIC) read back directly.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = 0
		return nil
	case int64:
		*p = Price(v)
		return nil
	case float64:
		*p = Price(v)
		return nil
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("failed to scan price %q: %w", v, err)
		}
		*p = Price(f)
		return nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("failed to scan price %q: %w", v, err)
		}
		*p = Price(f)
		return nil
	default:
		return fmt.Errorf("unsupported price scan type %T", src)
	}
}

func (p Price) Value() (driver.Value, error) {
	return float64(p), nil
}

// Float64 returns the plain numeric value.
func (p Price) Float64() float64 {
	return float64(p)
}

// NormalizePrice coerces a decoded JSON value of unknown shape into a finite
// number. Numbers pass through unchanged, numeric strings are parsed,
// objects fall back from "value" to "price", everything else becomes zero.
func NormalizePrice(v interface{}) float64 {
	return coercePrice(v)
}

func coercePrice(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case map[string]interface{}:
		if inner, ok := val["value"]; ok {
			return coercePrice(inner)
		}
		if inner, ok := val["price"]; ok {
			return coercePrice(inner)
		}
		return 0
	default:
		// null, booleans, arrays and anything unexpected
		return 0
	}
}
