package setting

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// ValueType defines the type of a setting value
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeInt     ValueType = "int"
	ValueTypeBool    ValueType = "bool"
	ValueTypeDecimal ValueType = "decimal"
)

// SystemSetting represents a system configuration setting
type SystemSetting struct {
	id          uint
	category    string // Setting category (e.g., "business")
	key         string // Setting key within category
	value       string // Stored as string, parsed based on valueType
	valueType   ValueType
	description string
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSystemSetting creates a new system setting
func NewSystemSetting(category, key string, valueType ValueType, description string) (*SystemSetting, error) {
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidSettingKey)
	}
	if !isValidValueType(valueType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValueType, valueType)
	}

	now := biztime.NowUTC()
	return &SystemSetting{
		category:    category,
		key:         key,
		valueType:   valueType,
		description: description,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSystemSetting reconstructs a SystemSetting from persistence layer
func ReconstructSystemSetting(
	id uint,
	category, key, value string,
	valueType ValueType,
	description string,
	version int,
	createdAt, updatedAt time.Time,
) *SystemSetting {
	return &SystemSetting{
		id:          id,
		category:    category,
		key:         key,
		value:       value,
		valueType:   valueType,
		description: description,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters
func (s *SystemSetting) ID() uint             { return s.id }
func (s *SystemSetting) Category() string     { return s.category }
func (s *SystemSetting) Key() string          { return s.key }
func (s *SystemSetting) Value() string        { return s.value }
func (s *SystemSetting) ValueType() ValueType { return s.valueType }
func (s *SystemSetting) Description() string  { return s.description }
func (s *SystemSetting) Version() int         { return s.version }
func (s *SystemSetting) CreatedAt() time.Time { return s.createdAt }
func (s *SystemSetting) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the setting ID (only for persistence layer use)
func (s *SystemSetting) SetID(id uint) {
	s.id = id
}

// HasValue checks if the setting has a non-empty value
func (s *SystemSetting) HasValue() bool {
	return s.value != ""
}

func (s *SystemSetting) GetIntValue() (int, error) {
	if s.value == "" {
		return 0, nil
	}
	return strconv.Atoi(s.value)
}

func (s *SystemSetting) GetBoolValue() (bool, error) {
	if s.value == "" {
		return false, nil
	}
	return strconv.ParseBool(s.value)
}

func (s *SystemSetting) GetDecimalValue() (decimal.Decimal, error) {
	if s.value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.value)
}

// SetValue stores raw after checking it parses as the declared type.
func (s *SystemSetting) SetValue(raw string) error {
	var err error
	switch s.valueType {
	case ValueTypeInt:
		_, err = strconv.Atoi(raw)
	case ValueTypeBool:
		_, err = strconv.ParseBool(raw)
	case ValueTypeDecimal:
		_, err = decimal.NewFromString(raw)
	}
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValueType, raw, s.valueType)
	}

	s.value = raw
	s.version++
	s.updatedAt = biztime.NowUTC()
	return nil
}

func isValidValueType(vt ValueType) bool {
	switch vt {
	case ValueTypeString, ValueTypeInt, ValueTypeBool, ValueTypeDecimal:
		return true
	default:
		return false
	}
}
