// Code generated by "enumer -type=AuditActionType -trimprefix=AuditAction -transform=snake -sql -json -text"; DO NOT EDIT.

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const _AuditActionTypeName = "approveddeclined"

var _AuditActionTypeIndex = [...]uint8{0, 8, 16}

const _AuditActionTypeLowerName = "approveddeclined"

func (i AuditActionType) String() string {
	if i < 0 || i >= AuditActionType(len(_AuditActionTypeIndex)-1) {
		return fmt.Sprintf("AuditActionType(%d)", i)
	}
	return _AuditActionTypeName[_AuditActionTypeIndex[i]:_AuditActionTypeIndex[i+1]]
}

// An "invalid array index" compiler error signifies that the constant values have changed.
// Re-run the stringer command to generate them again.
func _AuditActionTypeNoOp() {
	var x [1]struct{}
	_ = x[AuditActionApproved-(0)]
	_ = x[AuditActionDeclined-(1)]
}

var _AuditActionTypeValues = []AuditActionType{AuditActionApproved, AuditActionDeclined}

var _AuditActionTypeNameToValueMap = map[string]AuditActionType{
	_AuditActionTypeName[0:8]:       AuditActionApproved,
	_AuditActionTypeLowerName[0:8]:  AuditActionApproved,
	_AuditActionTypeName[8:16]:      AuditActionDeclined,
	_AuditActionTypeLowerName[8:16]: AuditActionDeclined,
}

var _AuditActionTypeNames = []string{
	_AuditActionTypeName[0:8],
	_AuditActionTypeName[8:16],
}

// AuditActionTypeString retrieves an enum value from the enum constants string name.
// Throws an error if the param is not part of the enum.
func AuditActionTypeString(s string) (AuditActionType, error) {
	if val, ok := _AuditActionTypeNameToValueMap[s]; ok {
		return val, nil
	}

	if val, ok := _AuditActionTypeNameToValueMap[strings.ToLower(s)]; ok {
		return val, nil
	}
	return 0, fmt.Errorf("%s does not belong to AuditActionType values", s)
}

// AuditActionTypeValues returns all values of the enum
func AuditActionTypeValues() []AuditActionType {
	return _AuditActionTypeValues
}

// AuditActionTypeStrings returns a slice of all String values of the enum
func AuditActionTypeStrings() []string {
	strs := make([]string, len(_AuditActionTypeNames))
	copy(strs, _AuditActionTypeNames)
	return strs
}

// IsAAuditActionType returns "true" if the value is listed in the enum definition. "false" otherwise
func (i AuditActionType) IsAAuditActionType() bool {
	for _, v := range _AuditActionTypeValues {
		if i == v {
			return true
		}
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface for AuditActionType
func (i AuditActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for AuditActionType
func (i *AuditActionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("AuditActionType should be a string, got %s", data)
	}

	var err error
	*i, err = AuditActionTypeString(s)
	return err
}

// MarshalText implements the encoding.TextMarshaler interface for AuditActionType
func (i AuditActionType) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface for AuditActionType
func (i *AuditActionType) UnmarshalText(text []byte) error {
	var err error
	*i, err = AuditActionTypeString(string(text))
	return err
}

func (i AuditActionType) Value() (driver.Value, error) {
	return i.String(), nil
}

func (i *AuditActionType) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	case fmt.Stringer:
		str = v.String()
	default:
		return fmt.Errorf("invalid value of AuditActionType: %[1]T(%[1]v)", value)
	}

	val, err := AuditActionTypeString(str)
	if err != nil {
		return err
	}

	*i = val
	return nil
}
