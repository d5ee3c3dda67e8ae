// Code generated by "enumer -type=AuditSubjectType -trimprefix=AuditSubject -transform=snake -sql -json -text"; DO NOT EDIT.

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const _AuditSubjectTypeName = "submission"

var _AuditSubjectTypeIndex = [...]uint8{0, 10}

const _AuditSubjectTypeLowerName = "submission"

func (i AuditSubjectType) String() string {
	if i < 0 || i >= AuditSubjectType(len(_AuditSubjectTypeIndex)-1) {
		return fmt.Sprintf("AuditSubjectType(%d)", i)
	}
	return _AuditSubjectTypeName[_AuditSubjectTypeIndex[i]:_AuditSubjectTypeIndex[i+1]]
}

// An "invalid array index" compiler error signifies that the constant values have changed.
// Re-run the stringer command to generate them again.
func _AuditSubjectTypeNoOp() {
	var x [1]struct{}
	_ = x[AuditSubjectSubmission-(0)]
}

var _AuditSubjectTypeValues = []AuditSubjectType{AuditSubjectSubmission}

var _AuditSubjectTypeNameToValueMap = map[string]AuditSubjectType{
	_AuditSubjectTypeName[0:10]:      AuditSubjectSubmission,
	_AuditSubjectTypeLowerName[0:10]: AuditSubjectSubmission,
}

var _AuditSubjectTypeNames = []string{
	_AuditSubjectTypeName[0:10],
}

// AuditSubjectTypeString retrieves an enum value from the enum constants string name.
// Throws an error if the param is not part of the enum.
func AuditSubjectTypeString(s string) (AuditSubjectType, error) {
	if val, ok := _AuditSubjectTypeNameToValueMap[s]; ok {
		return val, nil
	}

	if val, ok := _AuditSubjectTypeNameToValueMap[strings.ToLower(s)]; ok {
		return val, nil
	}
	return 0, fmt.Errorf("%s does not belong to AuditSubjectType values", s)
}

// AuditSubjectTypeValues returns all values of the enum
func AuditSubjectTypeValues() []AuditSubjectType {
	return _AuditSubjectTypeValues
}

// AuditSubjectTypeStrings returns a slice of all String values of the enum
func AuditSubjectTypeStrings() []string {
	strs := make([]string, len(_AuditSubjectTypeNames))
	copy(strs, _AuditSubjectTypeNames)
	return strs
}

// IsAAuditSubjectType returns "true" if the value is listed in the enum definition. "false" otherwise
func (i AuditSubjectType) IsAAuditSubjectType() bool {
	for _, v := range _AuditSubjectTypeValues {
		if i == v {
			return true
		}
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface for AuditSubjectType
func (i AuditSubjectType) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for AuditSubjectType
func (i *AuditSubjectType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("AuditSubjectType should be a string, got %s", data)
	}

	var err error
	*i, err = AuditSubjectTypeString(s)
	return err
}

// MarshalText implements the encoding.TextMarshaler interface for AuditSubjectType
func (i AuditSubjectType) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface for AuditSubjectType
func (i *AuditSubjectType) UnmarshalText(text []byte) error {
	var err error
	*i, err = AuditSubjectTypeString(string(text))
	return err
}

func (i AuditSubjectType) Value() (driver.Value, error) {
	return i.String(), nil
}

func (i *AuditSubjectType) Scan(value interface{}) error {
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
		return fmt.Errorf("invalid value of AuditSubjectType: %[1]T(%[1]v)", value)
	}

	val, err := AuditSubjectTypeString(str)
	if err != nil {
		return err
	}

	*i = val
	return nil
}
