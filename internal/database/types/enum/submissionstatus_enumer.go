// Code generated by "enumer -type=SubmissionStatus -trimprefix=SubmissionStatus -transform=snake -sql -json -text"; DO NOT EDIT.

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const _SubmissionStatusName = "newapproveddeclined"

var _SubmissionStatusIndex = [...]uint8{0, 3, 11, 19}

const _SubmissionStatusLowerName = "newapproveddeclined"

func (i SubmissionStatus) String() string {
	if i < 0 || i >= SubmissionStatus(len(_SubmissionStatusIndex)-1) {
		return fmt.Sprintf("SubmissionStatus(%d)", i)
	}
	return _SubmissionStatusName[_SubmissionStatusIndex[i]:_SubmissionStatusIndex[i+1]]
}

// An "invalid array index" compiler error signifies that the constant values have changed.
// Re-run the stringer command to generate them again.
func _SubmissionStatusNoOp() {
	var x [1]struct{}
	_ = x[SubmissionStatusNew-(0)]
	_ = x[SubmissionStatusApproved-(1)]
	_ = x[SubmissionStatusDeclined-(2)]
}

var _SubmissionStatusValues = []SubmissionStatus{SubmissionStatusNew, SubmissionStatusApproved, SubmissionStatusDeclined}

var _SubmissionStatusNameToValueMap = map[string]SubmissionStatus{
	_SubmissionStatusName[0:3]:        SubmissionStatusNew,
	_SubmissionStatusLowerName[0:3]:   SubmissionStatusNew,
	_SubmissionStatusName[3:11]:       SubmissionStatusApproved,
	_SubmissionStatusLowerName[3:11]:  SubmissionStatusApproved,
	_SubmissionStatusName[11:19]:      SubmissionStatusDeclined,
	_SubmissionStatusLowerName[11:19]: SubmissionStatusDeclined,
}

var _SubmissionStatusNames = []string{
	_SubmissionStatusName[0:3],
	_SubmissionStatusName[3:11],
	_SubmissionStatusName[11:19],
}

// SubmissionStatusString retrieves an enum value from the enum constants string name.
// Throws an error if the param is not part of the enum.
func SubmissionStatusString(s string) (SubmissionStatus, error) {
	if val, ok := _SubmissionStatusNameToValueMap[s]; ok {
		return val, nil
	}

	if val, ok := _SubmissionStatusNameToValueMap[strings.ToLower(s)]; ok {
		return val, nil
	}
	return 0, fmt.Errorf("%s does not belong to SubmissionStatus values", s)
}

// SubmissionStatusValues returns all values of the enum
func SubmissionStatusValues() []SubmissionStatus {
	return _SubmissionStatusValues
}

// SubmissionStatusStrings returns a slice of all String values of the enum
func SubmissionStatusStrings() []string {
	strs := make([]string, len(_SubmissionStatusNames))
	copy(strs, _SubmissionStatusNames)
	return strs
}

// IsASubmissionStatus returns "true" if the value is listed in the enum definition. "false" otherwise
func (i SubmissionStatus) IsASubmissionStatus() bool {
	for _, v := range _SubmissionStatusValues {
		if i == v {
			return true
		}
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface for SubmissionStatus
func (i SubmissionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for SubmissionStatus
func (i *SubmissionStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("SubmissionStatus should be a string, got %s", data)
	}

	var err error
	*i, err = SubmissionStatusString(s)
	return err
}

// MarshalText implements the encoding.TextMarshaler interface for SubmissionStatus
func (i SubmissionStatus) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface for SubmissionStatus
func (i *SubmissionStatus) UnmarshalText(text []byte) error {
	var err error
	*i, err = SubmissionStatusString(string(text))
	return err
}

func (i SubmissionStatus) Value() (driver.Value, error) {
	return i.String(), nil
}

func (i *SubmissionStatus) Scan(value interface{}) error {
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
		return fmt.Errorf("invalid value of SubmissionStatus: %[1]T(%[1]v)", value)
	}

	val, err := SubmissionStatusString(str)
	if err != nil {
		return err
	}

	*i = val
	return nil
}
