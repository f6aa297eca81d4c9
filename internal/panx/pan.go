// Package panx handles PAN identifiers: format validation, case
// normalization, and the Card type that absorbs the legacy bare-string
// storage shape.
package panx

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/panvault/internal/common"
)

// panPattern matches a normalized PAN: five letters, four digits, one letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// UnknownHolder is the holder name assigned to entries migrated from the
// legacy bare-string shape, which carried no name.
const UnknownHolder = "Unknown"

// Normalize trims surrounding whitespace and upper-cases the value.
// It does not validate.
func Normalize(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

// Validate checks a normalized PAN against the required 10-character format.
// Returns common.ErrorInvalidPAN on mismatch.
func Validate(pan string) error {
	if !panPattern.MatchString(pan) {
		return common.ErrorInvalidPAN
	}
	return nil
}

// Card is a PAN plus an optional holder name.
//
// Two persisted shapes exist and both must load: the current structured
// object {"pan": ..., "name": ...} and the legacy bare string. UnmarshalJSON
// is the single normalization point; after decoding, callers only ever see
// the structured shape.
type Card struct {
	Value      string `json:"pan"`
	HolderName string `json:"name"`
}

func (c *Card) UnmarshalJSON(data []byte) error {
	// legacy shape: a bare JSON string
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		c.Value = legacy
		c.HolderName = UnknownHolder
		return nil
	}

	type alias Card
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Card(a)
	if c.HolderName == "" {
		c.HolderName = UnknownHolder
	}
	return nil
}
