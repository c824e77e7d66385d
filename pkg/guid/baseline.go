package guid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type baselineForm int

const (
	baselineNone baselineForm = iota
	baselineLegacy
	baselineModern
)

// BaselineKey identifies a historical snapshot (baseline) of a resource,
// as opposed to the live working copy. The zero value means "no baseline
// suffix present".
//
// Two text forms exist:
//   - Legacy: "ffXXXXXXXX", where XXXXXXXX is the baseline number in hex.
//   - Modern: "{id,epoch}", where id is the baseline ID ("null" for the
//     live copy) and epoch is a UNIX timestamp. "{null,0}" denotes the
//     live working copy.
type BaselineKey struct {
	form  baselineForm
	id    string
	epoch uint64
}

// LegacyBaselineKey creates a legacy-form baseline key. The hex number is
// kept verbatim; the legacy path performs no length validation, matching
// server behavior.
func LegacyBaselineKey(hexNumber string) BaselineKey {
	return BaselineKey{form: baselineLegacy, id: hexNumber}
}

// ModernBaselineKey creates a modern-form baseline key. Use id "null" and
// epoch 0 for the live working copy.
func ModernBaselineKey(id string, epoch uint64) BaselineKey {
	return BaselineKey{form: baselineModern, id: id, epoch: epoch}
}

// LiveCopy returns the modern-form key denoting the live working copy,
// "{null,0}".
func LiveCopy() BaselineKey {
	return ModernBaselineKey("null", 0)
}

// ParseBaselineKey parses a baseline key from its text form.
func ParseBaselineKey(s string) (BaselineKey, error) {
	switch {
	case strings.HasPrefix(s, "ff"):
		return LegacyBaselineKey(s[2:]), nil
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		parts := strings.Split(s[1:len(s)-1], ",")
		if len(parts) != 2 {
			return BaselineKey{}, &FormatError{Field: "baseline key", Value: s}
		}
		epoch, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return BaselineKey{}, &FormatError{Field: "baseline epoch", Value: parts[1]}
		}
		return ModernBaselineKey(parts[0], epoch), nil
	default:
		return BaselineKey{}, &FormatError{Field: "baseline key", Value: s}
	}
}

// IsZero returns true if no baseline key is present.
func (b BaselineKey) IsZero() bool {
	return b.form == baselineNone
}

// IsLegacy returns true for legacy-form ("ff...") keys.
func (b BaselineKey) IsLegacy() bool {
	return b.form == baselineLegacy
}

// IsLive returns true for the modern "{null,0}" key, which denotes the
// live working copy rather than a baseline.
func (b BaselineKey) IsLive() bool {
	return b.form == baselineModern && b.id == "null" && b.epoch == 0
}

// ID returns the baseline identifier: the hex number for legacy keys, or
// the baseline ID ("null" for the live copy) for modern keys.
func (b BaselineKey) ID() string {
	return b.id
}

// Epoch returns the UNIX timestamp of a modern-form key. It is zero for
// legacy keys and the live copy.
func (b BaselineKey) Epoch() uint64 {
	return b.epoch
}

// Equal returns true if two baseline keys are structurally equal.
func (b BaselineKey) Equal(other BaselineKey) bool {
	return b == other
}

// String returns the text form, the exact inverse of ParseBaselineKey.
// The zero value formats as "".
func (b BaselineKey) String() string {
	switch b.form {
	case baselineLegacy:
		return "ff" + b.id
	case baselineModern:
		return fmt.Sprintf("{%s,%d}", b.id, b.epoch)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler. Baseline keys serialize as their
// text form; the zero value serializes as null.
func (b BaselineKey) MarshalJSON() ([]byte, error) {
	if b.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BaselineKey) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = BaselineKey{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("baseline key must be a string: %w", err)
	}
	parsed, err := ParseBaselineKey(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
