package guid

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoObject is the sentinel object number carried by GUIDs that do not
// address an individual object (modules, folders, projects).
const NoObject uint32 = 0xffffffff

// DefaultProjectThreshold is the container-key boundary separating folders
// from projects for type code 1f. Keys at or above the threshold are
// projects. The value is empirical, not a guaranteed server invariant;
// use ResourceTypeAt to override it.
const DefaultProjectThreshold uint64 = 0x1000

var (
	dbidPattern      = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
	typeCodePattern  = regexp.MustCompile(`^[0-9a-fA-F]{2}$`)
	parentKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{10}$`)
	objectKeyPattern = regexp.MustCompile(`^28[0-9a-fA-F]{8}$`)
)

// GUID is the compact, colon-delimited identifier used by the server's
// internal tree APIs.
//
// Text form: "AB:<dbid>:<typecode>:<parentkey>:<objectkey>[:<baseline>]"
// with a 16-hex-digit database ID, 2-hex-digit type code, 10-hex-digit
// parent key, 10-hex-digit object key (always prefixed "28"), and an
// optional baseline key suffix.
//
// GUIDs are immutable, comparable with ==, and usable as map keys. All
// hex fields are canonicalized to lowercase; input is case-insensitive.
type GUID struct {
	dbid      string
	typeCode  string
	parentKey string
	objectKey string
	baseline  BaselineKey
}

// New creates a GUID from its components, validating each against its
// fixed-width hex pattern. Pass a zero BaselineKey for no baseline.
func New(dbid, typeCode, parentKey, objectKey string, baseline BaselineKey) (GUID, error) {
	if !dbidPattern.MatchString(dbid) {
		return GUID{}, &FormatError{Field: "database ID", Value: dbid}
	}
	if !typeCodePattern.MatchString(typeCode) {
		return GUID{}, &FormatError{Field: "type code", Value: typeCode}
	}
	if !parentKeyPattern.MatchString(parentKey) {
		return GUID{}, &FormatError{Field: "parent key", Value: parentKey}
	}
	if !objectKeyPattern.MatchString(objectKey) {
		return GUID{}, &FormatError{Field: "object key", Value: objectKey}
	}
	return GUID{
		dbid:      strings.ToLower(dbid),
		typeCode:  strings.ToLower(typeCode),
		parentKey: strings.ToLower(parentKey),
		objectKey: strings.ToLower(objectKey),
		baseline:  baseline,
	}, nil
}

// Parse parses a GUID from its text form.
func Parse(s string) (GUID, error) {
	parts := strings.Split(s, ":")
	if parts[0] != "AB" || len(parts) < 5 || len(parts) > 6 {
		return GUID{}, &FormatError{Field: "GUID", Value: s}
	}

	var baseline BaselineKey
	if len(parts) == 6 {
		var err error
		baseline, err = ParseBaselineKey(parts[5])
		if err != nil {
			return GUID{}, err
		}
	}

	return New(parts[1], parts[2], parts[3], parts[4], baseline)
}

// MustParse parses a GUID from string, panicking on error. Intended for
// test fixtures and constants known to be valid.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("invalid GUID: %s: %v", s, err))
	}
	return g
}

// DBID returns the 16-hex-digit, lowercase database ID.
func (g GUID) DBID() string {
	return g.dbid
}

// TypeCode returns the raw 2-hex-digit type code. Use ResourceType for
// the semantic kind.
func (g GUID) TypeCode() string {
	return g.typeCode
}

// ParentKey returns the 10-hex-digit parent key.
func (g GUID) ParentKey() string {
	return g.parentKey
}

// ObjectKey returns the 10-hex-digit object key starting with "28". Use
// ObjectNumber for the numeric object ID.
func (g GUID) ObjectKey() string {
	return g.objectKey
}

// BaselineKey returns the baseline key, or the zero BaselineKey if the
// GUID has no baseline suffix.
func (g GUID) BaselineKey() BaselineKey {
	return g.baseline
}

// ContainerKey returns the trailing 8 hex digits of the parent key: the
// module key for modules and objects, the folder or project key otherwise.
func (g GUID) ContainerKey() string {
	if len(g.parentKey) < 8 {
		return ""
	}
	return g.parentKey[len(g.parentKey)-8:]
}

// ObjectNumber returns the trailing 8 hex digits of the object key as an
// unsigned 32-bit integer. It is defined for every GUID and returns the
// NoObject sentinel for non-object kinds; callers that care about the
// distinction must check the resource type first.
func (g GUID) ObjectNumber() uint32 {
	if len(g.objectKey) < 10 {
		return NoObject
	}
	n, err := strconv.ParseUint(g.objectKey[2:], 16, 32)
	if err != nil {
		return NoObject
	}
	return uint32(n)
}

// ResourceType returns the semantic resource type inferred from the type
// code, using DefaultProjectThreshold to split folders from projects.
func (g GUID) ResourceType() (ResourceType, error) {
	return g.ResourceTypeAt(DefaultProjectThreshold)
}

// ResourceTypeAt is ResourceType with an explicit folder/project boundary,
// for deployments where the empirical default threshold does not hold.
func (g GUID) ResourceTypeAt(projectThreshold uint64) (ResourceType, error) {
	switch g.typeCode {
	case "21":
		return ResourceTypeModule, nil
	case "23":
		return ResourceTypeObject, nil
	case "1f":
		key, err := strconv.ParseUint(g.ContainerKey(), 16, 64)
		if err != nil {
			return "", &FormatError{Field: "parent key", Value: g.parentKey}
		}
		if key >= projectThreshold {
			return ResourceTypeProject, nil
		}
		return ResourceTypeFolder, nil
	default:
		return "", &UnknownTypeCodeError{TypeCode: g.typeCode}
	}
}

// IsZero returns true for the zero GUID.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// Equal returns true if two GUIDs are structurally equal, baseline key
// included.
func (g GUID) Equal(other GUID) bool {
	return g == other
}

// String returns the text form, the exact inverse of Parse for canonical
// (lowercase) input.
func (g GUID) String() string {
	if g.IsZero() {
		return ""
	}
	s := fmt.Sprintf("AB:%s:%s:%s:%s", g.dbid, g.typeCode, g.parentKey, g.objectKey)
	if !g.baseline.IsZero() {
		s += ":" + g.baseline.String()
	}
	return s
}

// MarshalJSON implements json.Marshaler. GUIDs serialize as their text
// form; the zero GUID serializes as null.
func (g GUID) MarshalJSON() ([]byte, error) {
	if g.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(g.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *GUID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = GUID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("GUID must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
