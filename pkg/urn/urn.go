// Package urn implements the public URN identifier scheme used by the DWA
// linked-data and query APIs, and its lossless conversion to and from the
// internal GUID scheme.
//
// Text form: "urn:rational::1-<dbid>-<kind>-<rest>" where kind is one of
// P, F, M, O. For objects, rest is "<object number>-<module key>"; for the
// container kinds it is the 8-hex-digit container key. The legacy
// "telelogic" authority is accepted on parse and normalized to "rational"
// on format.
package urn

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dwatools/go-dwa/pkg/guid"
)

var (
	urnPattern  = regexp.MustCompile(`^urn:(?:rational|telelogic)::1-([0-9a-fA-F]{16})-([PFMO])-(.+)$`)
	keyPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}$`)
	dbidPattern = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
)

// URN is the public identifier for a concrete DWA resource. URNs are
// immutable, comparable with ==, and usable as map keys.
//
// The object number and module key are present exactly when the resource
// type is object; the constructors enforce this.
type URN struct {
	dbid      string
	rtype     guid.ResourceType
	key       string
	objectNo  uint64
	moduleKey string
}

// New creates a URN for a project, folder, or module. Use NewObject for
// object URNs.
func New(dbid string, rt guid.ResourceType, key string) (URN, error) {
	if !rt.IsValid() || rt == guid.ResourceTypeObject {
		return URN{}, &guid.WrongKindError{Op: "urn.New", Kind: rt}
	}
	if !dbidPattern.MatchString(dbid) {
		return URN{}, &guid.FormatError{Field: "database ID", Value: dbid}
	}
	if !keyPattern.MatchString(key) {
		return URN{}, &guid.FormatError{Field: "key", Value: key}
	}
	return URN{
		dbid:  strings.ToLower(dbid),
		rtype: rt,
		key:   strings.ToLower(key),
	}, nil
}

// NewObject creates an object URN. The key of an object URN equals the
// key of its owning module.
func NewObject(dbid string, objectNo uint64, moduleKey string) (URN, error) {
	if !dbidPattern.MatchString(dbid) {
		return URN{}, &guid.FormatError{Field: "database ID", Value: dbid}
	}
	if !keyPattern.MatchString(moduleKey) {
		return URN{}, &guid.FormatError{Field: "module key", Value: moduleKey}
	}
	moduleKey = strings.ToLower(moduleKey)
	return URN{
		dbid:      strings.ToLower(dbid),
		rtype:     guid.ResourceTypeObject,
		key:       moduleKey,
		objectNo:  objectNo,
		moduleKey: moduleKey,
	}, nil
}

// Parse parses a URN from its text form.
func Parse(s string) (URN, error) {
	m := urnPattern.FindStringSubmatch(s)
	if m == nil {
		return URN{}, &guid.FormatError{Field: "URN", Value: s}
	}
	dbid, kind, rest := m[1], guid.ResourceType(m[2]), m[3]

	if kind == guid.ResourceTypeObject {
		parts := strings.Split(rest, "-")
		if len(parts) != 2 {
			return URN{}, &guid.FormatError{Field: "URN", Value: s}
		}
		objectNo, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return URN{}, &guid.FormatError{Field: "object number", Value: parts[0]}
		}
		if !keyPattern.MatchString(parts[1]) {
			return URN{}, &guid.FormatError{Field: "module key", Value: parts[1]}
		}
		return NewObject(dbid, objectNo, parts[1])
	}

	if !keyPattern.MatchString(rest) {
		return URN{}, &guid.FormatError{Field: "key", Value: rest}
	}
	return New(dbid, kind, rest)
}

// MustParse parses a URN from string, panicking on error. Intended for
// test fixtures and constants known to be valid.
func MustParse(s string) URN {
	u, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("invalid URN: %s: %v", s, err))
	}
	return u
}

// FromGUID converts a GUID to its URN form. The resource type is derived
// from the GUID; a baseline key, if present, is dropped (URNs always
// address the live copy).
func FromGUID(g guid.GUID) (URN, error) {
	rt, err := g.ResourceType()
	if err != nil {
		return URN{}, err
	}
	if rt == guid.ResourceTypeObject {
		return NewObject(g.DBID(), uint64(g.ObjectNumber()), g.ContainerKey())
	}
	return New(g.DBID(), rt, g.ContainerKey())
}

// ToGUID converts a URN to its GUID form (no baseline key).
//
// The conversion trusts the URN's asserted resource type: a folder URN
// whose key sits above the project threshold still converts as a folder,
// and deriving the resource type from the resulting GUID may then
// disagree. Enforcing consistency here would reject identifiers the
// server itself hands out, so the trust boundary stays with the caller.
func (u URN) ToGUID() (guid.GUID, error) {
	switch u.rtype {
	case guid.ResourceTypeObject:
		if u.objectNo > uint64(guid.NoObject) {
			return guid.GUID{}, &guid.FormatError{
				Field: "object number",
				Value: strconv.FormatUint(u.objectNo, 10),
			}
		}
		return guid.New(u.dbid, "23", "21"+u.moduleKey, fmt.Sprintf("28%08x", u.objectNo), guid.BaselineKey{})
	case guid.ResourceTypeModule:
		return guid.New(u.dbid, "21", "21"+u.key, "28ffffffff", guid.BaselineKey{})
	case guid.ResourceTypeProject, guid.ResourceTypeFolder:
		return guid.New(u.dbid, "1f", "1f"+u.key, "28ffffffff", guid.BaselineKey{})
	default:
		return guid.GUID{}, &guid.WrongKindError{Op: "urn.ToGUID", Kind: u.rtype}
	}
}

// ModuleURN returns the module URN owning this object URN: same database
// ID, with the object's module key as the module key.
func (u URN) ModuleURN() (URN, error) {
	if u.rtype != guid.ResourceTypeObject {
		return URN{}, &guid.WrongKindError{Op: "urn.ModuleURN", Kind: u.rtype}
	}
	return New(u.dbid, guid.ResourceTypeModule, u.moduleKey)
}

// DBID returns the 16-hex-digit, lowercase database ID.
func (u URN) DBID() string {
	return u.dbid
}

// ResourceType returns the resource type asserted by the URN.
func (u URN) ResourceType() guid.ResourceType {
	return u.rtype
}

// Key returns the 8-hex-digit container key: the project, folder, or
// module key, or the owning module's key for object URNs.
func (u URN) Key() string {
	return u.key
}

// IsObject returns true for object URNs.
func (u URN) IsObject() bool {
	return u.rtype == guid.ResourceTypeObject
}

// ObjectNumber returns the object number. It is meaningful only for
// object URNs; check IsObject first.
func (u URN) ObjectNumber() uint64 {
	return u.objectNo
}

// ModuleKey returns the owning module's key for object URNs, or "" for
// the container kinds.
func (u URN) ModuleKey() string {
	return u.moduleKey
}

// IsZero returns true for the zero URN.
func (u URN) IsZero() bool {
	return u == URN{}
}

// Equal returns true if two URNs are structurally equal.
func (u URN) Equal(other URN) bool {
	return u == other
}

// String returns the canonical text form, always under the "rational"
// authority.
func (u URN) String() string {
	if u.IsZero() {
		return ""
	}
	base := fmt.Sprintf("urn:rational::1-%s-%s-", u.dbid, u.rtype)
	if u.rtype == guid.ResourceTypeObject {
		return fmt.Sprintf("%s%d-%s", base, u.objectNo, u.moduleKey)
	}
	return base + u.key
}

// MarshalJSON implements json.Marshaler. URNs serialize as their text
// form; the zero URN serializes as null.
func (u URN) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *URN) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = URN{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("URN must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
