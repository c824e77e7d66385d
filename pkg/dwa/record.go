package dwa

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/dwatools/go-dwa/pkg/guid"
)

// Known values of the moduleType discriminant field on child records.
// Anything else classifies as KindGeneric; unrecognized discriminants are
// never silently folded into a known kind.
const (
	moduleTypeProject  = "PROJECT"
	moduleTypeDocument = "DOCUMENT"
	moduleTypeFolder   = "FOLDER"
)

// ChildRecord is one server-returned child node from a getChildren call:
// the typed fields the client itself interprets, plus the complete raw
// field map kept verbatim as node metadata.
type ChildRecord struct {
	GUID          guid.GUID
	MainAttribute string
	ModuleType    string

	// Meta is the full record as returned by the server, including the
	// fields above.
	Meta map[string]any
}

// decodeChildRecord extracts the typed head of a raw child record and
// parses its identifier.
func decodeChildRecord(raw map[string]any) (ChildRecord, error) {
	var head struct {
		GUID          string         `mapstructure:"guid"`
		MainAttribute string         `mapstructure:"mainAttribute"`
		ModuleType    string         `mapstructure:"moduleType"`
		Rest          map[string]any `mapstructure:",remain"`
	}
	if err := mapstructure.Decode(raw, &head); err != nil {
		return ChildRecord{}, fmt.Errorf("malformed child record: %w", err)
	}

	g, err := guid.Parse(head.GUID)
	if err != nil {
		return ChildRecord{}, fmt.Errorf("child record %q: %w", head.MainAttribute, err)
	}

	return ChildRecord{
		GUID:          g,
		MainAttribute: head.MainAttribute,
		ModuleType:    head.ModuleType,
		Meta:          raw,
	}, nil
}

func kindForModuleType(moduleType string) NodeKind {
	switch moduleType {
	case moduleTypeProject:
		return KindProject
	case moduleTypeDocument:
		return KindDocument
	case moduleTypeFolder:
		return KindFolder
	default:
		return KindGeneric
	}
}
