package dwa

import (
	"fmt"

	"github.com/dwatools/go-dwa/pkg/guid"
)

// ServerError reports an error envelope returned by the DWA server in
// place of a payload.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("DWA server error: %s", e.Message)
}

// NotDocumentError reports an entry-listing operation attempted on a
// resource that is not a document.
type NotDocumentError struct {
	GUID guid.GUID
	Kind NodeKind
}

func (e *NotDocumentError) Error() string {
	return fmt.Sprintf("resource %s is a %s, not a document", e.GUID, e.Kind)
}
