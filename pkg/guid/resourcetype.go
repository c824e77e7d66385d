package guid

// ResourceType is the semantic kind of a DWA resource, shared by the GUID
// and URN identifier schemes. The single-letter values match the kind
// letter used in the URN text form.
type ResourceType string

const (
	// ResourceTypeModule identifies a module (GUID type code 0x21).
	ResourceTypeModule ResourceType = "M"

	// ResourceTypeObject identifies an object inside a module (GUID type
	// code 0x23).
	ResourceTypeObject ResourceType = "O"

	// ResourceTypeFolder identifies a folder (GUID type code 0x1f with a
	// container key below the project threshold).
	ResourceTypeFolder ResourceType = "F"

	// ResourceTypeProject identifies a project (GUID type code 0x1f with a
	// container key at or above the project threshold).
	ResourceTypeProject ResourceType = "P"
)

// ValidResourceTypes returns all recognized resource types.
func ValidResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceTypeModule,
		ResourceTypeObject,
		ResourceTypeFolder,
		ResourceTypeProject,
	}
}

// IsValid returns true if this is a recognized resource type.
func (rt ResourceType) IsValid() bool {
	switch rt {
	case ResourceTypeModule, ResourceTypeObject, ResourceTypeFolder, ResourceTypeProject:
		return true
	default:
		return false
	}
}

// IsContainer returns true for resource types that own an ordered list of
// children (project, folder, module).
func (rt ResourceType) IsContainer() bool {
	switch rt {
	case ResourceTypeProject, ResourceTypeFolder, ResourceTypeModule:
		return true
	default:
		return false
	}
}

// String returns the single-letter string representation.
func (rt ResourceType) String() string {
	return string(rt)
}
