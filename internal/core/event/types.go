package event

// Event types crossing system boundaries. Handles are carried as raw uint64
// so this package stays import-free of the resource package.

// ResourceLoaded fires after a resource is registered in the registry.
type ResourceLoaded struct {
	Handle uint64
	Name   string
	Type   string
}

// ResourceRemoved fires after a resource is unloaded and unregistered.
type ResourceRemoved struct {
	Handle uint64
	Name   string
}

// CloseRequested asks the host loop to stop after the current frame.
type CloseRequested struct {
	Reason string
}
