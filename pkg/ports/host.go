package ports

import "context"

// Host resolves and loads modules on behalf of the loader.
// It is the seam between the resolution core and wherever modules live
// (a registry, the file system, a document vault, Redis).
type Host interface {
	// Resolve performs a package-style lookup of name, relative to baseDir.
	// It returns the location to pass to Load, or an error wrapping
	// domain.ErrModuleNotFound when the host does not know the name.
	Resolve(name, baseDir string) (string, error)

	// Load returns the value exported at location.
	// Hosts may cache and return the same instance on every call; callers
	// must treat it as read-only.
	// An error wrapping domain.ErrModuleNotFound means the location is not
	// served by this host; any other error is a load failure.
	Load(ctx context.Context, location string) (any, error)
}

// Lister is implemented by hosts that can enumerate the names they resolve.
// It is used for introspection (e.g. 'graft modules').
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
