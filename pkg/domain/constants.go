package domain

// Reserved configuration keywords.
const (
	// KeyRequire names the module a mapping resolves to.
	KeyRequire = "require"
	// KeyModule is reserved for the loaded module. It is never accepted as input.
	KeyModule = "module"
	// KeyOptions holds the arguments passed when the module is callable.
	KeyOptions = "options"
)

// IsReserved reports whether key is one of the reserved keywords.
func IsReserved(key string) bool {
	return key == KeyRequire || key == KeyModule || key == KeyOptions
}
