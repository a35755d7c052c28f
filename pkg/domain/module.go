package domain

// Module is the outcome of loading a reference.
type Module struct {
	// Name is the reference as written in the configuration.
	Name string `json:"name"`
	// Location is where the host found it (a file path, a registry name, a key).
	Location string `json:"location"`
	// Value is what the host returned. It may be a process-wide singleton and
	// must never be mutated.
	Value any `json:"-"`
	// Config is the loaded copy of Value when Name points at a structured
	// configuration file.
	Config *Node `json:"config,omitempty"`
}

// Structured reports whether the module is an embedded configuration file.
func (m *Module) Structured() bool {
	return m != nil && m.Config != nil
}
