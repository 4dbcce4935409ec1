// Package api is common to the file metadata records and the dataset that owns them.
package api

// Dimension describes a named dimension of a dataset.
type Dimension struct {
	Name      string
	Size      uint64
	Unlimited bool
}

// Variable describes a named variable of a dataset.
type Variable struct {
	Name       string
	Datatype   string
	Dimensions []string
	Attributes map[string]interface{}
}

// Dataset resolves names into dimension and variable metadata.
// It is the owner of the member objects (files) that refer back to it.
type Dataset interface {
	// GetDimension returns the named dimension or an error if it is unknown.
	GetDimension(name string) (*Dimension, error)

	// GetVariable returns the named variable or an error if it is unknown.
	GetVariable(name string) (*Variable, error)
}
