// Package dataset holds the dimensions, variables and files of one conversion
// and resolves names for the files that belong to it.
package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/batchatco/go-native-conform/conform/api"
	"github.com/batchatco/go-native-conform/conform/metadata"
	"github.com/batchatco/go-native-conform/internal"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateDimension = errors.New("duplicate dimension")
	ErrDuplicateVariable  = errors.New("duplicate variable")
	ErrDuplicateFile      = errors.New("duplicate file")
)

var (
	logger = internal.NewLogger("dataset")
)

// Dataset is an in-memory implementation of api.Dataset.
// It is not safe for concurrent modification.
type Dataset struct {
	dimensions map[string]*api.Dimension
	variables  map[string]*api.Variable
	files      map[string]*metadata.File
}

var _ api.Dataset = (*Dataset)(nil)

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		dimensions: map[string]*api.Dimension{},
		variables:  map[string]*api.Variable{},
		files:      map[string]*metadata.File{},
	}
}

// AddDimension adds a dimension to the dataset.
func (ds *Dataset) AddDimension(dim api.Dimension) error {
	if !internal.IsValidNetCDFName(dim.Name) {
		return fmt.Errorf("%w: dimension %q", ErrInvalidName, dim.Name)
	}
	if _, has := ds.dimensions[dim.Name]; has {
		return fmt.Errorf("%w: %q", ErrDuplicateDimension, dim.Name)
	}
	ds.dimensions[dim.Name] = &dim
	logger.Infof("dimension %q size=%d unlimited=%v", dim.Name, dim.Size, dim.Unlimited)
	return nil
}

// AddVariable adds a variable to the dataset.
// The variable's dimensions are not checked against the dataset.
func (ds *Dataset) AddVariable(v api.Variable) error {
	if !internal.IsValidNetCDFName(v.Name) {
		return fmt.Errorf("%w: variable %q", ErrInvalidName, v.Name)
	}
	if _, has := ds.variables[v.Name]; has {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, v.Name)
	}
	if bad := internal.InvalidNetCDFNames(v.Dimensions...); bad != nil {
		logger.Warnf("variable %q refers to invalid dimension names %q", v.Name, bad)
	}
	ds.variables[v.Name] = &v
	logger.Infof("variable %q type=%s dims=%v", v.Name, v.Datatype, v.Dimensions)
	return nil
}

// GetDimension returns the named dimension.
func (ds *Dataset) GetDimension(name string) (*api.Dimension, error) {
	d, has := ds.dimensions[name]
	if !has {
		return nil, fmt.Errorf("%w: dimension %q", ErrNotFound, name)
	}
	return d, nil
}

// GetVariable returns the named variable.
func (ds *Dataset) GetVariable(name string) (*api.Variable, error) {
	v, has := ds.variables[name]
	if !has {
		return nil, fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	return v, nil
}

// NewFile creates file metadata owned by this dataset and registers it.
// Any WithDataset option in opts is overridden.
func (ds *Dataset) NewFile(name string, opts ...metadata.FileOption) (*metadata.File, error) {
	if _, has := ds.files[name]; has {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateFile, name)
	}
	all := make([]metadata.FileOption, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, metadata.WithDataset(ds))
	f, err := metadata.NewFile(name, all...)
	if err != nil {
		return nil, err
	}
	ds.files[name] = f
	return f, nil
}

// GetFile returns the named file and true if found.
func (ds *Dataset) GetFile(name string) (*metadata.File, bool) {
	f, has := ds.files[name]
	return f, has
}

// ListDimensions returns the dimension names, sorted.
func (ds *Dataset) ListDimensions() []string {
	return sortedKeys(ds.dimensions)
}

// ListVariables returns the variable names, sorted.
func (ds *Dataset) ListVariables() []string {
	return sortedKeys(ds.variables)
}

// ListFiles returns the file names, sorted.
func (ds *Dataset) ListFiles() []string {
	return sortedKeys(ds.files)
}

// SetLogLevel sets the logging level to the given level, and returns
// the old level. The lowest level is 0 (no logs at all) and the highest
// level is 3 (errors, warnings and debug messages).
func SetLogLevel(level int) int {
	return logger.SetLogLevelInt(level)
}

func sortedKeys[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
