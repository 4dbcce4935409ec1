// Package metadata describes the files produced or consumed by a conversion:
// their format, compression settings and the variables and dimensions they hold.
package metadata

import (
	"fmt"

	"github.com/batchatco/go-native-conform/conform/api"
	"github.com/batchatco/go-native-conform/internal"
	"github.com/batchatco/go-thrower"
)

const (
	defaultFormat  = FormatNetCDF4Classic
	defaultDeflate = 1
	defaultShuffle = ShuffleOff
)

var (
	logger = internal.NewLogger("metadata")
)

// File is the metadata of a single NetCDF file.
//
// All fields except Path are fixed at construction.
type File struct {
	Member

	// Path is the location of the file on disk, empty until it is set.
	// Callers writing it from more than one goroutine must synchronize.
	Path string

	attributes map[string]interface{}
	format     Format
	deflate    int
	shuffle    Shuffle
	variables  NameSet
	dimensions NameSet
}

type fileConfig struct {
	attributes map[string]interface{}
	format     Format
	deflate    int
	shuffle    Shuffle
	variables  []string
	dimensions []string
	dataset    api.Dataset
}

// FileOption sets an optional field of a File.
type FileOption func(*fileConfig)

// WithFormat sets the file format. The default is NETCDF4_CLASSIC.
func WithFormat(format Format) FileOption {
	return func(c *fileConfig) { c.format = format }
}

// WithDeflate sets the deflate level. The default is 1.
// Any level is accepted.
func WithDeflate(level int) FileOption {
	return func(c *fileConfig) { c.deflate = level }
}

// WithShuffle sets the shuffle flag. The default is "off".
func WithShuffle(shuffle Shuffle) FileOption {
	return func(c *fileConfig) { c.shuffle = shuffle }
}

// WithVariables sets the names of the variables in the file.
func WithVariables(names ...string) FileOption {
	return func(c *fileConfig) { c.variables = names }
}

// WithDimensions sets the names of the dimensions in the file.
func WithDimensions(names ...string) FileOption {
	return func(c *fileConfig) { c.dimensions = names }
}

// WithAttributes sets the global attributes of the file.
func WithAttributes(attributes map[string]interface{}) FileOption {
	return func(c *fileConfig) { c.attributes = attributes }
}

// WithDataset sets the dataset used to resolve variable and dimension names.
func WithDataset(dataset api.Dataset) FileOption {
	return func(c *fileConfig) { c.dataset = dataset }
}

// NewFile validates the options and returns the file metadata.
// On failure, the error is a *FieldError naming the first bad field.
func NewFile(name string, opts ...FileOption) (f *File, err error) {
	defer thrower.RecoverError(&err)
	c := fileConfig{
		format:  defaultFormat,
		deflate: defaultDeflate,
		shuffle: defaultShuffle,
	}
	for _, opt := range opts {
		opt(&c)
	}
	file := &File{Member: Member{name: name, dataset: c.dataset}}
	file.attributes = attributesOrEmpty(c.attributes)
	file.format = file.validateFormat(c.format)
	file.deflate = c.deflate
	file.shuffle = file.validateShuffle(c.shuffle)
	file.variables = NewNameSet(c.variables...)
	file.dimensions = NewNameSet(c.dimensions...)
	logger.Infof("file %q: format=%v deflate=%d shuffle=%s variables=%d dimensions=%d",
		name, file.format, file.deflate, file.shuffle, file.variables.Len(), file.dimensions.Len())
	return file, nil
}

func attributesOrEmpty(attributes map[string]interface{}) map[string]interface{} {
	if attributes == nil {
		return map[string]interface{}{}
	}
	return attributes
}

func (f *File) validateFormat(format Format) Format {
	if !format.Valid() {
		f.fail("format", fmt.Sprintf("format %d is not recognized", int(format)))
	}
	return format
}

func (f *File) validateShuffle(shuffle Shuffle) Shuffle {
	if !shuffle.Valid() {
		f.fail("shuffle", `shuffle must be "on" or "off"`)
	}
	return shuffle
}

func (f *File) fail(field, reason string) {
	logger.Info(f.name, field, reason)
	thrower.Throw(NewFieldError(f.name, field, reason, nil))
}

// Attributes returns the global attributes of the file.
func (f *File) Attributes() map[string]interface{} {
	return f.attributes
}

func (f *File) Format() Format {
	return f.format
}

// IsNetCDF3 returns true if the format is limited to the classic data model.
func (f *File) IsNetCDF3() bool {
	return f.format.Group() == GroupLegacy
}

func (f *File) Deflate() int {
	return f.deflate
}

func (f *File) Shuffle() Shuffle {
	return f.shuffle
}

// Variables returns the names of the variables in the file.
func (f *File) Variables() NameSet {
	return f.variables
}

// Dimensions returns the names of the dimensions in the file.
func (f *File) Dimensions() NameSet {
	return f.dimensions
}

// Coordinates is always empty for files.
func (f *File) Coordinates() NameSet {
	return NameSet{}
}

// GetDimensions asks the dataset for each of the file's dimensions.
// The first lookup error is returned as is.
func (f *File) GetDimensions() (map[string]*api.Dimension, error) {
	if f.dataset == nil {
		return nil, ErrNoDataset
	}
	ret := make(map[string]*api.Dimension, f.dimensions.Len())
	for _, name := range f.dimensions.Names() {
		d, err := f.dataset.GetDimension(name)
		if err != nil {
			return nil, err
		}
		ret[name] = d
	}
	return ret, nil
}

// GetVariables asks the dataset for each of the file's variables.
// The first lookup error is returned as is.
func (f *File) GetVariables() (map[string]*api.Variable, error) {
	if f.dataset == nil {
		return nil, ErrNoDataset
	}
	ret := make(map[string]*api.Variable, f.variables.Len())
	for _, name := range f.variables.Names() {
		v, err := f.dataset.GetVariable(name)
		if err != nil {
			return nil, err
		}
		ret[name] = v
	}
	return ret, nil
}

// SetLogLevel sets the logging level to the given level, and returns
// the old level. The lowest level is 0 (no logs at all) and the highest
// level is 3 (errors, warnings and debug messages).
func SetLogLevel(level int) int {
	return logger.SetLogLevelInt(level)
}
