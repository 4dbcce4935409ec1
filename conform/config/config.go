// Package config builds file metadata from untyped descriptions, such as
// tables decoded from TOML or JSON, and loads whole datasets from TOML.
//
// This is where the dynamic type checks happen: a deflate level must be an
// integer, variables must be a list of strings, and so on. The metadata
// package itself only sees typed values.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/batchatco/go-native-conform/conform/api"
	"github.com/batchatco/go-native-conform/conform/dataset"
	"github.com/batchatco/go-native-conform/conform/metadata"
	"github.com/batchatco/go-native-conform/internal"
	"github.com/batchatco/go-thrower"
	"github.com/mitchellh/mapstructure"
)

var (
	// ErrUnknownKey is returned for top-level document keys that are not recognized
	ErrUnknownKey = errors.New("unknown key")

	// ErrNotTable is returned when a file description is not a table
	ErrNotTable = errors.New("not a table")

	errNilValue = errors.New("nil value")
)

var (
	logger = internal.NewLogger("config")
)

// File description keys, in validation order.
const (
	keyAttributes = "attributes"
	keyFormat     = "format"
	keyDeflate    = "deflate"
	keyShuffle    = "shuffle"
	keyVariables  = "variables"
	keyDimensions = "dimensions"
)

var fileKeys = map[string]bool{
	keyAttributes: true,
	keyFormat:     true,
	keyDeflate:    true,
	keyShuffle:    true,
	keyVariables:  true,
	keyDimensions: true,
}

type dimensionSpec struct {
	Size      uint64 `mapstructure:"size"`
	Unlimited bool   `mapstructure:"unlimited"`
}

type variableSpec struct {
	Datatype   string                 `mapstructure:"datatype"`
	Dimensions []string               `mapstructure:"dimensions"`
	Attributes map[string]interface{} `mapstructure:"attributes"`
}

// FileOptions checks the types of an untyped file description and converts it
// to file options. Missing keys are left to their defaults.
// Every failure is a *metadata.FieldError naming the file and the key.
func FileOptions(name string, raw map[string]interface{}) (_ []metadata.FileOption, err error) {
	defer thrower.RecoverError(&err)
	var opts []metadata.FileOption
	unknown := []string{}
	for key := range raw {
		if !fileKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		thrower.Throw(metadata.NewFieldError(name, unknown[0],
			fmt.Sprintf("%s is not a file field", unknown[0]), ErrUnknownKey))
	}

	if v, has := raw[keyAttributes]; has {
		var attrs map[string]interface{}
		decodeField(name, keyAttributes, "attributes should be a mapping", v, &attrs)
		opts = append(opts, metadata.WithAttributes(attrs))
	}
	if v, has := raw[keyFormat]; has {
		var tag string
		decodeField(name, keyFormat, fmt.Sprintf("format %v is not recognized", v), v, &tag)
		format, err := metadata.ParseFormat(tag)
		if err != nil {
			thrower.Throw(metadata.NewFieldError(name, keyFormat,
				fmt.Sprintf("format %q is not recognized", tag), err))
		}
		opts = append(opts, metadata.WithFormat(format))
	}
	if v, has := raw[keyDeflate]; has {
		var level int
		decodeField(name, keyDeflate, "deflate level must be an integer", v, &level)
		opts = append(opts, metadata.WithDeflate(level))
	}
	if v, has := raw[keyShuffle]; has {
		var shuffle string
		decodeField(name, keyShuffle, `shuffle must be "on" or "off"`, v, &shuffle)
		opts = append(opts, metadata.WithShuffle(metadata.Shuffle(shuffle)))
	}
	if v, has := raw[keyVariables]; has {
		var names []string
		decodeField(name, keyVariables, "variables must be a list of variable names", v, &names)
		opts = append(opts, metadata.WithVariables(names...))
	}
	if v, has := raw[keyDimensions]; has {
		var names []string
		decodeField(name, keyDimensions, "dimensions must be a list of dimension names", v, &names)
		opts = append(opts, metadata.WithDimensions(names...))
	}
	return opts, nil
}

// decodeField decodes one value of a file description into output,
// throwing a *metadata.FieldError on failure.
func decodeField(file, field, reason string, input interface{}, output interface{}) {
	var err error
	if names, ok := output.(*[]string); ok {
		*names, err = decodeNames(input)
	} else {
		err = decode(input, output)
	}
	if err != nil {
		thrower.Throw(metadata.NewFieldError(file, field, reason, err))
	}
}

// DecodeFile builds file metadata from an untyped description.
// The extra options are applied after the decoded ones.
func DecodeFile(name string, raw map[string]interface{}, extra ...metadata.FileOption) (*metadata.File, error) {
	opts, err := FileOptions(name, raw)
	if err != nil {
		logger.Warn(err)
		return nil, err
	}
	return metadata.NewFile(name, append(opts, extra...)...)
}

// LoadFile loads a dataset from the named TOML file.
func LoadFile(fname string) (*dataset.Dataset, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Load decodes a TOML document into a dataset. The document may hold
// [dimensions.NAME], [variables.NAME] and [files.NAME] tables:
//
//	[dimensions.time]
//	unlimited = true
//
//	[variables.temp]
//	datatype = "float"
//	dimensions = ["time"]
//
//	[files."output.nc"]
//	format = "NETCDF4"
//	variables = ["temp"]
//	dimensions = ["time"]
func Load(r io.Reader) (ds *dataset.Dataset, err error) {
	defer func() {
		if err != nil {
			logger.Errorf("load failed: %v", err)
		}
	}()
	defer thrower.RecoverError(&err)

	var doc map[string]interface{}
	_, err = toml.DecodeReader(r, &doc)
	thrower.ThrowIfError(err)
	for key := range doc {
		switch key {
		case "dimensions", "variables", "files":
		default:
			thrower.Throw(fmt.Errorf("%w: %q", ErrUnknownKey, key))
		}
	}

	loaded := dataset.New()

	var dims map[string]dimensionSpec
	if err := decodeStrict(doc["dimensions"], &dims); err != nil {
		thrower.Throw(fmt.Errorf("dimensions: %w", err))
	}
	for _, name := range sortedKeys(dims) {
		spec := dims[name]
		thrower.ThrowIfError(loaded.AddDimension(api.Dimension{
			Name:      name,
			Size:      spec.Size,
			Unlimited: spec.Unlimited,
		}))
	}

	var vars map[string]variableSpec
	if err := decodeStrict(doc["variables"], &vars); err != nil {
		thrower.Throw(fmt.Errorf("variables: %w", err))
	}
	for _, name := range sortedKeys(vars) {
		spec := vars[name]
		thrower.ThrowIfError(loaded.AddVariable(api.Variable{
			Name:       name,
			Datatype:   spec.Datatype,
			Dimensions: spec.Dimensions,
			Attributes: spec.Attributes,
		}))
	}

	var files map[string]interface{}
	if err := decodeStrict(doc["files"], &files); err != nil {
		thrower.Throw(fmt.Errorf("files: %w", err))
	}
	for _, name := range sortedKeys(files) {
		raw, ok := files[name].(map[string]interface{})
		if !ok {
			thrower.Throw(fmt.Errorf("%w: file %q", ErrNotTable, name))
		}
		opts, err := FileOptions(name, raw)
		thrower.ThrowIfError(err)
		_, err = loaded.NewFile(name, opts...)
		thrower.ThrowIfError(err)
	}
	logger.Infof("loaded %d dimensions, %d variables, %d files",
		len(dims), len(vars), len(files))
	return loaded, nil
}

// SetLogLevel sets the logging level to the given level, and returns
// the old level. The lowest level is 0 (no logs at all) and the highest
// level is 3 (errors, warnings and debug messages).
func SetLogLevel(level int) int {
	return logger.SetLogLevelInt(level)
}

// decode converts one untyped value without weak typing, so a number is
// never taken for a string, nor a float for an integer.
func decode(input interface{}, output interface{}) error {
	if input == nil {
		return errNilValue
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: strictIntDecodeHook(),
		Result:     output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// decodeNames decodes a list of names. mapstructure turns nil entries into
// empty strings, so those are refused first.
func decodeNames(input interface{}) ([]string, error) {
	if list, ok := input.([]interface{}); ok {
		for _, v := range list {
			if v == nil {
				return nil, errNilValue
			}
		}
	}
	var names []string
	if err := decode(input, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// decodeStrict is like decode, but also rejects keys with no matching struct
// field. A nil input leaves output untouched.
func decodeStrict(input interface{}, output interface{}) error {
	if input == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  strictIntDecodeHook(),
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// strictIntDecodeHook returns a mapstructure decode hook that refuses to
// truncate floating point values into integers, or to wrap integers that
// do not fit the target. mapstructure accepts both otherwise.
func strictIntDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		target := reflect.New(to).Elem()
		val := reflect.ValueOf(data)
		overflow := false
		switch from.Kind() {
		case reflect.Float32, reflect.Float64:
			return nil, fmt.Errorf("expected an integer, got %v", data)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := val.Int()
			if target.CanInt() {
				overflow = target.OverflowInt(i)
			} else {
				overflow = i >= 0 && target.OverflowUint(uint64(i))
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := val.Uint()
			if target.CanInt() {
				overflow = u > math.MaxInt64 || target.OverflowInt(int64(u))
			} else {
				overflow = target.OverflowUint(u)
			}
		}
		if overflow {
			return nil, fmt.Errorf("%v overflows %v", data, to)
		}
		return data, nil
	}
}

func sortedKeys[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
