package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/batchatco/go-native-conform/conform/dataset"
	"github.com/batchatco/go-native-conform/conform/metadata"
)

func checkFieldError(t *testing.T, err error, file, field string) {
	t.Helper()
	var fe *metadata.FieldError
	if !errors.As(err, &fe) {
		t.Error("expected a *FieldError, got", err)
		return
	}
	if !errors.Is(err, metadata.ErrInvalidField) {
		t.Error("should be an invalid field error", err)
	}
	if fe.File != file || fe.Field != field {
		t.Errorf("wrong error fields: file=%q field=%q", fe.File, fe.Field)
	}
	if !strings.Contains(err.Error(), file) || !strings.Contains(err.Error(), field) {
		t.Error("message should name file and field:", err)
	}
}

func TestDecodeScenario(t *testing.T) {
	f, err := DecodeFile("output.nc", map[string]interface{}{
		"format":     "NETCDF4",
		"deflate":    2,
		"shuffle":    "on",
		"variables":  []interface{}{"temp", "temp"},
		"dimensions": []string{"time"},
	})
	if err != nil {
		t.Error(err)
		return
	}
	if f.IsNetCDF3() {
		t.Error("NETCDF4 is not netcdf3")
	}
	if !reflect.DeepEqual(f.Variables().Names(), []string{"temp"}) {
		t.Error("wrong variables", f.Variables().Names())
	}
	if f.Deflate() != 2 || f.Shuffle() != metadata.ShuffleOn {
		t.Error("wrong compression settings", f.Deflate(), f.Shuffle())
	}
}

func TestDecodeDefaults(t *testing.T) {
	f, err := DecodeFile("f.nc", nil)
	if err != nil {
		t.Error(err)
		return
	}
	if f.Format() != metadata.FormatNetCDF4Classic || f.Deflate() != 1 || f.Shuffle() != metadata.ShuffleOff {
		t.Error("wrong defaults", f.Format(), f.Deflate(), f.Shuffle())
	}
}

func TestDecodeBadFields(t *testing.T) {
	tests := []struct {
		field string
		value interface{}
	}{
		{"format", "HDF5"},
		{"format", 4},
		{"shuffle", "yes"},
		{"shuffle", true},
		{"shuffle", 1},
		{"deflate", "2"},
		{"deflate", 2.5},
		{"deflate", float64(2)},
		{"deflate", true},
		{"deflate", nil},
		{"deflate", uint64(math.MaxUint64)},
		{"variables", "temp"},
		{"variables", map[string]interface{}{"temp": true}},
		{"variables", []interface{}{"temp", 1}},
		{"dimensions", "time"},
		{"dimensions", []interface{}{nil}},
		{"attributes", []interface{}{"a"}},
		{"attributes", "title"},
		{"attributes", nil},
		{"coordinates", []string{"lat"}},
	}
	for _, test := range tests {
		f, err := DecodeFile("output.nc", map[string]interface{}{test.field: test.value})
		if f != nil {
			t.Errorf("%s=%v: no file should be returned", test.field, test.value)
			continue
		}
		checkFieldError(t, err, "output.nc", test.field)
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := map[string]bool{
		"NETCDF4_CLASSIC":      true,
		"NETCDF3_CLASSIC":      true,
		"NETCDF3_64BIT_OFFSET": true,
		"NETCDF3_64BIT_DATA":   true,
		"NETCDF3_64BIT":        true,
		"NETCDF4":              false,
	}
	for tag, netcdf3 := range tests {
		f, err := DecodeFile("f.nc", map[string]interface{}{"format": tag})
		if err != nil {
			t.Error(tag, err)
			continue
		}
		if f.IsNetCDF3() != netcdf3 {
			t.Errorf("%s: IsNetCDF3 got=%v exp=%v", tag, f.IsNetCDF3(), netcdf3)
		}
	}
}

func TestDecodeIntegers(t *testing.T) {
	for _, v := range []interface{}{-3, 0, int64(9), int32(4), uint8(7)} {
		f, err := DecodeFile("f.nc", map[string]interface{}{"deflate": v})
		if err != nil {
			t.Error(v, err)
			continue
		}
		if int64(f.Deflate()) != reflect.ValueOf(v).Convert(reflect.TypeOf(int64(0))).Int() {
			t.Error("deflate did not round-trip", v, f.Deflate())
		}
	}
}

func TestStrictIntDecodeHook(t *testing.T) {
	var i8 int8
	if err := decode(int64(300), &i8); err == nil {
		t.Error("300 should not fit in an int8", i8)
	}
	if err := decode(int64(-100), &i8); err != nil || i8 != -100 {
		t.Error("-100 should fit in an int8", i8, err)
	}
	var u8 uint8
	if err := decode(uint64(256), &u8); err == nil {
		t.Error("256 should not fit in a uint8", u8)
	}
	if err := decode(int64(255), &u8); err != nil || u8 != 255 {
		t.Error("255 should fit in a uint8", u8, err)
	}
	var i int
	if err := decode(uint64(math.MaxUint64), &i); err == nil {
		t.Error("max uint64 should not fit in an int", i)
	}
	if err := decode(uint64(7), &i); err != nil || i != 7 {
		t.Error("7 should fit in an int", i, err)
	}
}

func TestFileOptionsError(t *testing.T) {
	opts, err := FileOptions("output.nc", map[string]interface{}{
		"format":  "NETCDF4",
		"deflate": "high",
	})
	if opts != nil {
		t.Error("no options should be returned on error")
	}
	checkFieldError(t, err, "output.nc", "deflate")
	opts, err = FileOptions("output.nc", map[string]interface{}{"format": "NETCDF4", "deflate": 3})
	if err != nil {
		t.Error(err)
		return
	}
	if len(opts) != 2 {
		t.Error("wrong number of options", len(opts))
	}
}

func TestDecodeAttributes(t *testing.T) {
	attrs := map[string]interface{}{"title": "run", "count": int64(3)}
	f, err := DecodeFile("f.nc", map[string]interface{}{"attributes": attrs})
	if err != nil {
		t.Error(err)
		return
	}
	if !reflect.DeepEqual(f.Attributes(), attrs) {
		t.Error("attributes changed", f.Attributes())
	}
	f, err = DecodeFile("f.nc", map[string]interface{}{"attributes": map[string]interface{}{}})
	if err != nil {
		t.Error(err)
		return
	}
	if len(f.Attributes()) != 0 {
		t.Error("attributes should be empty", f.Attributes())
	}
}

func TestDecodeExtraOptions(t *testing.T) {
	ds := dataset.New()
	f, err := DecodeFile("f.nc", map[string]interface{}{"format": "NETCDF4"},
		metadata.WithDataset(ds))
	if err != nil {
		t.Error(err)
		return
	}
	if f.Dataset() == nil {
		t.Error("extra option was not applied")
	}
}

const goodDoc = `
[dimensions.time]
unlimited = true

[dimensions.lat]
size = 180

[variables.temp]
datatype = "float"
dimensions = ["time", "lat"]

[variables.temp.attributes]
units = "K"

[files."output.nc"]
format = "NETCDF4"
deflate = 2
shuffle = "on"
variables = ["temp", "temp"]
dimensions = ["time", "lat"]

[files."output.nc".attributes]
title = "monthly means"

[files."legacy.nc"]
format = "NETCDF3_64BIT_OFFSET"
`

func TestLoad(t *testing.T) {
	ds, err := Load(strings.NewReader(goodDoc))
	if err != nil {
		t.Error(err)
		return
	}
	if !reflect.DeepEqual(ds.ListFiles(), []string{"legacy.nc", "output.nc"}) {
		t.Error("wrong files", ds.ListFiles())
		return
	}
	f, _ := ds.GetFile("output.nc")
	if f.IsNetCDF3() || f.Deflate() != 2 || f.Shuffle() != metadata.ShuffleOn {
		t.Error("wrong file settings", f.Format(), f.Deflate(), f.Shuffle())
	}
	if f.Attributes()["title"] != "monthly means" {
		t.Error("wrong attributes", f.Attributes())
	}
	dims, err := f.GetDimensions()
	if err != nil {
		t.Error(err)
		return
	}
	if dims["lat"].Size != 180 || !dims["time"].Unlimited {
		t.Error("wrong dimensions", dims)
	}
	vars, err := f.GetVariables()
	if err != nil {
		t.Error(err)
		return
	}
	if len(vars) != 1 || vars["temp"].Attributes["units"] != "K" {
		t.Error("wrong variables", vars)
	}
	legacy, _ := ds.GetFile("legacy.nc")
	if !legacy.IsNetCDF3() {
		t.Error("legacy.nc should be netcdf3")
	}
}

func TestLoadBad(t *testing.T) {
	bad := []struct {
		doc string
		err error
	}{
		{"[groups.g]\n", ErrUnknownKey},
		{"[files.o]\nformat = \"HDF5\"\n", metadata.ErrInvalidField},
		{"[files.o]\ndeflate = 2.0\n", metadata.ErrInvalidField},
		{"[files.o]\nshuffle = \"yes\"\n", metadata.ErrInvalidField},
		{"[files.o]\nvariables = \"temp\"\n", metadata.ErrInvalidField},
		{"[files]\nout = 3\n", ErrNotTable},
		{"[dimensions.double]\nsize = 3\n", dataset.ErrInvalidName},
	}
	for _, test := range bad {
		_, err := Load(strings.NewReader(test.doc))
		if !errors.Is(err, test.err) {
			t.Errorf("%q: expected %v, got %v", test.doc, test.err, err)
		}
	}
}

func TestLoadUnknownSpecKey(t *testing.T) {
	_, err := Load(strings.NewReader("[dimensions.time]\nlength = 3\n"))
	if err == nil {
		t.Error("unknown dimension key should fail")
	}
	_, err = Load(strings.NewReader("[dimensions.time]\nsize = 1.5\n"))
	if err == nil {
		t.Error("float size should fail")
	}
}

func TestLoadFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "conform.toml")
	if err := os.WriteFile(fname, []byte(goodDoc), 0644); err != nil {
		t.Error(err)
		return
	}
	ds, err := LoadFile(fname)
	if err != nil {
		t.Error(err)
		return
	}
	if len(ds.ListVariables()) != 1 {
		t.Error("wrong variables", ds.ListVariables())
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}
