package metadata

// Format is the on-disk format of a NetCDF file.
type Format int

// The zero value is the default format, NETCDF4_CLASSIC.
const (
	FormatNetCDF4Classic     Format = iota // NETCDF4_CLASSIC
	FormatNetCDF3Classic                   // NETCDF3_CLASSIC
	FormatNetCDF364BitOffset               // NETCDF3_64BIT_OFFSET
	FormatNetCDF364BitData                 // NETCDF3_64BIT_DATA
	FormatNetCDF364Bit                     // NETCDF3_64BIT, older name for the offset variant
	FormatNetCDF4                          // NETCDF4
	numFormats
)

// FormatGroup partitions the formats by capability.
type FormatGroup int

const (
	// GroupLegacy formats are limited to the classic data model.
	GroupLegacy FormatGroup = iota
	// GroupModern formats support the full NetCDF4 data model.
	GroupModern
	// GroupInvalid is the group of formats that are not defined.
	GroupInvalid
)

var formatNames = [numFormats]string{
	"NETCDF4_CLASSIC",
	"NETCDF3_CLASSIC",
	"NETCDF3_64BIT_OFFSET",
	"NETCDF3_64BIT_DATA",
	"NETCDF3_64BIT",
	"NETCDF4",
}

// ParseFormat returns the format with the given tag.
// Tags are case-sensitive.
func ParseFormat(tag string) (Format, error) {
	for i, name := range formatNames {
		if name == tag {
			return Format(i), nil
		}
	}
	return 0, ErrUnknownFormat
}

// Valid returns true if f is one of the defined formats.
func (f Format) Valid() bool {
	return f >= 0 && f < numFormats
}

// Group returns the capability group of the format.
func (f Format) Group() FormatGroup {
	if !f.Valid() {
		return GroupInvalid
	}
	if f == FormatNetCDF4 {
		return GroupModern
	}
	return GroupLegacy
}

func (f Format) String() string {
	if !f.Valid() {
		return "Format(invalid)"
	}
	return formatNames[f]
}

func (g FormatGroup) String() string {
	switch g {
	case GroupLegacy:
		return "legacy"
	case GroupModern:
		return "modern"
	case GroupInvalid:
		return "invalid"
	}
	return "unknown"
}
