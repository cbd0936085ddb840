package bridge

// DefaultModuleName is the import module guests link against.
const DefaultModuleName = "draco:geometry/bridge@0.1.0"

// DefaultMaxInputBytes bounds a single decode input.
const DefaultMaxInputBytes = 64 << 20

// Config configures a Bridge. A nil *Config uses the defaults.
type Config struct {
	// ModuleName is the host module name. Empty means DefaultModuleName.
	ModuleName string

	// MaxInputBytes rejects larger decode inputs with an InvalidParameter
	// result. 0 means DefaultMaxInputBytes.
	MaxInputBytes uint32
}

func (c *Config) moduleName() string {
	if c == nil || c.ModuleName == "" {
		return DefaultModuleName
	}
	return c.ModuleName
}

func (c *Config) maxInputBytes() uint32 {
	if c == nil || c.MaxInputBytes == 0 {
		return DefaultMaxInputBytes
	}
	return c.MaxInputBytes
}
