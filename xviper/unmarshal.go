package xviper

import "github.com/spf13/viper"

// Unmarshaler describes the subset of Viper behavior dealing with unmarshaling into arbitrary values.
type Unmarshaler interface {
	Unmarshal(rawVal interface{}, decoderConfigOptions ...viper.DecoderConfigOption) error
}

// KeyUnmarshaler describes the subset of Viper behavior dealing with unmarshaling a single configuration key.
type KeyUnmarshaler interface {
	UnmarshalKey(key string, rawVal interface{}) error
}

// InvalidUnmarshaler is an Unmarshaler that always fails with Err, or succeeds if Err is nil.  It is
// useful as a test double and as a safe zero value when no real Unmarshaler is available.
type InvalidUnmarshaler struct {
	Err error
}

// Unmarshal implements Unmarshaler by always returning Err.
func (u InvalidUnmarshaler) Unmarshal(interface{}, ...viper.DecoderConfigOption) error {
	return u.Err
}

// Unmarshal supplies a convenience for unmarshaling several values.  The first error
// encountered is returned, and any remaining values are not unmarshaled.
func Unmarshal(u Unmarshaler, v ...interface{}) error {
	var err error
	for i := 0; err == nil && i < len(v); i++ {
		err = u.Unmarshal(v[i])
	}

	return err
}

// MustUnmarshal is like Unmarshal, except that it panics when any error is encountered.
func MustUnmarshal(u Unmarshaler, v ...interface{}) {
	if err := Unmarshal(u, v...); err != nil {
		panic(err)
	}
}

// MustKeyUnmarshal is like KeyUnmarshaler.UnmarshalKey, except that it panics when an error is encountered.
func MustKeyUnmarshal(u KeyUnmarshaler, key string, v interface{}) {
	if err := u.UnmarshalKey(key, v); err != nil {
		panic(err)
	}
}
