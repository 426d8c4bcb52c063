package xviper

import "github.com/spf13/viper"

type options struct {
	configName  string
	configPaths []string
	defaults    map[string]interface{}
	values      map[string]interface{}
}

// Option configures a *viper.Viper built by New.
type Option func(*options)

// ConfigName sets the base name Viper searches for, e.g. "httppoolctl" for
// httppoolctl.yaml.
func ConfigName(name string) Option {
	return func(o *options) {
		o.configName = name
	}
}

// ConfigPaths adds search paths, in the order given, that Viper scans for
// the configuration file.
func ConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = append(o.configPaths, paths...)
	}
}

// Defaults sets fallback values applied before any configuration file or
// flag is read.
func Defaults(defaults map[string]interface{}) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// Values sets explicit values that override anything read from
// configuration files, flags, or environment.
func Values(values map[string]interface{}) Option {
	return func(o *options) {
		o.values = values
	}
}

// New constructs a *viper.Viper configured with the given Options.
func New(o ...Option) *viper.Viper {
	var opts options
	for _, f := range o {
		f(&opts)
	}

	v := viper.New()

	if len(opts.configName) > 0 {
		v.SetConfigName(opts.configName)
	}

	for _, p := range opts.configPaths {
		v.AddConfigPath(p)
	}

	for k, value := range opts.defaults {
		v.SetDefault(k, value)
	}

	for k, value := range opts.values {
		v.Set(k, value)
	}

	return v
}
