package config

import (
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// setDefaults registers every leaf of cfg under its mapstructure path. Viper
// only consults the environment for keys it knows about, so this also makes
// AutomaticEnv see the full tree.
func setDefaults(v *viper.Viper, cfg Config) {
	walk(v, "", reflect.ValueOf(cfg))
}

func walk(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if name == "" || name == "-" {
			name = strings.ToLower(field.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		fv := val.Field(i)
		if fv.Kind() == reflect.Struct {
			walk(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
