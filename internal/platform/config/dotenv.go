package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadDotEnv reads KEY=VALUE pairs from path and exports those not already
// present in the process environment. A missing file is not an error.
// It returns the number of variables exported.
func LoadDotEnv(path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	n := 0
	for _, k := range v.AllKeys() {
		name := strings.ToUpper(k)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(k)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
