// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wangtaoking1/wsprobe/errors"
	"github.com/wangtaoking1/wsprobe/utils/homedir"
)

const configFlagName = "config"

var cfgFile string

func init() {
	pflag.StringVarP(&cfgFile, configFlagName, "c", cfgFile, "Read configuration from specified `FILE`, "+
		"support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// addConfigFlag adds flags for a specific application to the specified FlagSet
// object. Environment variables are read with the upper cased application
// name as prefix, e.g. WSPROBE_WS.
func addConfigFlag(appName string, fs *pflag.FlagSet) {
	fs.AddFlag(pflag.Lookup(configFlagName))

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix(appName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cobra.OnInitialize(func() {
		if err := readConfig(appName, cfgFile); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: failed to read configuration file(%s): %v\n", cfgFile, err)
			os.Exit(1)
		}
	})
}

func envPrefix(appName string) string {
	return strings.ReplaceAll(strings.ToUpper(appName), "-", "_")
}

// readConfig reads the given config file, or searches the default
// locations for one. Only an explicitly given file is required to exist.
func readConfig(appName, file string) error {
	if file != "" {
		viper.SetConfigFile(file)

		return viper.ReadInConfig()
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(homedir.HomeDir(), "."+appName))
	if names := strings.Split(appName, "-"); len(names) > 1 {
		viper.AddConfigPath(filepath.Join(homedir.HomeDir(), "."+names[0]))
		viper.AddConfigPath(filepath.Join("/etc", names[0]))
	}
	viper.SetConfigName(appName)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return err
	}

	return nil
}
