package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "OTSUHASH_"

// loadDotEnv reads ./.env into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %q is not an integer", envPrefix, key, v)
	}
	return i, nil
}

// flagOrEnv returns the flag value when it was set on the command line,
// else the environment value, else def.
func flagOrEnv(cmd *cobra.Command, flag, val, key, def string) string {
	if cmd.Flags().Changed(flag) {
		return val
	}
	return getEnv(key, def)
}

func flagOrEnvInt(cmd *cobra.Command, flag string, val int, key string, def int) (int, error) {
	if cmd.Flags().Changed(flag) {
		return val, nil
	}
	return getEnvInt(key, def)
}
