package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/viper"
)

// Environment passed to extensions.
const (
	EnvBook     = "CASHFLOW_BOOK"
	EnvFormat   = "CASHFLOW_FORMAT"
	EnvCurrency = "CASHFLOW_CURRENCY"
	EnvHorizon  = "CASHFLOW_HORIZON"
)

// extensionEnv returns the environment of an extension: the current one plus the resolved configuration.
func extensionEnv() []string {
	env := os.Environ()
	env = append(env, EnvBook+"="+BookPath())
	env = append(env, EnvFormat+"="+viper.GetString("format"))
	env = append(env, EnvCurrency+"="+viper.GetString("currency"))
	env = append(env, EnvHorizon+"="+viper.GetString("horizon"))
	return env
}

// RunExtension attempts to find and execute an external cfp-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "cfp-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		slog.Debug("extension not found", "name", name, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing extension %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
