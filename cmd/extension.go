package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/satstack/internal/logger"
)

// Environment variables passed to the extensions.
const (
	EnvLedgerFile   = "SATSTACK_LEDGER_FILE"
	EnvSettingsFile = "SATSTACK_SETTINGS_FILE"
	EnvVerbose      = "SATSTACK_VERBOSE"
)

// RunExtension attempts to find and execute an external satstack-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "satstack-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logger.Get().Debugw("extension not found", "command", externalCmdName, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// global flags are passed as environment variables.
	cmd.Env = append(os.Environ(),
		EnvLedgerFile+"="+*ledgerFile,
		EnvSettingsFile+"="+*settingsFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
