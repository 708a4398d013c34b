package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension creates an executable satstack-<name> shell script in dir.
func writeExtension(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, "satstack-"+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("Failed to write extension %q: %v", name, err)
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts")
	}
	dir := useTempFiles(t, "")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out := filepath.Join(dir, "env.txt")
	writeExtension(t, dir, "hello", `
echo "$1" > "`+out+`"
echo "`+EnvLedgerFile+`=$`+EnvLedgerFile+`" >> "`+out+`"
echo "`+EnvSettingsFile+`=$`+EnvSettingsFile+`" >> "`+out+`"
echo "`+EnvVerbose+`=$`+EnvVerbose+`" >> "`+out+`"
`)
	writeExtension(t, dir, "fail", "exit 3\n")

	found, code := RunExtension("hello", []string{"world"})
	if !found || code != 0 {
		t.Fatalf("RunExtension(hello) = %v, %d, want true, 0", found, code)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("extension did not run: %v", err)
	}
	for _, want := range []string{
		"world\n",
		EnvLedgerFile + "=" + *ledgerFile + "\n",
		EnvSettingsFile + "=" + *settingsFile + "\n",
		EnvVerbose + "=false\n",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, content)
		}
	}

	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension(fail) = %v, %d, want true, 3", found, code)
	}
	if found, _ := RunExtension("does-not-exist", nil); found {
		t.Errorf("RunExtension(does-not-exist) found an extension")
	}
}
