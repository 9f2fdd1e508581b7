package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestWriteCompletion(t *testing.T) {
	root := New(os.Stderr, LogInfo).RootCommand()

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeCompletion(root, shell, &buf); err != nil {
				t.Fatalf("writeCompletion(%s) error: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	if err := writeCompletion(root, "tcsh", &bytes.Buffer{}); err == nil {
		t.Error("writeCompletion(tcsh) expected error")
	}
}

func TestCompleteLottieFiles(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	for _, cmd := range []*cobra.Command{c.exportCommand(), c.inspectCommand()} {
		if cmd.ValidArgsFunction == nil {
			t.Fatalf("%s has no argument completion", cmd.Name())
		}
		exts, directive := cmd.ValidArgsFunction(cmd, nil, "")
		if directive != cobra.ShellCompDirectiveFilterFileExt || len(exts) != 1 || exts[0] != "json" {
			t.Errorf("%s completion = %v, %v; want [json] with file ext filter", cmd.Name(), exts, directive)
		}
	}
}
