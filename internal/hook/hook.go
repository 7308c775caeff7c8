// Package hook runs the shell commands declared in a profile's pre_hooks
// and post_hooks lists (SPEC_FULL.md §4.7).
package hook

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Run executes commands in declared order inside workDir, with the
// process environment plus extraEnv (the PUNKTF_CURRENT_* triple). The
// first non-zero exit aborts and is reported as HookFailed; remaining
// commands in the list do not run.
func Run(commands []string, workDir string, extraEnv map[string]string) error {
	for _, cmd := range commands {
		if err := runOne(cmd, workDir, extraEnv); err != nil {
			return err
		}
	}
	return nil
}

func runOne(command, workDir string, extraEnv map[string]string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("/bin/sh", "-c", command)
	}
	cmd.Dir = workDir
	cmd.Env = os.Environ()
	for k, v := range extraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return diagnostic.New(diagnostic.KindHookFailed, source.Span{},
			fmt.Sprintf("hook %q failed: %v", command, err))
	}
	return nil
}
