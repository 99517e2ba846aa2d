// Package process controls the lifetime of external tool processes.
package process

import (
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait blocks on output pipes after the process
// tree has been killed.
const WaitDelay = 5 * time.Second

// Configure prepares a command created with exec.CommandContext so that
// context cancellation kills the whole process tree, not just the direct
// child.
func Configure(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = WaitDelay
}
