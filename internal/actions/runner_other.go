//go:build !unix

package actions

import "os/exec"

func killProcessGroupOnCancel(*exec.Cmd) {}
