// Package ipc implements the Supervised Child-Process (IPC) Manager of
// spec §4.6: launches capture helpers as child processes, owns their
// bidirectional pipes, reaps them, and coordinates orderly shutdown.
//
// The original forks and exec's directly, passing retained pipe fds as
// --in-fd/--out-fd arguments or via stdin/stdout redirection. Go has no
// portable raw fork; this translates the same two launch variants onto
// os/exec.Cmd (grounded on the teacher's internal/deploy/executor.go,
// which already wraps os/exec for command execution): the "standard"
// variant redirects the child's stdin/stdout to the pipe ends directly,
// and the "kismet" variant hands the child os.Pipe-backed *os.File ends
// through Cmd.ExtraFiles, with --in-fd/--out-fd naming their descriptor
// numbers inside the child.
package ipc

import (
	"io"
	"os"
	"os/exec"
)

// Variant selects how pipe endpoints are handed to the child (spec §6.6).
type Variant int

const (
	// VariantStandard redirects the child's stdin/stdout to the pipe ends;
	// the child receives user args only.
	VariantStandard Variant = iota
	// VariantKismet passes the pipe ends as extra file descriptors and
	// appends --in-fd=N --out-fd=M ahead of the user's args.
	VariantKismet
)

// Logger mirrors the teacher's deploy.Logger shape, kept narrow so this
// package depends on nothing but an interface.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Child is the per-child state of spec §4.6: binary path, argv, pid, the
// pipe pair, and whether the supervisor may free the handle after reap.
type Child struct {
	Path string
	Args []string
	Pid  int

	variant Variant
	cmd     *exec.Cmd

	toChild   io.WriteCloser // parent's write end, child's stdin/in-fd
	fromChild io.ReadCloser  // parent's read end, child's stdout/out-fd

	// TrackerFree mirrors the original's "tracker_free" bit: whether Reap
	// may delete this handle once the process is reaped.
	TrackerFree bool

	killed      bool
	exitStatus  int
	protocolErr error

	onProtocolError func(*Child)
}

// Launch resolves path against searchPath, starts the child with the given
// args under variant, and wires its pipes (spec §4.6's launch protocol).
// searchPath mirrors exec.LookPath's PATH-style resolution scoped to an
// explicit list of directories, since a capture helper is rarely expected
// to live on the operator's general PATH.
func Launch(path string, args []string, variant Variant, searchPath []string, logger Logger) (*Child, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	resolved, err := resolveBinary(path, searchPath)
	if err != nil {
		return nil, err
	}

	c := &Child{Path: resolved, Args: args, variant: variant}

	inRead, inWrite, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	outRead, outWrite, err := os.Pipe()
	if err != nil {
		inRead.Close()
		inWrite.Close()
		return nil, err
	}

	cmdArgs := args
	cmd := exec.Command(resolved)

	switch variant {
	case VariantStandard:
		cmd.Stdin = inRead
		cmd.Stdout = outWrite
		cmd.Args = append([]string{resolved}, cmdArgs...)
	case VariantKismet:
		cmd.ExtraFiles = []*os.File{inRead, outWrite}
		// fd 0,1,2 are stdin/stdout/stderr; ExtraFiles start at fd 3.
		kismetArgs := append([]string{"--in-fd=3", "--out-fd=4"}, cmdArgs...)
		cmd.Args = append([]string{resolved}, kismetArgs...)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		inRead.Close()
		inWrite.Close()
		outRead.Close()
		outWrite.Close()
		return nil, err
	}

	// Parent closes its copies of the child's ends (spec §4.6 step 4).
	inRead.Close()
	outWrite.Close()

	c.cmd = cmd
	c.Pid = cmd.Process.Pid
	c.toChild = inWrite
	c.fromChild = outRead

	logger.Debugf("ipc: launched %s (pid=%d, variant=%v)", resolved, c.Pid, variant)
	return c, nil
}

// Write sends bytes to the child's input pipe.
func (c *Child) Write(p []byte) (int, error) { return c.toChild.Write(p) }

// Read receives bytes from the child's output pipe.
func (c *Child) Read(p []byte) (int, error) { return c.fromChild.Read(p) }

// notifyKilled surfaces the exit status on the child's byte-stream handler
// and closes its pipes (spec §4.6's reaping step).
func (c *Child) notifyKilled(exitStatus int) {
	c.killed = true
	c.exitStatus = exitStatus
	c.toChild.Close()
	c.fromChild.Close()
}

// notifyProtocolError runs the protocol-error callback, which must only
// initiate a soft-kill (spec §4.6: "do not hard-kill from the callback").
func (c *Child) notifyProtocolError(err error) {
	c.protocolErr = err
	if c.onProtocolError != nil {
		c.onProtocolError(c)
	}
}
