package ipc

import (
	"sync"
	"syscall"
	"time"

	"github.com/sensorcore/devicetracker/internal/dterr"
)

// Manager supervises every launched Child: reaping, protocol-error
// soft-kill, and orderly shutdown (spec §4.6).
//
// Its lock is held across launch, kill, reap, and table mutation, per spec
// §5 — but never across fork/exec, since os/exec.Cmd.Start already performs
// that without Manager's involvement (the original's carve-out exists only
// because raw fork duplicates the whole address space, lock included; Go's
// os/exec has no such hazard, so this lock's scope is simpler than the
// original's).
type Manager struct {
	mu       sync.Mutex
	children map[int]*Child

	// retained holds children reaped with TrackerFree false: the original's
	// "tracker_free" bit only ever gated whether the handle object itself
	// was freed after reap, never whether the pid stayed in the live
	// process table, so Reap always removes the pid from children but
	// parks the handle here for a caller to still look up by pid.
	retained map[int]*Child

	logger Logger
}

func NewManager(logger Logger) *Manager {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Manager{children: make(map[int]*Child), retained: make(map[int]*Child), logger: logger}
}

// LaunchConfig configures a single supervised child (spec §4.6). Zero
// values: no args; VariantStandard; an empty SearchPath resolves no bare
// name, so Path then has to contain a separator; TrackerFree false keeps
// the handle for Retained after reap. Every launched child is in the live
// table, and so subject to EnsureAllKilled, whatever TrackerFree says.
type LaunchConfig struct {
	Path        string
	Args        []string
	Variant     Variant
	SearchPath  []string
	TrackerFree bool
}

// Launch starts a child and registers it with the supervisor's process
// table.
func (m *Manager) Launch(cfg LaunchConfig) (*Child, error) {
	c, err := Launch(cfg.Path, cfg.Args, cfg.Variant, cfg.SearchPath, m.logger)
	if err != nil {
		return nil, err
	}
	c.TrackerFree = cfg.TrackerFree
	c.onProtocolError = m.softKill

	m.mu.Lock()
	m.children[c.Pid] = c
	m.mu.Unlock()

	return c, nil
}

// NotifyProtocolError is called by a child's byte-stream handler on a
// framing error (spec §4.6's protocol-error callback); it triggers a
// soft-kill of that specific child only.
func (m *Manager) NotifyProtocolError(c *Child, err error) {
	c.notifyProtocolError(err)
}

func (m *Manager) softKill(c *Child) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if proc := c.cmd.Process; proc != nil {
		_ = proc.Signal(syscall.SIGTERM)
	}
}

// Reap performs one non-blocking pass over every child, reclaiming any
// that have exited (spec §4.6's "periodic supervisor task").
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for pid, c := range m.children {
		var ws syscall.WaitStatus
		reapedPid, err := syscall.Wait4(pid, &ws, syscall.WNOHANG, nil)
		if err != nil || reapedPid != pid {
			continue
		}
		c.notifyKilled(ws.ExitStatus())
		m.logger.Debugf("ipc: reaped pid=%d exit=%d", pid, ws.ExitStatus())
		delete(m.children, pid)
		if !c.TrackerFree {
			m.retained[pid] = c
		}
		reaped++
	}
	return reaped
}

// Retained looks up a reaped child that was launched with TrackerFree
// false, by pid. Reap removes every reaped pid from the live process table
// unconditionally; TrackerFree only decides whether the handle itself is
// discarded or parked here for the caller to still inspect.
func (m *Manager) Retained(pid int) (*Child, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.retained[pid]
	return c, ok
}

// Count returns the number of children currently in the process table.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.children)
}

// EnsureAllKilled implements spec §4.6's ensure_all_killed: SIGTERM every
// child, poll for up to softDelay; SIGKILL whatever remains, poll for up to
// the rest of maxDelay. Returns TimeoutExceeded if the table isn't empty by
// maxDelay.
func (m *Manager) EnsureAllKilled(softDelay, maxDelay time.Duration) error {
	deadline := time.Now().Add(maxDelay)
	softDeadline := time.Now().Add(softDelay)

	m.signalAll(syscall.SIGTERM)
	for time.Now().Before(softDeadline) {
		m.Reap()
		if m.Count() == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}

	if m.Count() > 0 {
		m.signalAll(syscall.SIGKILL)
	}
	for time.Now().Before(deadline) {
		m.Reap()
		if m.Count() == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}

	remaining := m.Count()
	if remaining > 0 {
		return dterr.New(dterr.TimeoutExceeded, "ipc.EnsureAllKilled", errChildrenSurvived(remaining))
	}
	return nil
}

func (m *Manager) signalAll(sig syscall.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.children {
		if c.killed {
			continue
		}
		if proc := c.cmd.Process; proc != nil {
			_ = proc.Signal(sig)
		}
	}
}
