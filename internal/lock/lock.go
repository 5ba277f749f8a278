// Package lock enforces the one-controller-at-a-time rule. Only one fcshctl
// invocation may talk to the fcsh session at a time; all others wait.
//
// The lock is a kernel advisory lock (flock) on a fixed per-user file, with
// a JSON heartbeat recording the holder's PID and start time. Because the
// kernel releases flocks when the holder dies, a crashed invocation can
// never wedge the lock — waiters acquire it on their next attempt. The
// heartbeat exists for reporting: a waiter can say who it is waiting on,
// and whether that holder is still alive.
package lock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/gofrs/flock"
)

// retryInterval is the delay between lock acquisition attempts.
const retryInterval = 1 * time.Second

// reportEvery controls how often (in attempts) a waiting invocation
// reports on the current holder.
const reportEvery = 5

// Heartbeat identifies the invocation holding the lock.
type Heartbeat struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Guard holds the singleton lock for the duration of one invocation.
type Guard struct {
	fl   *flock.Flock
	path string

	// Logf receives informational messages about contention and orphan
	// recovery. Defaults to a no-op.
	Logf func(format string, args ...any)
}

// New creates a guard for the lock file at path.
func New(path string) *Guard {
	return &Guard{
		fl:   flock.New(path),
		path: path,
		Logf: func(string, ...any) {},
	}
}

// Acquire blocks until the lock is held or ctx is done. While waiting it
// retries once per second; every fifth attempt it reads the heartbeat and
// reports on the holder. A heartbeat naming a dead PID means the previous
// holder crashed — the kernel has already dropped its flock, so the very
// next attempt succeeds and the stale state self-heals.
func (g *Guard) Acquire(ctx context.Context) error {
	attempt := 0
	for {
		locked, err := g.fl.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring lock %s: %w", g.path, err)
		}
		if locked {
			if err := g.writeHeartbeat(); err != nil {
				g.Logf("warning: %v", err)
			}
			return nil
		}

		attempt++
		if attempt%reportEvery == 0 {
			g.reportHolder()
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for lock %s: %w", g.path, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// Release drops the lock. Safe to call more than once.
func (g *Guard) Release() error {
	if err := g.fl.Unlock(); err != nil {
		return fmt.Errorf("releasing lock %s: %w", g.path, err)
	}
	return nil
}

// writeHeartbeat records this process as the lock holder.
// The flock lives on the file descriptor, not the contents, so rewriting
// the file does not disturb the lock.
func (g *Guard) writeHeartbeat() error {
	hb := Heartbeat{PID: os.Getpid(), StartedAt: time.Now().UTC()}
	data, err := json.Marshal(hb)
	if err != nil {
		return fmt.Errorf("encoding lock heartbeat: %w", err)
	}
	if err := os.WriteFile(g.path, data, 0o644); err != nil {
		return fmt.Errorf("writing lock heartbeat: %w", err)
	}
	return nil
}

// reportHolder logs who currently holds the lock and whether they are alive.
func (g *Guard) reportHolder() {
	hb, err := ReadHeartbeat(g.path)
	if err != nil {
		g.Logf("waiting for another fcshctl invocation to finish")
		return
	}
	if pidAlive(hb.PID) {
		g.Logf("waiting for fcshctl (pid %d, started %s)",
			hb.PID, hb.StartedAt.Format(time.TimeOnly))
		return
	}
	// Holder died; its flock is already released by the kernel.
	g.Logf("previous fcshctl (pid %d) is gone, recovering orphaned lock", hb.PID)
}

// ReadHeartbeat reads the holder heartbeat from the lock file.
func ReadHeartbeat(path string) (Heartbeat, error) {
	var hb Heartbeat
	data, err := os.ReadFile(path)
	if err != nil {
		return hb, err
	}
	if err := json.Unmarshal(data, &hb); err != nil {
		return hb, fmt.Errorf("decoding lock heartbeat: %w", err)
	}
	if hb.PID <= 0 {
		return hb, fmt.Errorf("lock heartbeat has no pid")
	}
	return hb, nil
}

// pidAlive reports whether a process with the given PID exists.
// Signal 0 performs the existence check without delivering anything.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
