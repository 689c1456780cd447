package model

import (
	"context"
	"sort"
)

// RunningTask is one registered task instance.
type RunningTask struct {
	Instance uint64
	Cancel   context.CancelFunc
}

// Tasks maps the identity of every running task to its cancel function. It
// mirrors the task manager's registry from TaskStarted and TaskEnded
// messages so the update step can cancel work without calling the manager.
type Tasks map[string]RunningTask

// Start records a running task instance, replacing a superseded one.
func (t Tasks) Start(id string, instance uint64, cancel context.CancelFunc) {
	if cur, ok := t[id]; ok && cur.Instance > instance {
		return
	}
	t[id] = RunningTask{Instance: instance, Cancel: cancel}
}

// End forgets a task instance. Ends of superseded instances are ignored.
func (t Tasks) End(id string, instance uint64) {
	if cur, ok := t[id]; ok && cur.Instance == instance {
		delete(t, id)
	}
}

// Cancel cancels the task with id and reports whether it was running.
func (t Tasks) Cancel(id string) bool {
	cur, ok := t[id]
	if !ok {
		return false
	}
	if cur.Cancel != nil {
		cur.Cancel()
	}
	delete(t, id)
	return true
}

// IDs returns the running task ids in order.
func (t Tasks) IDs() []string {
	out := make([]string, 0, len(t))
	for id := range t {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
