package refresh

import (
	"context"
	"sync"

	"github.com/osse101/farmclock/internal/logger"
)

// Group tracks running tasks by key. Starting a task for a key cancels the
// previous one for that key, so only the newest refresh of a farm keeps running.
type Group struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

// NewGroup creates an empty group
func NewGroup() *Group {
	return &Group{tasks: make(map[string]*Task)}
}

// Track registers t under key, cancelling any task it replaces. The entry is
// removed when t finishes.
func (g *Group) Track(ctx context.Context, key string, t *Task) {
	g.mu.Lock()
	prev := g.tasks[key]
	g.tasks[key] = t
	g.mu.Unlock()

	if prev != nil && prev != t {
		prev.Cancel()
		logger.FromContext(ctx).Debug(LogMsgTaskSuperseded, "key", key)
	}

	go func() {
		<-t.Done()
		g.mu.Lock()
		if g.tasks[key] == t {
			delete(g.tasks, key)
		}
		g.mu.Unlock()
	}()
}

// Cancel cancels the task for key, if any
func (g *Group) Cancel(key string) {
	g.mu.Lock()
	t := g.tasks[key]
	g.mu.Unlock()
	if t != nil {
		t.Cancel()
	}
}

// CancelAll cancels every tracked task
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := make([]*Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		tasks = append(tasks, t)
	}
	g.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

// Len returns the number of running tasks
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}
