package watch

import (
	"context"
	"sync"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/events"
)

// scriptedSpawn is one fakeAdapter.Spawn call's canned response.
type scriptedSpawn struct {
	events []events.Event
	delay  bool // block on ctx.Done() instead of returning, for audit-interruption tests
}

// fakeAdapter replays a fixed sequence of spawn scripts in call order.
type fakeAdapter struct {
	mu        sync.Mutex
	script    []scriptedSpawn
	nextIndex int
}

func (f *fakeAdapter) Spawn(ctx context.Context, opts agent.SpawnOptions) (<-chan events.Event, <-chan error) {
	f.mu.Lock()
	idx := f.nextIndex
	f.nextIndex++
	f.mu.Unlock()

	out := make(chan events.Event)
	errc := make(chan error, 1)

	if idx >= len(f.script) {
		close(out)
		close(errc)
		return out, errc
	}
	s := f.script[idx]

	go func() {
		defer close(out)
		defer close(errc)
		if s.delay {
			<-ctx.Done()
			return
		}
		for _, e := range s.events {
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc
}

func (f *fakeAdapter) Interactive(ctx context.Context, opts agent.InteractiveOptions) (int, error) {
	return 0, nil
}

func marker(tag events.MarkerTag, content string) events.Event {
	return events.AgentMessage{Text: "<" + string(tag) + ">" + content + "</" + string(tag) + ">"}
}
