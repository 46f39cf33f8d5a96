package loop

import (
	"context"
	"sync"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/events"
)

// scriptedSpawn is one fakeAdapter.Spawn call's canned response.
// sideEffect, if set, runs synchronously before any event is streamed —
// tests use it to mutate the working directory so a subsequent
// auto-commit has something to stage.
type scriptedSpawn struct {
	events     []events.Event
	err        error
	sideEffect func()
}

// fakeAdapter replays a fixed sequence of spawn scripts in call order,
// standing in for a real agent.Adapter in loop engine tests.
type fakeAdapter struct {
	mu     sync.Mutex
	script []scriptedSpawn
	calls  []agent.SpawnOptions
}

func (f *fakeAdapter) Spawn(ctx context.Context, opts agent.SpawnOptions) (<-chan events.Event, <-chan error) {
	f.mu.Lock()
	i := len(f.calls)
	f.calls = append(f.calls, opts)
	f.mu.Unlock()

	out := make(chan events.Event)
	errc := make(chan error, 1)

	if i >= len(f.script) {
		close(out)
		errc <- &agentOverrunError{}
		close(errc)
		return out, errc
	}

	s := f.script[i]
	if s.sideEffect != nil {
		s.sideEffect()
	}
	go func() {
		defer close(out)
		defer close(errc)
		for _, e := range s.events {
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
		if s.err != nil {
			errc <- s.err
		}
	}()
	return out, errc
}

func (f *fakeAdapter) Interactive(ctx context.Context, opts agent.InteractiveOptions) (int, error) {
	return 0, nil
}

type agentOverrunError struct{}

func (*agentOverrunError) Error() string { return "fakeAdapter: spawned more times than scripted" }

func marker(tag events.MarkerTag, content string) events.Event {
	return events.AgentMessage{Text: "<" + string(tag) + ">" + content + "</" + string(tag) + ">"}
}
