package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cuggino/cuggino/internal/events"
)

// dialectB speaks the event-centric backend: records carry
// type ∈ {thread.started,item.started,item.completed,
// turn.completed,turn.failed}.
type dialectB struct {
	bin string
}

func (d *dialectB) Spawn(ctx context.Context, opts SpawnOptions) (<-chan events.Event, <-chan error) {
	return runSpawn(ctx, opts.Cwd, d.bin, buildArgsB(opts), decodeLineB)
}

func (d *dialectB) Interactive(ctx context.Context, opts InteractiveOptions) (int, error) {
	return runInteractive(ctx, opts.Cwd, d.bin, buildInteractiveArgsB(opts))
}

func buildArgsB(opts SpawnOptions) []string {
	args := []string{"exec", "--json"}
	if opts.DangerouslySkipPermissions {
		args = append(args, "--dangerously-bypass-approvals-and-sandbox")
	}
	if opts.SystemPrompt != "" {
		args = append(args, "--config", "developer_instructions="+opts.SystemPrompt)
	}
	args = append(args, "--", opts.Prompt)
	return args
}

func buildInteractiveArgsB(opts InteractiveOptions) []string {
	args := []string{"exec"}
	if opts.DangerouslySkipPermissions {
		args = append(args, "--dangerously-bypass-approvals-and-sandbox")
	}
	if opts.SystemPrompt != "" {
		args = append(args, "--config", "developer_instructions="+opts.SystemPrompt)
	}
	return args
}

type recordB struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Item  *itemB `json:"item"`
}

type itemB struct {
	Type    string         `json:"type"`
	Name    string         `json:"name"`
	Input   map[string]any `json:"input"`
	Output  string         `json:"output"`
	Status  string         `json:"status"`
	Content []itemContentB `json:"content"`
}

type itemContentB struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func decodeLineB(line string) (evs []events.Event, terminal bool, failMsg string) {
	var rec recordB
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, false, ""
	}
	return decodeRecordB(rec)
}

// decodeRecordB maps one dialect-B record to events. Every incoming line
// emits an implicit Ping in addition to whatever else its type produces.
func decodeRecordB(rec recordB) (evs []events.Event, terminal bool, failMsg string) {
	evs = append(evs, events.Ping{Ts: time.Now()})

	switch rec.Type {
	case "item.started":
		if rec.Item != nil && rec.Item.Type == "function_call" {
			evs = append(evs, events.ToolCall{Name: rec.Item.Name, Input: rec.Item.Input})
		}
	case "item.completed":
		if rec.Item == nil {
			break
		}
		switch rec.Item.Type {
		case "function_call_output":
			evs = append(evs, events.ToolResult{
				Name:    rec.Item.Name,
				Output:  rec.Item.Output,
				IsError: rec.Item.Status == "error",
			})
		case "message":
			for _, c := range rec.Item.Content {
				if c.Text != "" {
					evs = append(evs, events.AgentMessage{Text: c.Text})
				}
			}
		}
	case "turn.completed":
		terminal = true
	case "turn.failed":
		failMsg = rec.Error
		if failMsg == "" {
			failMsg = "agent turn failed"
		}
	}
	return
}
