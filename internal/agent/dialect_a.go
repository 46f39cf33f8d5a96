package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cuggino/cuggino/internal/events"
)

// dialectA speaks the document-centric backend: records carry
// type ∈ {system,assistant,user,result,stream_event}.
type dialectA struct {
	bin string
}

func (d *dialectA) Spawn(ctx context.Context, opts SpawnOptions) (<-chan events.Event, <-chan error) {
	return runSpawn(ctx, opts.Cwd, d.bin, buildArgsA(opts), decodeLineA)
}

func (d *dialectA) Interactive(ctx context.Context, opts InteractiveOptions) (int, error) {
	return runInteractive(ctx, opts.Cwd, d.bin, buildInteractiveArgsA(opts))
}

func buildArgsA(opts SpawnOptions) []string {
	args := []string{
		"-p",
		"--output-format", "stream-json",
		"--verbose",
		"--include-partial-messages",
		"--disallowedTools", "AskUserQuestion",
	}
	if opts.DangerouslySkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	if opts.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", opts.SystemPrompt)
	}
	if opts.SessionID != "" {
		args = append(args, "--session-id", opts.SessionID)
	}
	if opts.ResumeSessionID != "" {
		args = append(args, "--resume", opts.ResumeSessionID)
	}
	args = append(args, "--", opts.Prompt)
	return args
}

func buildInteractiveArgsA(opts InteractiveOptions) []string {
	args := []string{"-p"}
	if opts.DangerouslySkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	if opts.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", opts.SystemPrompt)
	}
	return args
}

// recordA is the subset of dialect A's wire shape this adapter reads.
// Unknown fields are ignored by encoding/json, so each record struct
// names only what a given record type actually carries.
type recordA struct {
	Type    string    `json:"type"`
	Subtype string    `json:"subtype"`
	Error   string    `json:"error"`
	Message *messageA `json:"message"`
}

type messageA struct {
	Content []contentBlockA `json:"content"`
}

type contentBlockA struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   map[string]any  `json:"input"`
	Content json.RawMessage `json:"content"`
	IsError bool            `json:"is_error"`
}

func decodeLineA(line string) (evs []events.Event, terminal bool, failMsg string) {
	var rec recordA
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, false, ""
	}
	return decodeRecordA(rec)
}

func decodeRecordA(rec recordA) (evs []events.Event, terminal bool, failMsg string) {
	switch rec.Type {
	case "system":
		evs = append(evs, events.SystemMessage{Content: rec.Subtype})
	case "assistant":
		if rec.Message != nil {
			for _, b := range rec.Message.Content {
				switch b.Type {
				case "text":
					if b.Text != "" {
						evs = append(evs, events.AgentMessage{Text: b.Text})
					}
				case "tool_use":
					evs = append(evs, events.ToolCall{Name: b.Name, Input: b.Input})
				}
			}
		}
	case "user":
		if rec.Message != nil {
			for _, b := range rec.Message.Content {
				switch b.Type {
				case "text":
					if b.Text != "" {
						evs = append(evs, events.UserMessage{Text: b.Text})
					}
				case "tool_result":
					evs = append(evs, events.ToolResult{
						Name:    b.Name,
						Output:  flattenToolResultContent(b.Content),
						IsError: b.IsError,
					})
				}
			}
		}
	case "result":
		switch rec.Subtype {
		case "success":
			terminal = true
		case "error":
			failMsg = rec.Error
			if failMsg == "" {
				failMsg = "agent result reported an error"
			}
		}
	case "stream_event":
		evs = append(evs, events.Ping{Ts: time.Now()})
	}
	return
}

// flattenToolResultContent handles dialect A's tool_result content field,
// which is either a plain string or a list of {text} blocks to join with
// newlines.
func flattenToolResultContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			parts = append(parts, b.Text)
		}
		return strings.Join(parts, "\n")
	}
	return ""
}
