package agent

import (
	"testing"

	"github.com/cuggino/cuggino/internal/events"
	"github.com/stretchr/testify/require"
)

func TestBuildArgsAIncludesOptionalFlags(t *testing.T) {
	args := buildArgsA(SpawnOptions{
		Cwd:                        "/work",
		Prompt:                     "do the thing",
		SystemPrompt:               "be terse",
		DangerouslySkipPermissions: true,
		SessionID:                  "sess-1",
		ResumeSessionID:            "sess-0",
	})
	require.Contains(t, args, "--dangerously-skip-permissions")
	require.Contains(t, args, "--append-system-prompt")
	require.Contains(t, args, "be terse")
	require.Contains(t, args, "--session-id")
	require.Contains(t, args, "sess-1")
	require.Contains(t, args, "--resume")
	require.Contains(t, args, "sess-0")
	require.Equal(t, "do the thing", args[len(args)-1])
	require.Equal(t, "--", args[len(args)-2])
}

func TestBuildArgsAOmitsOptionalFlagsByDefault(t *testing.T) {
	args := buildArgsA(SpawnOptions{Prompt: "hi"})
	require.NotContains(t, args, "--dangerously-skip-permissions")
	require.NotContains(t, args, "--session-id")
	require.NotContains(t, args, "--resume")
}

func TestDecodeRecordASystem(t *testing.T) {
	evs, terminal, failMsg := decodeRecordA(recordA{Type: "system", Subtype: "init"})
	require.False(t, terminal)
	require.Empty(t, failMsg)
	require.Equal(t, []events.Event{events.SystemMessage{Content: "init"}}, evs)
}

func TestDecodeRecordAAssistantTextAndToolUse(t *testing.T) {
	rec := recordA{
		Type: "assistant",
		Message: &messageA{Content: []contentBlockA{
			{Type: "text", Text: "reading file"},
			{Type: "tool_use", Name: "Read", Input: map[string]any{"path": "a.go"}},
		}},
	}
	evs, terminal, failMsg := decodeRecordA(rec)
	require.False(t, terminal)
	require.Empty(t, failMsg)
	require.Equal(t, []events.Event{
		events.AgentMessage{Text: "reading file"},
		events.ToolCall{Name: "Read", Input: map[string]any{"path": "a.go"}},
	}, evs)
}

func TestDecodeRecordAUserToolResultStringContent(t *testing.T) {
	rec := recordA{
		Type: "user",
		Message: &messageA{Content: []contentBlockA{
			{Type: "tool_result", Name: "Read", Content: []byte(`"file contents"`)},
		}},
	}
	evs, _, _ := decodeRecordA(rec)
	require.Equal(t, []events.Event{
		events.ToolResult{Name: "Read", Output: "file contents"},
	}, evs)
}

func TestDecodeRecordAUserToolResultBlockContent(t *testing.T) {
	rec := recordA{
		Type: "user",
		Message: &messageA{Content: []contentBlockA{
			{Type: "tool_result", Name: "Grep", IsError: true, Content: []byte(`[{"text":"line1"},{"text":"line2"}]`)},
		}},
	}
	evs, _, _ := decodeRecordA(rec)
	require.Equal(t, []events.Event{
		events.ToolResult{Name: "Grep", Output: "line1\nline2", IsError: true},
	}, evs)
}

func TestDecodeRecordAResultSuccessIsTerminal(t *testing.T) {
	evs, terminal, failMsg := decodeRecordA(recordA{Type: "result", Subtype: "success"})
	require.True(t, terminal)
	require.Empty(t, failMsg)
	require.Empty(t, evs)
}

func TestDecodeRecordAResultErrorFails(t *testing.T) {
	_, terminal, failMsg := decodeRecordA(recordA{Type: "result", Subtype: "error", Error: "boom"})
	require.False(t, terminal)
	require.Equal(t, "boom", failMsg)
}

func TestDecodeRecordAStreamEventEmitsPing(t *testing.T) {
	evs, _, _ := decodeRecordA(recordA{Type: "stream_event"})
	require.Len(t, evs, 1)
	_, ok := evs[0].(events.Ping)
	require.True(t, ok)
}

func TestDecodeLineADropsMalformedJSON(t *testing.T) {
	evs, terminal, failMsg := decodeLineA("not json")
	require.Nil(t, evs)
	require.False(t, terminal)
	require.Empty(t, failMsg)
}
