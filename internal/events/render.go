package events

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	plannerColor     = color.New(color.FgCyan)
	implementerColor = color.New(color.FgGreen)
	reviewerColor    = color.New(color.FgYellow)
	watchColor       = color.New(color.FgMagenta)
	errorColor       = color.New(color.FgRed)
	dimColor         = color.New(color.FgHiBlack)
)

// Render writes a one- or two-line terminal representation of e to w,
// colored by phase/role. It never returns an error: a formatting problem
// here must not abort the loop it is observing.
func Render(w io.Writer, e Event) {
	ts := dimColor.Sprint(time.Now().Format("15:04:05"))
	switch v := e.(type) {
	case SystemMessage:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("system"), v.Content)
	case AgentMessage:
		fmt.Fprintf(w, "%s %s\n", ts, v.Text)
	case UserMessage:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("user"), v.Text)
	case ToolCall:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("tool>"), v.Name)
	case ToolResult:
		status := "ok"
		if v.IsError {
			status = errorColor.Sprint("error")
		}
		fmt.Fprintf(w, "%s %s %s (%s)\n", ts, dimColor.Sprint("tool<"), v.Name, status)
	case Ping:
		// heartbeats are not rendered; they exist only to signal liveness
	case Note:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("note"), v.Content())
	case SpecIssue:
		fmt.Fprintf(w, "%s %s %s\n", ts, errorColor.Sprint("SPEC_ISSUE"), v.Content())
	case Progress:
		fmt.Fprintf(w, "%s %s %s\n", ts, implementerColor.Sprint("PROGRESS"), v.Content())
	case Done:
		fmt.Fprintf(w, "%s %s %s\n", ts, implementerColor.Sprint("DONE"), v.Content())
	case Approved:
		fmt.Fprintf(w, "%s %s %s\n", ts, reviewerColor.Sprint("APPROVED"), v.Content())
	case RequestChanges:
		fmt.Fprintf(w, "%s %s %s\n", ts, reviewerColor.Sprint("REQUEST_CHANGES"), v.Content())
	case PlanComplete:
		fmt.Fprintf(w, "%s %s %s\n", ts, plannerColor.Sprint("PLAN_COMPLETE"), v.Content())
	case ToBeDiscussed:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("TO_BE_DISCUSSED"), v.Content())
	case IterationStart:
		fmt.Fprintf(w, "%s %s\n", ts, watchColor.Sprintf("── iteration %d/%d ──", v.Iteration, v.Max))
	case PlanningStart:
		fmt.Fprintf(w, "%s %s\n", ts, plannerColor.Sprintf("[plan] iteration %d", v.Iteration))
	case ImplementingStart:
		fmt.Fprintf(w, "%s %s\n", ts, implementerColor.Sprintf("[implement] iteration %d", v.Iteration))
	case ReviewingStart:
		fmt.Fprintf(w, "%s %s\n", ts, reviewerColor.Sprintf("[review] iteration %d", v.Iteration))
	case SetupCommandOutput:
		fmt.Fprintf(w, "%s %s (exit %d)\n", ts, dimColor.Sprint("setup"), v.ExitCode)
	case CheckCommandOutput:
		fmt.Fprintf(w, "%s %s (exit %d)\n", ts, dimColor.Sprint("check"), v.ExitCode)
	case LoopApproved:
		fmt.Fprintf(w, "%s %s\n", ts, reviewerColor.Sprintf("loop approved at iteration %d", v.Iteration))
	case LoopSpecIssue:
		fmt.Fprintf(w, "%s %s (%s)\n", ts, errorColor.Sprintf("loop blocked on spec issue at iteration %d", v.Iteration), v.Filename)
	case LoopMaxIterations:
		fmt.Fprintf(w, "%s %s\n", ts, errorColor.Sprintf("loop exhausted %d/%d iterations", v.Iteration, v.Max))
	case CommitPerformed:
		fmt.Fprintf(w, "%s %s %s: %s\n", ts, implementerColor.Sprint("commit"), v.Hash, v.Message)
	case CommitFailed:
		fmt.Fprintf(w, "%s %s %s\n", ts, errorColor.Sprint("commit failed"), v.Message)
	case PushPerformed:
		fmt.Fprintf(w, "%s %s %s/%s\n", ts, implementerColor.Sprint("push"), v.Remote, v.Branch)
	case PushFailed:
		fmt.Fprintf(w, "%s %s %s\n", ts, errorColor.Sprint("push failed"), v.Message)
	case BacklogWaiting:
		fmt.Fprintf(w, "%s %s\n", ts, watchColor.Sprint("waiting for backlog"))
	case ProcessingItem:
		fmt.Fprintf(w, "%s %s %s\n", ts, watchColor.Sprint("processing"), v.Filename)
	case ItemCompleted:
		fmt.Fprintf(w, "%s %s %s\n", ts, watchColor.Sprint("completed"), v.Filename)
	case ItemRetained:
		fmt.Fprintf(w, "%s %s %s\n", ts, watchColor.Sprint("retained"), v.Filename)
	case SpecIssueWaiting:
		fmt.Fprintf(w, "%s %s\n", ts, errorColor.Sprint("waiting on spec issues"))
	case AuditStarted:
		fmt.Fprintf(w, "%s %s\n", ts, dimColor.Sprint("audit started"))
	case AuditEnded:
		fmt.Fprintf(w, "%s %s\n", ts, dimColor.Sprint("audit ended"))
	case AuditInterrupted:
		fmt.Fprintf(w, "%s %s\n", ts, dimColor.Sprint("audit interrupted"))
	case TbdItemFound:
		fmt.Fprintf(w, "%s %s %s\n", ts, dimColor.Sprint("tbd"), v.Filename)
	default:
		fmt.Fprintf(w, "%s %s %v\n", ts, dimColor.Sprint("event"), e)
	}
}
