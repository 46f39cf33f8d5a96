package loop

import (
	"context"
	"os"

	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/git"
	"github.com/cuggino/cuggino/internal/prompts"
	"github.com/cuggino/cuggino/internal/session"
)

const implementingUserPrompt = "Continue implementing the focus described in your system prompt."

var implementingTags = []events.MarkerTag{events.TagSpecIssue, events.TagProgress, events.TagDone, events.TagNote}

// implementPhase runs the Implementing inner progress loop: repeatedly
// runs the check command, spawns the implementer, and auto-commits on
// Progress or Done, looping back on Progress until Done or SpecIssue.
func implementPhase(ctx context.Context, opts Options, sess *session.Session, out chan<- events.Event, iteration int, g *git.Git) (terminate bool, err error) {
	for {
		emit(ctx, out, events.ImplementingStart{Iteration: iteration})

		hasCheckOutput := false
		if opts.CheckCommand != "" {
			output, exitCode := runShell(ctx, opts.Cwd, opts.CheckCommand)
			if werr := os.WriteFile(sess.CheckOutputPath(), []byte(output), 0o644); werr != nil {
				return false, &cerrors.SessionError{Operation: "writeCheckOutput", SessionID: sess.ID(), Err: werr}
			}
			emit(ctx, out, events.CheckCommandOutput{Iteration: iteration, Output: output, ExitCode: exitCode, FilePath: sess.CheckOutputPath()})
			hasCheckOutput = true
		}

		systemPrompt := prompts.Implementing(prompts.ImplementingInput{
			Focus:           opts.Focus,
			SpecsPath:       opts.SpecsPath,
			TranscriptPath:  sess.TranscriptPath(),
			CheckOutputPath: sess.CheckOutputPath(),
			HasCheckOutput:  hasCheckOutput,
		})

		outcome, err := runPhase(ctx, opts.Adapter, opts.Cwd, systemPrompt, implementingUserPrompt, implementingTags, sess, cerrors.PhaseImplementing, out)
		if err != nil {
			return false, err
		}

		if opts.Commit && (outcome.tag == events.TagProgress || outcome.tag == events.TagDone) {
			if committed := autoCommit(ctx, g, opts.SpecsPath, outcome.content, iteration, out); committed && opts.Push != "" {
				autoPush(ctx, g, opts.Push, iteration, out)
			}
		}

		switch outcome.tag {
		case events.TagDone:
			return false, nil
		case events.TagProgress:
			continue
		case events.TagSpecIssue:
			return terminateWithSpecIssue(ctx, opts, out, iteration, outcome.content)
		default:
			return false, &cerrors.LoopError{Phase: cerrors.PhaseImplementing, Message: "unexpected marker " + string(outcome.tag)}
		}
	}
}
