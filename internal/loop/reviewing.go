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

const reviewingUserPrompt = "Review the work against the focus described in your system prompt."

var reviewingTags = []events.MarkerTag{events.TagSpecIssue, events.TagApproved, events.TagRequestChanges}

// reviewPhase runs the Reviewing phase. Outcome Approved ends the run
// successfully; RequestChanges carries its text into the next
// iteration's Planning; SpecIssue ends the run.
func reviewPhase(ctx context.Context, opts Options, sess *session.Session, out chan<- events.Event, iteration int, g *git.Git, baselineCommit string) (terminate bool, requestChangesText string, err error) {
	emit(ctx, out, events.ReviewingStart{Iteration: iteration})

	hasCheckOutput := false
	if opts.CheckCommand != "" {
		output, exitCode := runShell(ctx, opts.Cwd, opts.CheckCommand)
		if werr := os.WriteFile(sess.CheckOutputPath(), []byte(output), 0o644); werr != nil {
			return false, "", &cerrors.SessionError{Operation: "writeCheckOutput", SessionID: sess.ID(), Err: werr}
		}
		emit(ctx, out, events.CheckCommandOutput{Iteration: iteration, Output: output, ExitCode: exitCode, FilePath: sess.CheckOutputPath()})
		hasCheckOutput = true
	}

	var diff string
	hasDiff := false
	if baselineCommit != "" && g != nil {
		if d, derr := g.Diff(ctx, baselineCommit); derr == nil && d != "" {
			diff, hasDiff = d, true
		}
	}

	systemPrompt := prompts.Reviewing(prompts.ReviewingInput{
		Focus:           opts.Focus,
		SpecsPath:       opts.SpecsPath,
		TranscriptPath:  sess.TranscriptPath(),
		CheckOutputPath: sess.CheckOutputPath(),
		HasCheckOutput:  hasCheckOutput,
		Diff:            diff,
		HasDiff:         hasDiff,
	})

	outcome, err := runPhase(ctx, opts.Adapter, opts.Cwd, systemPrompt, reviewingUserPrompt, reviewingTags, sess, cerrors.PhaseReviewing, out)
	if err != nil {
		return false, "", err
	}

	switch outcome.tag {
	case events.TagApproved:
		emit(ctx, out, events.LoopApproved{Iteration: iteration})
		return true, "", nil
	case events.TagRequestChanges:
		if _, exists, rerr := sess.ReadReview(); rerr != nil {
			return false, "", rerr
		} else if !exists {
			if werr := sess.WriteReview(outcome.content); werr != nil {
				return false, "", werr
			}
		}
		return false, outcome.content, nil
	case events.TagSpecIssue:
		t, terr := terminateWithSpecIssue(ctx, opts, out, iteration, outcome.content)
		return t, "", terr
	default:
		return false, "", &cerrors.LoopError{Phase: cerrors.PhaseReviewing, Message: "unexpected marker " + string(outcome.tag)}
	}
}
