package loop

import (
	"context"

	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/prompts"
	"github.com/cuggino/cuggino/internal/session"
)

const planningUserPrompt = "Plan the focus described in your system prompt."

var planningTags = []events.MarkerTag{events.TagSpecIssue, events.TagPlanComplete}

// planPhase runs the Planning phase. Outcome PlanComplete commits the
// temp plan into the transcript and proceeds to Implementing; outcome
// SpecIssue ends the run.
func planPhase(ctx context.Context, opts Options, sess *session.Session, out chan<- events.Event, iteration int, reviewText string, hasReview bool) (terminate bool, err error) {
	emit(ctx, out, events.PlanningStart{Iteration: iteration})

	systemPrompt := prompts.Planning(prompts.PlanningInput{
		Focus:     opts.Focus,
		SpecsPath: opts.SpecsPath,
		PlanPath:  sess.TempPlanPath(),
		Review:    reviewText,
		HasReview: hasReview,
	})

	outcome, err := runPhase(ctx, opts.Adapter, opts.Cwd, systemPrompt, planningUserPrompt, planningTags, sess, cerrors.PhasePlanning, out)
	if err != nil {
		return false, err
	}

	switch outcome.tag {
	case events.TagPlanComplete:
		if err := sess.CommitTempPlan(); err != nil {
			return false, err
		}
		return false, nil
	case events.TagSpecIssue:
		return terminateWithSpecIssue(ctx, opts, out, iteration, outcome.content)
	default:
		return false, &cerrors.LoopError{Phase: cerrors.PhasePlanning, Message: "unexpected marker " + string(outcome.tag)}
	}
}
