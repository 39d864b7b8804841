// Package orchestrate sequences a partition run: inventory the tree, let the
// user pick files when nothing is staged, chunk the staged diff, ask the
// classifier for commit groups, then stage and commit each group in order.
// One bad group is skipped with a warning; only a failed commit creation
// aborts the run, leaving already-created commits intact.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gitsplit/internal/chunk"
	"github.com/gitsplit/internal/classify"
	"github.com/gitsplit/internal/gitexec"
	"github.com/gitsplit/internal/inventory"
	"github.com/gitsplit/internal/patch"
	"github.com/gitsplit/internal/stage"
	"github.com/gitsplit/internal/ui"
	"github.com/gitsplit/pkg/models"
)

// lockfileNames are dependency manifests that, when found among the initial
// staged files, are extracted into their own leading commit.
var lockfileNames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"go.sum":            {},
	"Cargo.lock":        {},
	"composer.lock":     {},
	"Gemfile.lock":      {},
	"poetry.lock":       {},
	"uv.lock":           {},
}

// Result summarizes a finished run.
type Result struct {
	State          State
	GroupsProposed int
	CommitsCreated int
	GroupsSkipped  int
	Reason         string
}

// Runner drives the partition state machine. All git I/O goes through the
// injected gateway; the classifier and selector are blocking collaborators.
type Runner struct {
	git        gitexec.Runner
	inv        *inventory.Inventory
	selector   ui.Selector
	classifier classify.Classifier
	stager     *stage.Stager
	writer     *stage.CommitWriter

	chunkSize int
	dryRun    bool
	out       io.Writer

	state State
}

type Option func(*Runner)

// WithDryRun stops the run after displaying the proposed groups.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithChunkSize overrides the classifier chunk byte bound.
func WithChunkSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.chunkSize = size
		}
	}
}

func New(git gitexec.Runner, selector ui.Selector, classifier classify.Classifier, out io.Writer, opts ...Option) *Runner {
	stager := stage.NewStager(git, patch.NewValidator(git))
	r := &Runner{
		git:        git,
		inv:        inventory.New(git),
		selector:   selector,
		classifier: classifier,
		stager:     stager,
		writer:     stage.NewCommitWriter(git, stager),
		chunkSize:  defaultChunkSize,
		out:        out,
		state:      Idle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const defaultChunkSize = 12000

// State reports the machine's current position.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) transition(next State) {
	log.Debug().Stringer("from", r.state).Stringer("to", next).Msg("state transition")
	r.state = next
}

func (r *Runner) abort(reason string) Result {
	r.transition(Aborted)
	log.Warn().Msg(reason)
	return Result{State: Aborted, Reason: reason}
}

// Run executes one full partition run. A non-nil error is fatal: a commit
// failed mid-run and the tree is left in its partially-committed state.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.transition(Inventorying)

	staged := r.inv.Staged(ctx)
	if len(staged) == 0 {
		unstaged := r.inv.Unstaged(ctx)
		if len(unstaged) == 0 {
			return r.abort("nothing to commit: working tree is clean"), nil
		}

		r.transition(AwaitingSelection)
		selected := r.selector.SelectFiles(unstaged)
		if len(selected) == 0 {
			return r.abort("no files selected"), nil
		}
		for _, path := range selected {
			if _, err := r.git.Run(ctx, "add", "--", path); err != nil {
				log.Warn().Str("path", path).Err(err).Msg("could not stage selected file")
			}
		}
		staged = r.inv.Staged(ctx)
		if len(staged) == 0 {
			return r.abort("selection produced no staged files"), nil
		}
	}

	lockCommits, res, done, err := r.commitLockfiles(ctx, staged)
	if done {
		return res, err
	}

	r.transition(Chunking)
	diff := r.inv.StagedDiff(ctx)
	if strings.TrimSpace(diff) == "" {
		res = r.abort("staged diff is empty")
		res.CommitsCreated = lockCommits
		return res, nil
	}
	chunks := chunk.Split(diff, r.chunkSize)

	r.transition(Classifying)
	groups := r.classifier.Classify(ctx, chunks)
	if len(groups) == 0 {
		res = r.abort("no commit messages generated")
		res.CommitsCreated = lockCommits
		return res, nil
	}

	r.transition(AwaitingConfirmation)
	r.render(groups)
	if r.dryRun {
		res = r.abort("dry run: no commits created")
		res.GroupsProposed = len(groups)
		res.CommitsCreated = lockCommits
		return res, nil
	}
	if !r.selector.Confirm(fmt.Sprintf("Create %d commits?", len(groups))) {
		res = r.abort("aborted by user")
		res.GroupsProposed = len(groups)
		res.CommitsCreated = lockCommits
		return res, nil
	}

	res, err = r.commitGroups(ctx, groups)
	res.CommitsCreated += lockCommits
	return res, err
}

// commitLockfiles pulls dependency manifests out of the initial staged set
// into one leading commit, then restores the rest of the staged files so the
// partition diff is recomputed without them. done=true short-circuits the
// run (fatal error or nothing left to partition); the int is the number of
// lockfile commits created (0 or 1).
func (r *Runner) commitLockfiles(ctx context.Context, staged []models.WorkingTreeChange) (int, Result, bool, error) {
	var locks, rest []string
	for _, c := range staged {
		if _, ok := lockfileNames[baseName(c.Path)]; ok {
			locks = append(locks, c.Path)
		} else {
			rest = append(rest, c.Path)
		}
	}
	if len(locks) == 0 {
		return 0, Result{}, false, nil
	}

	log.Info().Strs("paths", locks).Msg("committing dependency lockfiles separately")
	if err := r.stager.Reset(ctx); err != nil {
		return 0, Result{State: r.state}, true, err
	}
	for _, path := range locks {
		if _, err := r.git.Run(ctx, "add", "--", path); err != nil {
			log.Warn().Str("path", path).Err(err).Msg("could not stage lockfile")
		}
	}
	commits := 0
	if len(r.stager.StagedPaths(ctx)) > 0 {
		if err := r.writer.Commit(ctx, models.TypeBuild, "update dependency lockfiles", nil); err != nil {
			return 0, Result{State: r.state}, true, err
		}
		commits = 1
	}
	for _, path := range rest {
		if _, err := r.git.Run(ctx, "add", "--", path); err != nil {
			log.Warn().Str("path", path).Err(err).Msg("could not restage file")
		}
	}
	if len(rest) == 0 {
		res := r.abort("only lockfiles were staged; nothing left to partition")
		res.CommitsCreated = commits
		return commits, res, true, nil
	}
	return commits, Result{}, false, nil
}

// commitGroups processes the classifier's groups strictly in order. Staging
// failures skip the group; a commit failure is fatal and already-created
// commits stay.
func (r *Runner) commitGroups(ctx context.Context, groups []models.CommitGroup) (Result, error) {
	res := Result{GroupsProposed: len(groups)}

	if err := r.stager.Reset(ctx); err != nil {
		res.State = r.state
		return res, err
	}

	for i, group := range groups {
		r.transition(Committing)
		log.Info().Int("group", i+1).Int("of", len(groups)).Str("subject", group.Subject()).Msg("processing commit group")

		if err := r.stageGroup(ctx, group); err != nil {
			log.Warn().Int("group", i+1).Err(err).Msg("skipping group: staging failed")
			res.GroupsSkipped++
			if err := r.stager.Reset(ctx); err != nil {
				res.State = r.state
				return res, err
			}
			continue
		}

		if len(r.stager.StagedPaths(ctx)) == 0 {
			log.Warn().Int("group", i+1).Msg("skipping group: nothing ended up staged")
			res.GroupsSkipped++
			continue
		}

		// Hunks were already staged above; commit the index as-is.
		if err := r.writer.Commit(ctx, group.Type, group.Message, nil); err != nil {
			res.State = r.state
			return res, fmt.Errorf("commit %q failed: %w", group.Subject(), err)
		}
		res.CommitsCreated++

		if err := r.stager.Reset(ctx); err != nil {
			res.State = r.state
			return res, err
		}
	}

	r.transition(Done)
	res.State = Done
	log.Info().Int("commits", res.CommitsCreated).Int("skipped", res.GroupsSkipped).Msg("partition run complete")
	return res, nil
}

// stageGroup stages one group's changes: the combined hunk text is applied
// to the index when it validates, otherwise staging falls back to file-path
// reconciliation from the hunks' diff headers.
func (r *Runner) stageGroup(ctx context.Context, group models.CommitGroup) error {
	err := r.stager.ApplyHunks(ctx, group.Hunks)
	if err == nil {
		return nil
	}
	if !errors.Is(err, stage.ErrInvalidPatch) && !errors.Is(err, stage.ErrNoFilesResolved) {
		return err
	}

	log.Warn().Err(err).Msg("direct patch application failed, staging by file path")
	return r.stager.StageFiles(ctx, group.Hunks)
}

func (r *Runner) render(groups []models.CommitGroup) {
	fmt.Fprintf(r.out, "\nProposed commits (%d):\n", len(groups))
	for i, g := range groups {
		fmt.Fprintf(r.out, "  %d. %-50s (%d hunks)\n", i+1, g.Subject(), len(g.Hunks))
	}
	fmt.Fprintln(r.out)
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		return path[idx+1:]
	}
	return path
}
