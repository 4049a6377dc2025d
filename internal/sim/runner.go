// Package sim drives episodes: each step feeds the current percepts to
// the knowledge base, runs one inference sweep, asks the policy for an
// action and applies it to the world. The loop is strictly sequential and
// single-threaded; nothing here blocks or spans steps.
package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wumpus/internal/kb"
	"wumpus/internal/policy"
	"wumpus/internal/world"
)

// Outcome classifies how an episode ended.
type Outcome string

const (
	OutcomeEscaped Outcome = "escaped"
	OutcomeDied    Outcome = "died"
	OutcomeStalled Outcome = "stalled"
)

// Result summarizes one finished episode.
type Result struct {
	EpisodeID   string
	Seed        int64
	Outcome     Outcome
	Score       int
	Steps       int
	GoldClaimed bool
	WumpusAlive bool
	Duration    time.Duration
}

// Options configures a Runner.
type Options struct {
	Size      int
	Start     kb.Cell
	PitChance float64
	Arrows    int
	MaxSteps  int
	Logger    *zap.Logger
}

func (o *Options) defaults() {
	if o.Size == 0 {
		o.Size = world.DefaultSize
	}
	if o.Start == (kb.Cell{}) {
		o.Start = kb.Cell{Row: o.Size - 1, Col: 0}
	}
	if o.PitChance == 0 {
		o.PitChance = world.PitChance
	}
	if o.Arrows == 0 {
		o.Arrows = 1
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = 200
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Runner owns one world/agent pair. It is not safe for concurrent use and
// does not need to be: one episode, one caller.
type Runner struct {
	opts      Options
	episodeID string
	seed      int64
	world     *world.World
	kb        *kb.KnowledgeBase
	policy    *policy.Policy
	steps     int
	log       *zap.Logger
}

// NewRunner builds a runner and rolls the first world from the seed.
func NewRunner(opts Options, seed int64) *Runner {
	opts.defaults()
	r := &Runner{opts: opts, log: opts.Logger}
	r.kb = kb.New(opts.Size, opts.Start)
	r.policy = policy.New(opts.Start, opts.Arrows)
	r.Reset(seed)
	return r
}

// Reset rolls a fresh world and clears the agent for a new episode.
func (r *Runner) Reset(seed int64) {
	r.seed = seed
	r.episodeID = uuid.NewString()
	r.world = world.NewRandom(r.opts.Size, r.opts.Start, r.opts.PitChance, r.opts.Arrows, rand.New(rand.NewSource(seed)))
	r.kb.Reset(r.opts.Start)
	r.policy.Reset(r.opts.Start, r.opts.Arrows)
	r.steps = 0

	// Log the start cell's initial percepts before the first decision,
	// the same way the original seeds its KB on reset.
	r.observe()
	r.log.Info("episode reset",
		zap.String("episode", r.episodeID),
		zap.Int64("seed", seed))
}

// EpisodeID returns the current episode's identifier.
func (r *Runner) EpisodeID() string { return r.episodeID }

// World exposes the hidden world for the renderer only.
func (r *Runner) World() *world.World { return r.world }

// KB exposes the agent's knowledge for the renderer only.
func (r *Runner) KB() *kb.KnowledgeBase { return r.kb }

// Policy exposes the decision engine, e.g. for the arrows-remaining slot.
func (r *Runner) Policy() *policy.Policy { return r.policy }

// Steps returns the number of agent decisions taken this episode.
func (r *Runner) Steps() int { return r.steps }

// Done reports whether the episode is over.
func (r *Runner) Done() bool {
	return !r.world.Alive()
}

// observe records the current cell's percepts and runs one sweep.
func (r *Runner) observe() kb.PerceptSet {
	percepts := r.world.Percepts()
	r.kb.RecordPercepts(percepts, r.world.Pose().Cell)
	r.kb.Infer()
	return percepts
}

// Step runs one agent decision: record -> infer -> decide -> apply.
// Returns the chosen action and the world's account of it. No-op once
// the episode is done.
func (r *Runner) Step() (policy.Action, world.Result) {
	if r.Done() {
		return "", world.Result{Percepts: kb.Percepts(), Message: "Game over"}
	}

	percepts := r.observe()
	pose := r.world.Pose()
	action := r.policy.ChooseAction(percepts, pose, r.kb)
	res := r.world.Apply(action)
	r.steps++

	r.kb.RecordPercepts(res.Percepts, r.world.Pose().Cell)
	r.kb.Infer()

	r.log.Debug("step",
		zap.String("episode", r.episodeID),
		zap.Int("step", r.steps),
		zap.String("action", string(action)),
		zap.String("cell", pose.Cell.String()),
		zap.Strings("percepts", res.Percepts.Names()),
		zap.Int("score", r.world.Score()))
	return action, res
}

// ApplyManual relays a player-issued action, keeping the knowledge base
// fed so autoplay can resume afterwards. Shoot goes through the policy's
// arrow slot: the policy never shoots on its own, the player may.
func (r *Runner) ApplyManual(action policy.Action) world.Result {
	if r.Done() {
		return world.Result{Percepts: kb.Percepts(), Message: "Game over"}
	}
	if action == policy.Shoot && !r.policy.SpendArrow() {
		return world.Result{Percepts: r.world.Percepts(), Message: "No arrows left, shot missed."}
	}
	res := r.world.Apply(action)
	r.kb.RecordPercepts(res.Percepts, r.world.Pose().Cell)
	r.kb.Infer()
	return res
}

// RunEpisode steps until the episode ends or the step budget runs out.
// The budget guards the known stall mode: the greedy return heuristic and
// the turn-left fallback can oscillate forever.
func (r *Runner) RunEpisode() Result {
	started := time.Now()
	for !r.Done() && r.steps < r.opts.MaxSteps {
		r.Step()
	}

	outcome := OutcomeStalled
	switch {
	case r.world.Escaped():
		outcome = OutcomeEscaped
	case !r.world.Alive():
		outcome = OutcomeDied
	}

	result := Result{
		EpisodeID:   r.episodeID,
		Seed:        r.seed,
		Outcome:     outcome,
		Score:       r.world.Score(),
		Steps:       r.steps,
		GoldClaimed: r.world.HasGold(),
		WumpusAlive: r.world.WumpusAlive(),
		Duration:    time.Since(started),
	}
	r.log.Info("episode finished",
		zap.String("episode", result.EpisodeID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("score", result.Score),
		zap.Int("steps", result.Steps))
	return result
}
