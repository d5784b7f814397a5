package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	candles "trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/simulation/domain/entity"
)

// Policy decides one action per ticker from the current observation.
// The decision logic lives outside this service; Policy is its seam.
type Policy interface {
	Act(ctx context.Context, step int, observation []float64) ([]entity.Action, error)
}

// ScriptedPolicy replays a fixed list of action vectors and holds everything afterwards.
type ScriptedPolicy struct {
	Script  [][]entity.Action
	Tickers int // number of tickers, used for the trailing Hold vector
}

// Act returns Script[step], or all-Hold once the script is exhausted.
func (p *ScriptedPolicy) Act(_ context.Context, step int, _ []float64) ([]entity.Action, error) {
	if step < len(p.Script) {
		return p.Script[step], nil
	}
	hold := make([]entity.Action, p.Tickers)
	for i := range hold {
		hold[i] = entity.Hold
	}
	return hold, nil
}

// Runner drives episodes to completion.
type Runner struct {
	cfg         Config
	parallelism int
	now         func() time.Time
}

// NewRunner creates a Runner. parallelism bounds concurrent episodes in RunAll (0 = 4).
func NewRunner(cfg Config, parallelism int) *Runner {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &Runner{cfg: cfg, parallelism: parallelism, now: time.Now}
}

// Run plays one episode over corpus with policy and returns its trace.
func (r *Runner) Run(ctx context.Context, corpus *candles.Corpus, policy Policy) (*entity.Episode, error) {
	eng, err := NewEngine(corpus, r.cfg)
	if err != nil {
		return nil, err
	}

	ep := &entity.Episode{
		ID:        uuid.NewString(),
		Tickers:   eng.Tickers(),
		MaxSteps:  eng.MaxSteps(),
		StartedAt: r.now(),
	}
	obs := eng.Reset()

	for step := 0; !eng.Done(); step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actions, err := policy.Act(ctx, step, obs)
		if err != nil {
			return nil, fmt.Errorf("policy at step %d: %w", step, err)
		}
		res, err := eng.Step(actions)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		st := eng.State()
		ep.Steps = append(ep.Steps, entity.StepRecord{
			Step:     st.Step,
			Actions:  append([]entity.Action(nil), actions...),
			Reward:   res.Reward,
			Delta:    res.Delta,
			Value:    res.Value,
			Cash:     st.Cash,
			Done:     res.Done,
			Bankrupt: res.Bankrupt,
		})
		obs = res.Observation
	}

	ep.Final = eng.State()
	ep.FinishedAt = r.now()
	slog.Info("episode finished",
		"episode_id", ep.ID,
		"steps", len(ep.Steps),
		"final_reward", ep.FinalReward(),
		"bankrupt", ep.Bankrupt(),
	)
	return ep, nil
}

// RunAll plays one independent episode per policy concurrently. Each episode owns its Engine.
// Results are returned in policy order.
func (r *Runner) RunAll(ctx context.Context, corpus *candles.Corpus, policies []Policy) ([]*entity.Episode, error) {
	out := make([]*entity.Episode, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, p := range policies {
		g.Go(func() error {
			ep, err := r.Run(gctx, corpus, p)
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			out[i] = ep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
