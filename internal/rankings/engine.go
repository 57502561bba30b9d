package rankings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Engine builds leaderboards. It never writes league data.
type Engine struct {
	store       Store
	stats       StatsComputer
	cache       Cache
	cacheTTL    time.Duration
	metrics     Recorder
	concurrency int
}

type Option func(*Engine)

// WithCache serves repeated requests from c until Invalidate is called or ttl passes.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

func WithMetrics(m Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithConcurrency bounds how many players' statistics are computed at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func New(store Store, stats StatsComputer, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		stats:       stats,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TopPlayers returns the top limit players for metric, ranked from 1.
func (e *Engine) TopPlayers(ctx context.Context, metric Metric, limit int, filters Filters) ([]Entry, error) {
	limit = normalizeLimit(limit, DefaultLimit)
	key := fmt.Sprintf("top:%s:%d:%s", metric, limit, filters.key())

	var entries []Entry
	gen, hit := e.cached(ctx, key, &entries)
	if hit {
		return entries, nil
	}
	all, err := e.compute(ctx, metric, filters)
	if err != nil {
		return nil, err
	}
	entries = toEntries(all, metric, limit)
	e.remember(ctx, gen, key, entries)
	return entries, nil
}

// TopPlayersGrouped ranks once, then splits by gender into ALL, W and M, each
// re-ranked from 1 and truncated to limit.
func (e *Engine) TopPlayersGrouped(ctx context.Context, metric Metric, limit int, filters Filters) (Grouped, error) {
	limit = normalizeLimit(limit, DefaultLimit)
	key := fmt.Sprintf("grouped:%s:%d:%s", metric, limit, filters.key())

	var grouped Grouped
	gen, hit := e.cached(ctx, key, &grouped)
	if hit {
		return grouped, nil
	}
	all, err := e.compute(ctx, metric, filters)
	if err != nil {
		return Grouped{}, err
	}
	grouped = group(all, metric, limit)
	e.remember(ctx, gen, key, grouped)
	return grouped, nil
}

func (e *Engine) ByWins(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricWins, limit, f)
}

func (e *Engine) ByWinRate(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricWinRate, limit, f)
}

func (e *Engine) BySetsWon(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricSetsWon, limit, f)
}

func (e *Engine) ByTournamentsWon(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricTournamentsWon, limit, f)
}

func (e *Engine) ByLowestLosses(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricLowestLosses, limit, f)
}

func (e *Engine) ByPointsDifference(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricPointsDifference, limit, f)
}

func (e *Engine) ByEventsWon(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricEventsWon, limit, f)
}

func (e *Engine) ByGamesPlayed(ctx context.Context, limit int, f Filters) ([]Entry, error) {
	return e.TopPlayers(ctx, MetricGamesPlayed, limit, f)
}

// Invalidate drops every cached leaderboard. Call it after any league write.
func (e *Engine) Invalidate(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Invalidate(ctx)
}

// compute returns every eligible player for metric, sorted, unranked.
func (e *Engine) compute(ctx context.Context, metric Metric, filters Filters) ([]scored, error) {
	start := time.Now()

	var (
		all []scored
		err error
	)
	switch metric {
	case MetricWins:
		all, err = e.byWins(ctx, filters)
	case MetricWinRate:
		all, err = e.byWinRate(ctx, filters)
	case MetricSetsWon:
		all, err = e.bySetsWon(ctx, filters)
	case MetricTournamentsWon:
		all, err = e.byTournamentsWon(ctx, filters)
	case MetricLowestLosses:
		all, err = e.byLowestLosses(ctx, filters)
	case MetricPointsDifference:
		all, err = e.byPointsDifference(ctx, filters)
	case MetricEventsWon:
		all, err = e.byEventsWon(ctx, filters)
	case MetricGamesPlayed:
		all, err = e.byGamesPlayed(ctx, filters)
	default:
		return nil, fmt.Errorf("%q: %w", metric, ErrUnknownMetric)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rank by %s: %w", metric, err)
	}
	sortScored(all)

	if e.metrics != nil {
		e.metrics.IncRankingComputed(string(metric))
		e.metrics.ObserveRankingDuration(string(metric), time.Since(start))
	}
	log.Debug("Computed ranking", "metric", metric, "eligible", len(all), "duration", time.Since(start))
	return all, nil
}

// candidates returns the active players, narrowed to the event's members when filtered by event.
func (e *Engine) candidates(ctx context.Context, filters Filters) ([]league.Player, error) {
	active := true
	pf := league.PlayerFilter{Active: &active}
	if filters.EventID != "" {
		members, err := e.store.FindEventMembers(ctx, league.MemberFilter{EventID: filters.EventID})
		if err != nil {
			return nil, fmt.Errorf("failed to load members of event %s: %w", filters.EventID, err)
		}
		pf.IDs = make([]string, 0, len(members))
		for _, m := range members {
			pf.IDs = append(pf.IDs, m.PlayerID)
		}
	}
	return e.store.FindPlayers(ctx, pf)
}

// playerStats computes stats for every player concurrently. The result is aligned with
// players; a player that vanished mid-scan gets a nil entry.
func (e *Engine) playerStats(ctx context.Context, players []league.Player, r league.DateRange) ([]*statistics.PlayerStats, error) {
	out := make([]*statistics.PlayerStats, len(players))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, p := range players {
		g.Go(func() error {
			stats, err := e.stats.ComputePlayerStats(gctx, p.ID, r)
			if errors.Is(err, league.ErrNotFound) {
				log.Warn("Player disappeared while ranking", "player", p.ID)
				return nil
			}
			if err != nil {
				return err
			}
			out[i] = &stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// withStats runs fn for every candidate that has stats and collects what it keeps.
func (e *Engine) withStats(ctx context.Context, filters Filters, fn func(league.Player, statistics.PlayerStats) (scored, bool)) ([]scored, error) {
	players, err := e.candidates(ctx, filters)
	if err != nil {
		return nil, err
	}
	stats, err := e.playerStats(ctx, players, filters.Range)
	if err != nil {
		return nil, err
	}
	all := make([]scored, 0, len(players))
	for i, p := range players {
		if stats[i] == nil {
			continue
		}
		if s, ok := fn(p, *stats[i]); ok {
			all = append(all, s)
		}
	}
	return all, nil
}

// noGeneration tells remember not to store the result.
const noGeneration = -1

// cached looks key up and returns the cache generation the result must be stored under.
func (e *Engine) cached(ctx context.Context, key string, dst any) (int64, bool) {
	if e.cache == nil {
		return noGeneration, false
	}
	gen, hit, err := e.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn("Ranking cache read failed", "key", key, "error", err)
		gen, hit = noGeneration, false
	}
	if e.metrics != nil {
		if hit {
			e.metrics.IncCacheHit()
		} else {
			e.metrics.IncCacheMiss()
		}
	}
	return gen, hit
}

func (e *Engine) remember(ctx context.Context, gen int64, key string, value any) {
	if e.cache == nil || gen == noGeneration {
		return
	}
	if err := e.cache.Set(ctx, gen, key, value, e.cacheTTL); err != nil {
		log.Warn("Ranking cache write failed", "key", key, "error", err)
	}
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// sortScored orders by keys, then name, then id.
func sortScored(all []scored) {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		for k := range a.keys {
			if a.keys[k] != b.keys[k] {
				return a.keys[k] > b.keys[k]
			}
		}
		if a.player.Name != b.player.Name {
			return a.player.Name < b.player.Name
		}
		return a.player.ID < b.player.ID
	})
}

func toEntries(all []scored, metric Metric, limit int) []Entry {
	n := min(limit, len(all))
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, all[i].entry(metric, i+1))
	}
	return entries
}

func (s scored) entry(metric Metric, rank int) Entry {
	return Entry{
		Rank:        rank,
		Player:      s.player,
		Value:       s.value,
		Metric:      metric,
		TotalEvents: s.totalEvents,
		EventsWon:   s.eventsWon,
	}
}
