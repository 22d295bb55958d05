package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

const (
	leaderboardCacheKey = "leaderboard:front"

	// nicestMinLogs is the report floor below which a handle is excluded
	// from the nicest ranking regardless of its percentage.
	nicestMinLogs = 5
)

type windowLister interface {
	Window(ctx context.Context, limit int) ([]models.WindowRow, error)
}

// LeaderboardServiceConfig tunes the aggregation window and cache behaviour.
type LeaderboardServiceConfig struct {
	WindowLimit int
	TopN        int
	CacheTTL    time.Duration
}

// LeaderboardService produces the ranked summaries for the board front page.
type LeaderboardService struct {
	logs   windowLister
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    LeaderboardServiceConfig
}

// NewLeaderboardService constructs the service.
func NewLeaderboardService(logs windowLister, cache *CacheService, logger *zap.Logger, cfg LeaderboardServiceConfig) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WindowLimit <= 0 {
		cfg.WindowLimit = 5000
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	return &LeaderboardService{
		logs:   logs,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// Boards returns the leaderboard, serving from cache when possible. The
// computation only sees the bounded recent window; older entries are an
// accepted approximation, not part of a global count.
func (s *LeaderboardService) Boards(ctx context.Context) (*models.Leaderboard, error) {
	var cached models.Leaderboard
	if hit, err := s.cache.Get(ctx, leaderboardCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	rows, err := s.logs.Window(ctx, s.cfg.WindowLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}

	board := ComputeLeaderboard(rows, s.now().UTC(), s.cfg.TopN)

	if err := s.cache.Set(ctx, leaderboardCacheKey, board, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return &board, nil
}

type tally struct {
	handleID string
	handle   string
	platform *string
	total    int
	last7d   int
	last24h  int
	good     int
}

// ComputeLeaderboard is a pure function over an in-memory window of log rows
// and an explicit now. Groups strictly by handle id; the display spelling and
// platform ride along for presentation. Ties break by handle id ascending so
// rankings are deterministic. An empty window yields empty lists, and a
// handle with zero entries inside a time window is absent from that window's
// list rather than present at zero.
func ComputeLeaderboard(rows []models.WindowRow, now time.Time, topN int) models.Leaderboard {
	tallies := make(map[string]*tally, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		t, ok := tallies[row.HandleID]
		if !ok {
			t = &tally{handleID: row.HandleID, handle: row.Handle, platform: row.Platform}
			tallies[row.HandleID] = t
			order = append(order, row.HandleID)
		}
		t.total++
		age := now.Sub(row.CreatedAt)
		if age <= 7*24*time.Hour {
			t.last7d++
		}
		if age <= 24*time.Hour {
			t.last24h++
		}
		if row.Sentiment == models.SentimentGood {
			t.good++
		}
	}

	board := models.Leaderboard{
		MostReportedAllTime: []models.LeaderEntry{},
		Most7d:              []models.LeaderEntry{},
		Most24h:             []models.LeaderEntry{},
		Nicest:              []models.NiceEntry{},
	}

	for _, id := range order {
		t := tallies[id]
		board.MostReportedAllTime = append(board.MostReportedAllTime, models.LeaderEntry{
			HandleID: t.handleID, Handle: t.handle, Platform: t.platform, Count: t.total,
		})
		if t.last7d > 0 {
			board.Most7d = append(board.Most7d, models.LeaderEntry{
				HandleID: t.handleID, Handle: t.handle, Platform: t.platform, Count: t.last7d,
			})
		}
		if t.last24h > 0 {
			board.Most24h = append(board.Most24h, models.LeaderEntry{
				HandleID: t.handleID, Handle: t.handle, Platform: t.platform, Count: t.last24h,
			})
		}
		if t.total >= nicestMinLogs {
			pct := int(math.Round(float64(t.good) / float64(t.total) * 100))
			board.Nicest = append(board.Nicest, models.NiceEntry{
				HandleID: t.handleID, Handle: t.handle, Platform: t.platform,
				Total: t.total, GoodPercent: pct,
			})
		}
	}

	sortLeaders(board.MostReportedAllTime)
	sortLeaders(board.Most7d)
	sortLeaders(board.Most24h)
	sort.Slice(board.Nicest, func(i, j int) bool {
		if board.Nicest[i].GoodPercent != board.Nicest[j].GoodPercent {
			return board.Nicest[i].GoodPercent > board.Nicest[j].GoodPercent
		}
		return board.Nicest[i].HandleID < board.Nicest[j].HandleID
	})

	if topN > 0 {
		board.MostReportedAllTime = truncateLeaders(board.MostReportedAllTime, topN)
		board.Most7d = truncateLeaders(board.Most7d, topN)
		board.Most24h = truncateLeaders(board.Most24h, topN)
		if len(board.Nicest) > topN {
			board.Nicest = board.Nicest[:topN]
		}
	}
	return board
}

func sortLeaders(entries []models.LeaderEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].HandleID < entries[j].HandleID
	})
}

func truncateLeaders(entries []models.LeaderEntry, n int) []models.LeaderEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
