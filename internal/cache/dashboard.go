package cache

import (
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

// Source is the part of the ledger the dashboard cache reads from.
type Source interface {
	Revision() uint64
	Snapshot() core.Snapshot
}

// Dashboards memoizes report.Build per store revision and month. A commit
// bumps the revision, so stale entries are never served; they age out by
// TTL or LRU pressure.
type Dashboards struct {
	src   Source
	lru   *LRUCache[report.Dashboard]
	build func(core.Snapshot, report.Month) report.Dashboard
}

func NewDashboards(src Source, size int, ttl time.Duration) *Dashboards {
	return &Dashboards{
		src:   src,
		lru:   NewLRUCache[report.Dashboard](size, ttl),
		build: report.Build,
	}
}

// Get returns the dashboard for m and whether it came from the cache.
func (d *Dashboards) Get(m report.Month) (report.Dashboard, bool) {
	rev := d.src.Revision()
	key := dashboardKey(rev, m)
	if v, ok := d.lru.Get(key); ok {
		return v, true
	}

	snap := d.src.Snapshot()
	v := d.build(snap, m)
	// Only cache if no commit slipped in between Revision and Snapshot.
	if d.src.Revision() == rev {
		d.lru.Set(key, v)
	}
	return v, false
}

func (d *Dashboards) CleanExpired() int { return d.lru.CleanExpired() }

func (d *Dashboards) Size() int { return d.lru.Size() }

func dashboardKey(rev uint64, m report.Month) string {
	month := m.String()
	if m.IsZero() {
		month = "all"
	}
	return strconv.FormatUint(rev, 10) + ":" + month
}
