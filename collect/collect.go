// Package collect walks a user's submission and comment graph on Hacker
// News, resolving each item once and reconstructing ancestor chains, and
// produces the item table and thread roots that the renderer consumes.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hnlog/hnlog/hn"
	"github.com/hnlog/hnlog/sanitize"
)

// editWindow is how long HN allows an item to be edited. Anything older in
// a prior snapshot is immutable and safe to reuse without refetching.
const editWindow = 14 * 24 * time.Hour

// Fetcher resolves users and items remotely. GetItem returns (nil, nil)
// for IDs the API has no record of.
type Fetcher interface {
	GetUser(ctx context.Context, username string) (*hn.User, error)
	GetItem(ctx context.Context, id int) (*hn.Item, error)
}

// entry is one unit of pending work. parentOnly marks an ID fetched purely
// for ancestor context: its record is kept but its kids are not expanded,
// so the walk does not wander into sibling threads nobody asked about.
type entry struct {
	id         int
	parentOnly bool
}

type Collector struct {
	fetcher Fetcher
	now     func() time.Time
}

func New(fetcher Fetcher) *Collector {
	return &Collector{fetcher: fetcher, now: time.Now}
}

// Collect walks username's submitted items and everything reachable from
// them: reply subtrees downward and parent chains upward. prior may carry
// a previous run's items; entries older than the edit window are reused
// without a fetch. It returns the deduplicated item table and the IDs of
// parentless items in discovery order.
//
// A single unresolvable ID (the API answering null) is pruned silently.
// Any transport or decode failure aborts the whole walk.
func (c *Collector) Collect(ctx context.Context, username string, prior Items) (Items, []int, error) {
	user, err := c.fetcher.GetUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	items := Items{}
	var roots []int
	if user == nil || len(user.Submitted) == 0 {
		slog.Info("user has no submissions", "username", username)
		return items, roots, nil
	}

	cutoff := c.now().Add(-editWindow).Unix()

	queue := make([]entry, len(user.Submitted))
	for i, id := range user.Submitted {
		queue[i] = entry{id: id}
	}

	inRoots := map[int]bool{}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		e := queue[0]
		queue = queue[1:]
		if _, ok := items[e.id]; ok {
			continue
		}

		var item *hn.Item
		if cached, ok := prior[e.id]; ok && reusable(cached, cutoff) {
			slog.Info("CACHE", "id", e.id)
			item = cached
		}
		if item == nil {
			item, err = c.fetcher.GetItem(ctx, e.id)
			if err != nil {
				return nil, nil, fmt.Errorf("item %d: %w", e.id, err)
			}
		}
		if item == nil || item.ID == 0 {
			// Deleted or inaccessible upstream: prune, no children, no root.
			continue
		}

		item = enrich(item)

		// Ancestor context goes to the very front, ahead of this item's
		// own kids; kids keep their document order.
		var front []entry
		if item.Parent != nil {
			front = append(front, entry{id: *item.Parent, parentOnly: true})
		} else if !inRoots[item.ID] {
			inRoots[item.ID] = true
			roots = append(roots, item.ID)
		}
		if !e.parentOnly {
			for _, kid := range item.Kids {
				front = append(front, entry{id: kid})
			}
		}
		queue = append(front, queue...)

		items[e.id] = item
	}

	slog.Info("collection complete", "username", username, "items", len(items), "roots", len(roots))
	return items, roots, nil
}

// reusable reports whether a prior-run record can stand in for a fetch.
// A record missing its ID or timestamp is treated as a miss, as is
// anything still inside the edit window.
func reusable(item *hn.Item, cutoff int64) bool {
	return item != nil && item.ID != 0 && item.Time != 0 && item.Time < cutoff
}

// enrich returns a copy of item with its text sanitized and a
// human-readable local timestamp attached. The fetched record is left
// untouched. Sanitization is idempotent, so records reused from a prior
// snapshot come through unchanged.
func enrich(item *hn.Item) *hn.Item {
	out := *item
	if out.Text != "" {
		out.Text = sanitize.HTML(out.Text)
	}
	out.TimeISO = time.Unix(out.Time, 0).Format("2006-01-02 15:04:05 MST")
	return &out
}
