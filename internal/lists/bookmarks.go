package lists

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/notexe/personal-hub/internal/hub"
	"github.com/notexe/personal-hub/internal/kvstore"
)

// BookmarkList owns the saved links.
type BookmarkList struct {
	mu    sync.Mutex
	store kvstore.Store
	items []hub.Bookmark
}

func OpenBookmarks(store kvstore.Store, opts ...Option) (*BookmarkList, error) {
	o := buildOptions(opts)
	items := hub.Load(store, hub.KeyBookmarks, hub.SeedBookmarks, o.logger)
	for i := range items {
		hub.FillBookmark(&items[i])
	}

	l := &BookmarkList{store: store, items: items}
	if err := l.save(); err != nil {
		return nil, err
	}
	return l, nil
}

func bookmarkID(b hub.Bookmark) string { return b.ID }

func (l *BookmarkList) save() error {
	return hub.Save(l.store, hub.KeyBookmarks, l.items)
}

func (l *BookmarkList) All() []hub.Bookmark {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]hub.Bookmark(nil), l.items...)
}

// Add saves a link. A URL without a scheme gets https://.
func (l *BookmarkList) Add(title, url, category string) (hub.Bookmark, error) {
	title, url = strings.TrimSpace(title), strings.TrimSpace(url)
	if title == "" || url == "" {
		return hub.Bookmark{}, fmt.Errorf("%w: title and url are required", ErrEmptyText)
	}
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	b := hub.Bookmark{ID: hub.NewID(), Title: title, URL: url, Category: strings.TrimSpace(category)}
	hub.FillBookmark(&b)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, b)
	return b, l.save()
}

func (l *BookmarkList) Delete(ref string) (hub.Bookmark, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, bookmarkID, ref)
	if err != nil {
		return hub.Bookmark{}, fmt.Errorf("bookmark %w", err)
	}
	removed := l.items[i]
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return removed, l.save()
}

// Visit counts a click and returns the bookmark.
func (l *BookmarkList) Visit(ref string) (hub.Bookmark, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := find(l.items, bookmarkID, ref)
	if err != nil {
		return hub.Bookmark{}, fmt.Errorf("bookmark %w", err)
	}
	l.items[i].ClickCount++
	return l.items[i], l.save()
}

// Move drops dragRef in front of targetRef.
func (l *BookmarkList) Move(dragRef, targetRef string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	from, err := find(l.items, bookmarkID, dragRef)
	if err != nil {
		return fmt.Errorf("bookmark %w", err)
	}
	to, err := find(l.items, bookmarkID, targetRef)
	if err != nil {
		return fmt.Errorf("bookmark %w", err)
	}
	if from == to {
		return nil
	}
	l.items = moveBefore(l.items, from, to)
	return l.save()
}

// Categories returns category names in order of first appearance.
func (l *BookmarkList) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range l.All() {
		if !seen[b.Category] {
			seen[b.Category] = true
			out = append(out, b.Category)
		}
	}
	return out
}

func (l *BookmarkList) ByCategory(category string) []hub.Bookmark {
	var out []hub.Bookmark
	for _, b := range l.All() {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

// Top returns up to n bookmarks with the most clicks.
func (l *BookmarkList) Top(n int) []hub.Bookmark {
	all := l.All()
	sort.SliceStable(all, func(i, j int) bool { return all[i].ClickCount > all[j].ClickCount })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}
