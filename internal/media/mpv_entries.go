package media

// entryTracker maps mpv playlist entry ids to the locator each loadfile
// started. mpv starts entries in the order loadfile commands were issued.
// Callers hold the owning player's lock.
type entryTracker struct {
	queued   []string
	entries  map[int64]string
	activeID int64
	active   string
}

func newEntryTracker() *entryTracker {
	return &entryTracker{entries: make(map[int64]string)}
}

// loading records a loadfile about to be issued for src.
func (t *entryTracker) loading(src string) {
	t.queued = append(t.queued, src)
}

// abandon forgets the most recent loadfile for src after mpv rejected it.
func (t *entryTracker) abandon(src string) {
	for i := len(t.queued) - 1; i >= 0; i-- {
		if t.queued[i] == src {
			t.queued = append(t.queued[:i], t.queued[i+1:]...)
			return
		}
	}
}

// started binds entry id to the oldest pending loadfile and makes it the
// entry later file and property events belong to.
func (t *entryTracker) started(id int64) string {
	src, ok := t.entries[id]
	if !ok && len(t.queued) > 0 {
		src = t.queued[0]
		t.queued = t.queued[1:]
		t.entries[id] = src
	}
	t.activeID, t.active = id, src
	return src
}

// ended returns the locator entry id was started for and forgets it. ok is
// false for entries that were never seen starting.
func (t *entryTracker) ended(id int64) (src string, ok bool) {
	src, ok = t.entries[id]
	delete(t.entries, id)
	if ok && id == t.activeID {
		t.activeID, t.active = 0, ""
	}
	return src, ok
}

// current is the locator of the entry mpv is playing, empty before the
// first start.
func (t *entryTracker) current() string {
	return t.active
}
