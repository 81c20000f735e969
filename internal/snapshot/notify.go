package snapshot

import "sync"

// Update notices carry just enough for an SSE client to decide whether to
// refetch the snapshot.
type Notice struct {
	ETag  string `json:"etag"`
	Forms int    `json:"forms"`
}

var (
	mu   sync.Mutex
	subs = make(map[chan Notice]struct{})
)

// Subscribe registers a listener and returns its channel and an unsubscribe
// func. The channel is buffered by one notice; slow listeners miss
// intermediate updates instead of blocking publishers.
func Subscribe() (<-chan Notice, func()) {
	ch := make(chan Notice, 1)
	mu.Lock()
	subs[ch] = struct{}{}
	mu.Unlock()

	unsub := func() {
		mu.Lock()
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		mu.Unlock()
	}
	return ch, unsub
}

// publishUpdate notifies all listeners without blocking on any of them.
func publishUpdate(n Notice) {
	mu.Lock()
	for ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}
	mu.Unlock()
}
