// Package snapshot holds the read-optimized, atomically swapped view of all
// published forms. Fill sessions and the resolution endpoint read from the
// snapshot instead of the store; writes rebuild it and notify subscribers.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/mkravets/formflow/internal/forms"
)

// Snapshot is an immutable view of all published forms for one environment.
type Snapshot struct {
	ETag      string                `json:"etag"`
	Forms     map[string]forms.Form `json:"forms"`
	Env       string                `json:"env"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

var current atomic.Pointer[Snapshot]

// Load returns the current snapshot; never nil.
func Load() *Snapshot {
	if s := current.Load(); s != nil {
		return s
	}
	return &Snapshot{ETag: "", Forms: map[string]forms.Form{}, UpdatedAt: time.Now().UTC()}
}

// Update swaps in a new snapshot and notifies subscribers of the new ETag.
func Update(s *Snapshot) {
	current.Store(s)
	publishUpdate(Notice{ETag: s.ETag, Forms: len(s.Forms)})
}

// Build assembles a snapshot from a form list, keeping only published forms
// and computing a content-derived ETag. The ETag is stable across rebuilds
// of identical content, so If-None-Match works across restarts.
func Build(all []forms.Form, env string) *Snapshot {
	published := make(map[string]forms.Form, len(all))
	for _, f := range all {
		if f.Published {
			published[f.Key] = f
		}
	}

	return &Snapshot{
		ETag:      computeETag(published),
		Forms:     published,
		Env:       env,
		UpdatedAt: time.Now().UTC(),
	}
}

func computeETag(published map[string]forms.Form) string {
	keys := make([]string, 0, len(published))
	for k := range published {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		// UpdatedAt is excluded so the hash tracks content, not load time.
		f := published[k]
		f.UpdatedAt = time.Time{}
		b, _ := json.Marshal(f)
		_, _ = h.Write(b)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
