package snapshot

import (
	"testing"
	"time"

	"github.com/mkravets/formflow/internal/forms"
)

func sampleForms() []forms.Form {
	return []forms.Form{
		{Key: "onboarding", Published: true, Env: "prod", Fields: []forms.Field{{ID: "f1", Type: "text"}}},
		{Key: "draft", Published: false, Env: "prod"},
		{Key: "feedback", Published: true, Env: "prod"},
	}
}

func TestBuild_KeepsOnlyPublishedForms(t *testing.T) {
	s := Build(sampleForms(), "prod")

	if len(s.Forms) != 2 {
		t.Fatalf("snapshot has %d forms, want 2 published", len(s.Forms))
	}
	if _, ok := s.Forms["draft"]; ok {
		t.Fatal("unpublished form leaked into the snapshot")
	}
	if s.ETag == "" {
		t.Fatal("ETag must be set")
	}
}

func TestBuild_ETagTracksContent(t *testing.T) {
	a := Build(sampleForms(), "prod")
	b := Build(sampleForms(), "prod")
	if a.ETag != b.ETag {
		t.Fatalf("identical content produced different ETags: %s vs %s", a.ETag, b.ETag)
	}

	// UpdatedAt alone must not change the hash.
	changed := sampleForms()
	changed[0].UpdatedAt = time.Now().UTC()
	if c := Build(changed, "prod"); c.ETag != a.ETag {
		t.Fatal("UpdatedAt should be excluded from the ETag")
	}

	changed[0].Fields = append(changed[0].Fields, forms.Field{ID: "f2", Type: "number"})
	if c := Build(changed, "prod"); c.ETag == a.ETag {
		t.Fatal("content change should change the ETag")
	}
}

func TestUpdateNotifiesSubscribers(t *testing.T) {
	ch, unsub := Subscribe()
	defer unsub()

	s := Build(sampleForms(), "prod")
	Update(s)

	select {
	case n := <-ch:
		if n.ETag != s.ETag || n.Forms != 2 {
			t.Fatalf("notice = %+v, want etag %s forms 2", n, s.ETag)
		}
	case <-time.After(time.Second):
		t.Fatal("no notice received")
	}

	if got := Load(); got.ETag != s.ETag {
		t.Fatalf("Load().ETag = %s, want %s", got.ETag, s.ETag)
	}
}

func TestLoadBeforeFirstUpdate(t *testing.T) {
	// Load never returns nil even when nothing was published yet; reset the
	// global to simulate a fresh process.
	current.Store(nil)
	s := Load()
	if s == nil || s.Forms == nil {
		t.Fatal("Load must return a usable empty snapshot")
	}
}
