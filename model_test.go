package trackable_test

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/mickamy/trackable"
)

func TestModel_MarkDirty(t *testing.T) {
	t.Parallel()

	var m trackable.Model
	if m.IsDirty() {
		t.Fatalf("zero Model IsDirty() = true")
	}
	m.MarkDirty("title")
	m.MarkDirty("title")
	m.MarkDirty("")
	m.MarkDirty("author")

	if got, want := m.DirtyAttributes(), []string{"author", "title"}; !slices.Equal(got, want) {
		t.Fatalf("DirtyAttributes() = %v, want %v", got, want)
	}
	if !m.IsDirty() {
		t.Fatalf("IsDirty() = false, want true")
	}
	if !m.IsAttributeDirty("title") || m.IsAttributeDirty("views") {
		t.Fatalf("IsAttributeDirty mismatch: title=%v views=%v", m.IsAttributeDirty("title"), m.IsAttributeDirty("views"))
	}
}

func TestModel_MarkClean(t *testing.T) {
	t.Parallel()

	a, _ := articles.New(nil)
	_ = articles.Set(a, "title", "one")
	_ = articles.Set(a, "views", int64(1))
	a.MarkClean()

	if got := a.DirtyAttributes(); len(got) != 0 {
		t.Fatalf("DirtyAttributes() after MarkClean = %v, want empty", got)
	}
	if a.IsDirty() {
		t.Fatalf("IsDirty() after MarkClean = true")
	}

	// tracking resumes right away
	_ = articles.Set(a, "title", "two")
	if got := a.DirtyAttributes(); !slices.Equal(got, []string{"title"}) {
		t.Fatalf("DirtyAttributes() after reassign = %v, want [title]", got)
	}
}

func TestModel_SameValueTwice(t *testing.T) {
	t.Parallel()

	a, _ := articles.New(nil)
	for i := 0; i < 2; i++ {
		if err := articles.Set(a, "score", 1.5); err != nil {
			t.Fatalf("Set(score) error = %v", err)
		}
	}
	if got := a.DirtyAttributes(); !slices.Equal(got, []string{"score"}) {
		t.Fatalf("DirtyAttributes() = %v, want [score]", got)
	}
}

func TestModel_DirtyAttributesSnapshot(t *testing.T) {
	t.Parallel()

	a, _ := articles.New(nil)
	_ = articles.Set(a, "published", true)

	snap := a.DirtyAttributes()
	snap[0] = "tampered"
	_ = append(snap, "extra")
	clear(snap)

	if got := a.DirtyAttributes(); !slices.Equal(got, []string{"published"}) {
		t.Fatalf("DirtyAttributes() = %v, want [published]", got)
	}
	if !a.IsDirty() {
		t.Fatalf("IsDirty() = false after mutating the snapshot")
	}
}

func TestModel_IsDirtyMatchesSnapshot(t *testing.T) {
	t.Parallel()

	a, _ := articles.New(nil)
	steps := []func(){
		func() {},
		func() { _ = articles.Set(a, "rank", int8(1)) },
		func() { _ = articles.Set(a, "title", "") }, // rejected by the setter
		func() { a.MarkClean() },
		func() { a.MarkDirty("custom") },
		func() { a.MarkClean() },
	}
	for i, step := range steps {
		step()
		if a.IsDirty() != (len(a.DirtyAttributes()) > 0) {
			t.Fatalf("step %d: IsDirty() = %v, DirtyAttributes() = %v", i, a.IsDirty(), a.DirtyAttributes())
		}
	}
}

func TestModel_ConcurrentMarkDirty(t *testing.T) {
	t.Parallel()

	var m trackable.Model
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.MarkDirty(fmt.Sprintf("attr%d", i%8))
			_ = m.DirtyAttributes()
		}(i)
	}
	wg.Wait()
	if got := len(m.DirtyAttributes()); got != 8 {
		t.Fatalf("len(DirtyAttributes()) = %d, want 8", got)
	}
}
