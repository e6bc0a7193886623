package trackable_test

import (
	"errors"
	"fmt"

	"github.com/mickamy/trackable"
)

var errEmptyTitle = errors.New("title must not be empty")

type Age int32

type Status string

type Author struct {
	Name string `attr:"name"`
}

type Article struct {
	trackable.Model

	Title     string   `attr:"title"`
	Author    *Author  `attr:"author"`
	Tags      []string `attr:"tags"`
	Published bool     `attr:"published"`
	Rank      int8     `attr:"rank"`
	Pages     int16    `attr:"pages"`
	Words     int32    `attr:"words"`
	Views     int64    `attr:"views"`
	Flags     uint8    `attr:"flags"`
	Revision  uint16   `attr:"revision"`
	Likes     uint32   `attr:"likes"`
	Bytes     uint64   `attr:"bytes"`
	Rating    float32  `attr:"rating"`
	Score     float64  `attr:"score"`
	Age       Age      `attr:"age"`
	Count     int      `attr:"count"`
	Headline  string   `attr:"headline,setter=Rename"`
	State     Status   `attr:"state"`

	Slug    string     `attr:"slug"`
	Version int        `attr:"version,readonly"`
	Phase   complex128 `attr:"phase"`
	Window  string     `attr:"window"`
	Note    string
}

var articles = trackable.MustRegister[Article](trackable.TypeConfig{})

func (a *Article) SetTitle(v string) error {
	if v == "" {
		return errEmptyTitle
	}
	a.Title = v
	return nil
}

func (a *Article) SetAuthor(v *Author) { a.Author = v }
func (a *Article) SetTags(v []string) { a.Tags = v }
func (a *Article) SetPublished(v bool) { a.Published = v }
func (a *Article) SetRank(v int8) { a.Rank = v }
func (a *Article) SetPages(v int16) { a.Pages = v }
func (a *Article) SetWords(v int32) { a.Words = v }
func (a *Article) SetViews(v int64) { a.Views = v }
func (a *Article) SetFlags(v uint8) { a.Flags = v }
func (a *Article) SetRevision(v uint16) { a.Revision = v }
func (a *Article) SetLikes(v uint32) { a.Likes = v }
func (a *Article) SetBytes(v uint64) { a.Bytes = v }
func (a *Article) SetRating(v float32) { a.Rating = v }
func (a *Article) SetScore(v float64) { a.Score = v }
func (a *Article) SetAge(v Age) { a.Age = v }
func (a *Article) SetCount(v int) { a.Count = v }
func (a *Article) Rename(v string) { a.Headline = v }
func (a *Article) SetState(v Status) { a.State = v }
func (a *Article) SetVersion(v int) { a.Version = v }
func (a *Article) SetPhase(v complex128) { a.Phase = v }
func (a *Article) SetWindow(from, to string) { a.Window = from + ".." + to }

// Hydrate maps keys the tags do not cover.
func (a *Article) Hydrate(p trackable.Payload) error {
	v, ok := p["subtitle"]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("subtitle: unexpected %T", v)
	}
	a.Headline = s
	return nil
}
