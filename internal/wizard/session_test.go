package wizard

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"resumeflow/internal/resume"
	"resumeflow/internal/store"
)

// fakeDraftStore 是内存草稿槽。
type fakeDraftStore struct {
	slots map[uint]resume.Record
	saves int
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{slots: make(map[uint]resume.Record)}
}

func (f *fakeDraftStore) Load(_ context.Context, ownerID uint) (resume.Record, error) {
	rec, ok := f.slots[ownerID]
	if !ok {
		return resume.DefaultRecord(), nil
	}
	return rec.Clone(), nil
}

func (f *fakeDraftStore) Save(_ context.Context, ownerID uint, rec resume.Record) error {
	f.saves++
	f.slots[ownerID] = rec.Clone()
	return nil
}

func (f *fakeDraftStore) Clear(_ context.Context, ownerID uint) error {
	delete(f.slots, ownerID)
	return nil
}

// fakeGateway 记录调用并返回预置结果。
type fakeGateway struct {
	saveCalls int
	saved     resume.Record
	remote    map[string]resume.Record
}

func (f *fakeGateway) Save(_ context.Context, rec resume.Record, ownerID uint) (resume.Record, error) {
	if ownerID == 0 {
		return resume.Record{}, store.ErrNotAuthenticated
	}
	f.saveCalls++
	out := rec.Clone()
	if out.ID == "" {
		out.ID = "1"
	}
	out.OwnerID = ownerID
	f.saved = out
	return out, nil
}

func (f *fakeGateway) GetForOwner(_ context.Context, id string, ownerID uint) (resume.Record, error) {
	rec, ok := f.remote[id]
	if !ok || rec.OwnerID != ownerID {
		return resume.Record{}, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func identity(id uint) Identity {
	return IdentityFunc(func() uint { return id })
}

func TestMutationsPersistToDraft(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()
	s := NewSession(drafts, &fakeGateway{}, identity(7))

	if err := s.SetTitle(ctx, "Backend Engineer"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := s.SetContactField(ctx, "fullName", "Jane Doe"); err != nil {
		t.Fatalf("set contact: %v", err)
	}

	slot, ok := drafts.slots[7]
	if !ok {
		t.Fatal("draft slot not written")
	}
	if slot.Title != "Backend Engineer" || slot.Contact.FullName != "Jane Doe" {
		t.Fatalf("draft = %+v", slot)
	}
	if !reflect.DeepEqual(slot, s.Record()) {
		t.Fatal("draft diverges from session record")
	}
}

func TestFailedMutationLeavesSessionIntact(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()
	s := NewSession(drafts, &fakeGateway{}, identity(7))

	before := s.Record()
	savesBefore := drafts.saves

	if err := s.RemoveExperience(ctx, 0); !errors.Is(err, resume.ErrLastEntry) {
		t.Fatalf("err = %v, want ErrLastEntry", err)
	}
	if err := s.SetExperienceField(ctx, 5, "title", "x"); !errors.Is(err, resume.ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}

	if !reflect.DeepEqual(before, s.Record()) {
		t.Fatal("failed mutation changed the record")
	}
	if drafts.saves != savesBefore {
		t.Fatal("failed mutation wrote the draft")
	}
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	s := NewSession(newFakeDraftStore(), &fakeGateway{}, identity(7))

	if err := s.SetTheme(context.Background(), resume.Theme("neon")); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("err = %v, want ErrInvalidTheme", err)
	}
	if err := s.SetTheme(context.Background(), resume.ThemeDark); err != nil {
		t.Fatalf("set valid theme: %v", err)
	}
	if got := s.Record().Theme; got != resume.ThemeDark {
		t.Fatalf("theme = %q", got)
	}
}

func TestStepNavigationClamps(t *testing.T) {
	s := NewSession(newFakeDraftStore(), &fakeGateway{}, identity(7))

	if s.Step() != StepBasicInfo {
		t.Fatalf("initial step = %v", s.Step())
	}
	if got := s.Prev(); got != StepBasicInfo {
		t.Fatalf("prev at first step = %v", got)
	}

	want := []Step{StepExperience, StepEducation, StepSkills, StepProjects, StepTheme}
	for _, w := range want {
		if got := s.Next(); got != w {
			t.Fatalf("next = %v, want %v", got, w)
		}
	}
	if got := s.Next(); got != StepTheme {
		t.Fatalf("next at last step = %v", got)
	}
}

func TestParseStepRoundTrip(t *testing.T) {
	for s := StepBasicInfo; s <= StepTheme; s++ {
		parsed, err := ParseStep(s.String())
		if err != nil {
			t.Fatalf("parse %q: %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("parse(%q) = %v, want %v", s.String(), parsed, s)
		}
	}
	if _, err := ParseStep("summary"); err == nil {
		t.Fatal("unknown step name accepted")
	}
}

func TestSaveClearsDraftAndResets(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()
	gw := &fakeGateway{}
	s := NewSession(drafts, gw, identity(7))

	if err := s.SetTitle(ctx, "Keep Me"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	s.Next()

	saved, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" || saved.OwnerID != 7 {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.Title != "Keep Me" {
		t.Fatalf("saved title = %q", saved.Title)
	}

	if _, ok := drafts.slots[7]; ok {
		t.Fatal("draft slot not cleared after save")
	}
	if !reflect.DeepEqual(s.Record(), resume.DefaultRecord()) {
		t.Fatal("session not reset to defaults after save")
	}
	if s.Step() != StepBasicInfo {
		t.Fatalf("step after save = %v", s.Step())
	}
}

func TestSaveWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()
	gw := &fakeGateway{}
	s := NewSession(drafts, gw, identity(0))

	if err := s.SetTitle(ctx, "Unsaved"); err != nil {
		t.Fatalf("set title: %v", err)
	}

	if _, err := s.Save(ctx); !errors.Is(err, store.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if gw.saveCalls != 0 {
		t.Fatal("gateway called without identity")
	}
	if s.Record().Title != "Unsaved" {
		t.Fatal("record lost after rejected save")
	}
	if drafts.slots[0].Title != "Unsaved" {
		t.Fatal("draft lost after rejected save")
	}
}

func TestBootstrapEditModePrefersRemote(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()

	stale := resume.DefaultRecord()
	stale.Title = "Stale Draft"
	drafts.slots[7] = stale

	fresh := resume.DefaultRecord()
	fresh.ID = "42"
	fresh.OwnerID = 7
	fresh.Title = "Remote Truth"
	gw := &fakeGateway{remote: map[string]resume.Record{"42": fresh}}

	s := NewSession(drafts, gw, identity(7))
	if err := s.Bootstrap(ctx, "42"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if got := s.Record().Title; got != "Remote Truth" {
		t.Fatalf("record title = %q, want remote record", got)
	}
	if drafts.slots[7].Title != "Remote Truth" {
		t.Fatal("draft slot not refreshed from remote")
	}
}

func TestBootstrapRestoresDraft(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDraftStore()

	prior := resume.DefaultRecord()
	prior.Title = "Work In Progress"
	drafts.slots[7] = prior

	s := NewSession(drafts, &fakeGateway{}, identity(7))
	if err := s.Bootstrap(ctx, ""); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if got := s.Record().Title; got != "Work In Progress" {
		t.Fatalf("record title = %q, want draft restored", got)
	}
}

func TestBootstrapEditModeErrors(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{remote: map[string]resume.Record{}}

	s := NewSession(newFakeDraftStore(), gw, identity(0))
	if err := s.Bootstrap(ctx, "42"); !errors.Is(err, store.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}

	s = NewSession(newFakeDraftStore(), gw, identity(7))
	if err := s.Bootstrap(ctx, "42"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDownloadUsesTitleForFilename(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newFakeDraftStore(), &fakeGateway{}, identity(7))

	if err := s.SetTitle(ctx, "Site Reliability Engineer"); err != nil {
		t.Fatalf("set title: %v", err)
	}

	name, content := s.Download()
	if name != "Site Reliability Engineer.txt" {
		t.Fatalf("filename = %q", name)
	}
	if !strings.Contains(content, "Resume Title: Site Reliability Engineer") {
		t.Fatalf("content missing title header:\n%s", content)
	}
}

func TestManagerReusesSessions(t *testing.T) {
	m := NewManager(newFakeDraftStore(), &fakeGateway{})

	a := m.Session(7)
	if m.Session(7) != a {
		t.Fatal("manager created a second session for the same user")
	}
	if m.Session(8) == a {
		t.Fatal("sessions shared across users")
	}

	m.Evict(7)
	if m.Session(7) == a {
		t.Fatal("evicted session still cached")
	}
}
