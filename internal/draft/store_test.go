package draft

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"resumeflow/internal/resume"
)

type fakeKV struct {
	data map[string]string
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &RedisStore{client: newFakeKV()}

	rec := resume.DefaultRecord()
	rec.Title = "Round Trip"
	rec.Contact.FullName = "Jane Doe"
	rec.Skills = []string{"Go", "SQL", "Redis"}
	rec.WorkExperience[0].Achievements[1] = "did the thing"

	if err := store.Save(ctx, 7, rec); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	got, err := store.Load(ctx, 7)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestLoadMissingSlotReturnsDefaults(t *testing.T) {
	store := &RedisStore{client: newFakeKV()}

	got, err := store.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, resume.DefaultRecord()) {
		t.Fatalf("missing slot should yield defaults, got %+v", got)
	}
}

func TestLoadCorruptSlotFallsBackToDefaults(t *testing.T) {
	kv := newFakeKV()
	kv.data[draftKey(3)] = "{not json"
	store := &RedisStore{client: kv}

	got, err := store.Load(context.Background(), 3)
	if err != nil {
		t.Fatalf("corrupt slot must not error: %v", err)
	}
	if !reflect.DeepEqual(got, resume.DefaultRecord()) {
		t.Fatalf("corrupt slot should yield defaults, got %+v", got)
	}
}

func TestLoadUnavailableStorage(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("connection refused")
	store := &RedisStore{client: kv}

	got, err := store.Load(context.Background(), 3)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	// 即便存储不可用也要交回一份可编辑的记录。
	if !reflect.DeepEqual(got, resume.DefaultRecord()) {
		t.Fatalf("expected defaults alongside the error, got %+v", got)
	}
}

func TestClearRemovesSlot(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := &RedisStore{client: kv}

	if err := store.Save(ctx, 5, resume.DefaultRecord()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx, 5); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := kv.data[draftKey(5)]; ok {
		t.Fatal("slot not deleted")
	}
}
