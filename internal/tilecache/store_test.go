package tilecache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/clock"
	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/tile"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newStore(kv kvstore.KV) (*Store, *clock.Fake) {
	clk := clock.NewFake(epoch)
	return New(kv, WithClock(clk)), clk
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(kvstore.NewMemory(0))
	want := tile.Success("https://x/a.png", "Dog CEO API")

	s.Write(ctx, "dog", want)
	e, ok := s.Read(ctx, "dog")
	if !ok {
		t.Fatal("expected entry after write")
	}
	if e.Legacy {
		t.Error("fresh write reported as legacy")
	}
	if age := e.Age(s.Now()); age != 0 {
		t.Errorf("age = %v, want 0", age)
	}
	if e.Data != want {
		t.Errorf("data = %+v, want %+v", e.Data, want)
	}
}

func TestStoredShape(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)
	s, _ := newStore(kv)

	s.Write(ctx, "fox", tile.Success("", "Floofy fox"))
	raw, ok, _ := kv.Get(ctx, "animal-tile-fox")
	if !ok {
		t.Fatal("nothing stored under animal-tile-fox")
	}
	want := `{"ts":1714564800000,"data":{"image":null,"text":"Floofy fox"}}`
	if string(raw) != want {
		t.Errorf("stored %s, want %s", raw, want)
	}
}

func TestWriteSkipsFailures(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)
	s, _ := newStore(kv)

	s.Write(ctx, "dog", tile.Failure("HTTP 500"))
	if kv.Len() != 0 {
		t.Error("failed result was cached")
	}
}

func TestReadShapes(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		wantOK   bool
		legacy   bool
		wantData tile.Result
		wantAge  time.Duration
	}{
		{
			name:     "wrapped",
			stored:   `{"ts":1714564500000,"data":{"image":"https://i/1.jpg","text":"hi"}}`,
			wantOK:   true,
			wantData: tile.Success("https://i/1.jpg", "hi"),
			wantAge:  5 * time.Minute,
		},
		{
			name:     "wrapped with zero ts",
			stored:   `{"ts":0,"data":{"image":null,"text":"old"}}`,
			wantOK:   true,
			wantData: tile.Success("", "old"),
			wantAge:  epoch.Sub(time.UnixMilli(0)),
		},
		{
			name:     "legacy bare result",
			stored:   `{"image":"https://i/2.jpg","text":"legacy"}`,
			wantOK:   true,
			legacy:   true,
			wantData: tile.Success("https://i/2.jpg", "legacy"),
			wantAge:  Infinite,
		},
		{
			name:     "string ts falls back to legacy",
			stored:   `{"ts":"yesterday","data":{"text":"x"},"text":"outer"}`,
			wantOK:   true,
			legacy:   true,
			wantData: tile.Success("", "outer"),
			wantAge:  Infinite,
		},
		{name: "corrupt", stored: `{"ts":17145`},
		{name: "not json", stored: `<html>`},
		{name: "null", stored: `null`},
		{name: "array", stored: `[1,2]`},
		{name: "empty object", stored: `{}`},
		{name: "wrapped null data", stored: `{"ts":1,"data":null}`},
		{name: "stored failure", stored: `{"error":"HTTP 500"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := kvstore.NewMemory(0)
			kv.Set(ctx, Key("koala"), []byte(tt.stored))
			s, _ := newStore(kv)

			e, ok := s.Read(ctx, "koala")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if e.Legacy != tt.legacy {
				t.Errorf("legacy = %v, want %v", e.Legacy, tt.legacy)
			}
			if e.Data != tt.wantData {
				t.Errorf("data = %+v, want %+v", e.Data, tt.wantData)
			}
			if age := e.Age(epoch); age != tt.wantAge {
				t.Errorf("age = %v, want %v", age, tt.wantAge)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	s, _ := newStore(kvstore.NewMemory(0))
	if _, ok := s.Read(context.Background(), "nope"); ok {
		t.Error("missing key reported present")
	}
}

func TestEvictAllIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)
	s, _ := newStore(kv)
	ids := []string{"dog", "fox", "bird"}
	for _, id := range ids[:2] {
		s.Write(ctx, id, tile.Success("", id))
	}
	kv.Set(ctx, ThemeKey, []byte("dark"))

	s.EvictAll(ctx, ids)
	first, _ := kv.Keys(ctx, "")
	s.EvictAll(ctx, ids)
	second, _ := kv.Keys(ctx, "")

	if len(first) != 1 || first[0] != ThemeKey {
		t.Errorf("after first EvictAll keys = %v", first)
	}
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("EvictAll not idempotent: %v then %v", first, second)
	}
}

func TestWriteQuotaSwallowed(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	kv := kvstore.NewMemory(16)
	s := New(kv, WithClock(clock.NewFake(epoch)), WithLogger(zerolog.New(&buf)))

	s.Write(ctx, "dog", tile.Success("https://x/a.png", "a fact that does not fit"))

	if _, ok := s.Read(ctx, "dog"); ok {
		t.Error("over-quota write should leave no entry")
	}
	if !strings.Contains(buf.String(), "cache write failed") {
		t.Errorf("expected swallowed error to be logged, got %q", buf.String())
	}
}

func TestRemoveDeprecated(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)
	s, _ := newStore(kv)
	for _, id := range []string{"duck", "shibe", "zoo", "dog"} {
		s.Write(ctx, id, tile.Success("", id))
	}

	s.RemoveDeprecated(ctx)

	keys, _ := kv.Keys(ctx, KeyPrefix)
	if len(keys) != 1 || keys[0] != "animal-tile-dog" {
		t.Errorf("keys after migration = %v", keys)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)
	s, clk := newStore(kv)
	s.Write(ctx, "dog", tile.Success("", "d"))
	kv.Set(ctx, Key("fox"), []byte(`{"text":"legacy"}`))
	kv.Set(ctx, Key("otter"), []byte(`{"ts":1,"data":{"text":"o"}}`))
	clk.Advance(time.Minute)

	got := s.List(ctx, []string{"dog", "fox", "bird"})
	if len(got) != 4 {
		t.Fatalf("got %d listings: %+v", len(got), got)
	}
	if got[0].ID != "dog" || !got[0].Present || got[0].Age != time.Minute {
		t.Errorf("dog listing = %+v", got[0])
	}
	if got[1].ID != "fox" || !got[1].Legacy {
		t.Errorf("fox listing = %+v", got[1])
	}
	if got[2].ID != "bird" || got[2].Present {
		t.Errorf("bird listing = %+v", got[2])
	}
	if got[3].ID != "otter" || !got[3].Present {
		t.Errorf("unknown key listing = %+v", got[3])
	}
}

func TestThemePreference(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory(0)

	if _, ok := LoadTheme(ctx, kv); ok {
		t.Error("theme present before save")
	}
	if err := SaveTheme(ctx, kv, ThemeDark); err != nil {
		t.Fatal(err)
	}
	if name, ok := LoadTheme(ctx, kv); !ok || name != ThemeDark {
		t.Errorf("LoadTheme = %q %v", name, ok)
	}
	if err := SaveTheme(ctx, kv, "sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
	kv.Set(ctx, ThemeKey, []byte("neon"))
	if _, ok := LoadTheme(ctx, kv); ok {
		t.Error("invalid stored theme accepted")
	}
}
