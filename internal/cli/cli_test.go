package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/tilecache"
)

// newAnimalServer serves every endpoint the catalog calls. The cat fact
// changes on each request.
func newAnimalServer(t *testing.T) *httptest.Server {
	t.Helper()
	var catFacts atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/dogceo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"https://img.test/dog.jpg","status":"success"}`)
	})
	mux.HandleFunc("/catfact", func(w http.ResponseWriter, r *http.Request) {
		n := catFacts.Add(1)
		fmt.Fprintf(w, `{"fact":"cat fact number %d","length":17}`, n)
	})
	mux.HandleFunc("/catimg", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"a","url":"https://img.test/cat.jpg"}]`)
	})
	mux.HandleFunc("/dogapi", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"b","url":"https://img.test/shiba.jpg"}]`)
	})
	mux.HandleFunc("/fox", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"image":"https://img.test/fox.jpg","link":"https://img.test/fox"}`)
	})
	mux.HandleFunc("/animal/", func(w http.ResponseWriter, r *http.Request) {
		kind := strings.TrimPrefix(r.URL.Path, "/animal/")
		fmt.Fprintf(w, `{"image":"https://img.test/%s.jpg","fact":"%s fact"}`, kind, kind)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeTestConfig writes a config with zero delays, a file cache in a temp
// dir, silent logging and endpoints on srv.
func writeTestConfig(t *testing.T, srv *httptest.Server, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[panel]
ttl = "5m"
background_delay = "0"
initial_stagger = "0"
refresh_stagger = "0"
status_clear = "0"
copy_status_clear = "0"

[fetch]
timeout = "2s"
retries = 0
backoff_base = "0"

[cache]
backend = "file"
dir = %q

[endpoints]
dog_ceo = "%[2]s/dogceo"
cat_fact = "%[2]s/catfact"
cat_image = "%[2]s/catimg"
animal_fact_base = "%[2]s/animal/"
dog_api = "%[2]s/dogapi"
fox = "%[2]s/fox"

[log]
level = "off"
output = "discard"
%[3]s`, filepath.Join(dir, "store"), srv.URL, extra)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CRITTERS_CACHE_BACKEND", "")
	t.Setenv("CRITTERS_LOG_LEVEL", "")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTilesCommand(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	out, _, err := runCLI(t, "--config", cfg, "tiles")
	if err != nil {
		t.Fatalf("tiles: %v", err)
	}
	for _, want := range []string{"ID", "TITLE", "dog", "Random Dog", "redpanda", "Red Panda Fact", "bird"} {
		if !strings.Contains(out, want) {
			t.Errorf("tiles output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "--config", cfg, "tiles", "--format", "json")
	if err != nil {
		t.Fatalf("tiles json: %v", err)
	}
	var infos []tileInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode tiles json: %v\n%s", err, out)
	}
	if len(infos) != 9 || infos[0].ID != "dog" || infos[8].ID != "bird" {
		t.Errorf("tiles json = %+v", infos)
	}
}

func TestFetchCommand(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	out, _, err := runCLI(t, "--config", cfg, "fetch", "koala")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for _, want := range []string{"Koala Fact", "koala fact", "https://img.test/koala.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("fetch output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "--config", cfg, "fetch", "redpanda", "--format", "json")
	if err != nil {
		t.Fatalf("fetch json: %v", err)
	}
	var res fetchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode fetch json: %v\n%s", err, out)
	}
	if res.Text != "Red Panda (panda fact proxy): panda fact" {
		t.Errorf("redpanda text = %q", res.Text)
	}
	if res.Diff != nil {
		t.Errorf("diff present without --diff: %+v", res.Diff)
	}
}

func TestFetchDiff(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	tests := []struct {
		id   string
		want string
	}{
		{"koala", "No cached text to compare."},
		{"koala", "Unchanged since the cached copy."},
		{"catfact", "No cached text to compare."},
		{"catfact", "Changed ("},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, "--config", cfg, "fetch", tt.id, "--diff")
		if err != nil {
			t.Fatalf("fetch %s --diff: %v", tt.id, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("fetch %s --diff output missing %q:\n%s", tt.id, tt.want, out)
		}
	}
}

func TestFetchUnknownTile(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	_, _, err := runCLI(t, "--config", cfg, "fetch", "unicorn")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("error = %v, want CLIError", err)
	}
	if cliErr.Message != "unknown tile unicorn" {
		t.Errorf("message = %q", cliErr.Message)
	}
	if !strings.Contains(cliErr.Hint, "critters tiles") {
		t.Errorf("hint = %q", cliErr.Hint)
	}
}

func TestFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	cfg := writeTestConfig(t, srv, "")

	_, _, err := runCLI(t, "--config", cfg, "fetch", "fox")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("error = %v, want CLIError", err)
	}
	if cliErr.Message != "fetching fox" || cliErr.Cause == "" {
		t.Errorf("error = %+v", cliErr)
	}
}

func TestCacheCommands(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	if _, _, err := runCLI(t, "--config", cfg, "fetch", "koala"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	out, _, err := runCLI(t, "--config", cfg, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 {
		t.Fatalf("cache list has %d lines, want header, rule and 9 rows:\n%s", len(lines), out)
	}
	for _, line := range lines[2:] {
		fields := strings.Fields(line)
		want := stateMissing
		if fields[0] == "koala" {
			want = stateFresh
		}
		if fields[1] != want {
			t.Errorf("state of %s = %s, want %s", fields[0], fields[1], want)
		}
	}

	out, _, err = runCLI(t, "--config", cfg, "cache", "show", "koala", "--format", "json")
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	var row cacheRow
	if err := json.Unmarshal([]byte(out), &row); err != nil {
		t.Fatalf("decode cache show: %v\n%s", err, out)
	}
	if row.State != stateFresh || row.Text != "koala fact" || row.StoredAt == nil {
		t.Errorf("cache show = %+v", row)
	}

	_, _, err = runCLI(t, "--config", cfg, "cache", "show", "fox")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Hint, "critters fetch fox") {
		t.Errorf("cache show of a missing entry: %v", err)
	}

	out, _, err = runCLI(t, "--config", cfg, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache cleared (9 tiles)") {
		t.Errorf("cache clear output = %q", out)
	}

	out, _, err = runCLI(t, "--config", cfg, "cache", "list", "--format", "json")
	if err != nil {
		t.Fatalf("cache list json: %v", err)
	}
	var rows []cacheRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode cache list: %v\n%s", err, out)
	}
	for _, r := range rows {
		if r.State != stateMissing {
			t.Errorf("%s is %s after clear", r.ID, r.State)
		}
	}
}

func TestSnapshotToStdout(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	out, _, err := runCLI(t, "--config", cfg, "snapshot", "-o", "-", "--no-images", "--title", "Zoo")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for _, want := range []string{"<title>Zoo</title>", "koala fact", "Floofy fox", "Random Dog"} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}

	// The snapshot populated the cache.
	out, _, err = runCLI(t, "--config", cfg, "cache", "show", "bird", "--format", "json")
	if err != nil {
		t.Fatalf("cache show after snapshot: %v", err)
	}
	if !strings.Contains(out, "bird fact") {
		t.Errorf("bird entry = %s", out)
	}
}

func TestSnapshotToFile(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")
	path := filepath.Join(t.TempDir(), "panel.html")

	_, stderr, err := runCLI(t, "--config", cfg, "snapshot", "-o", path, "--no-images", "--no-cache")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(stderr, "Wrote "+path+" (9 tiles)") {
		t.Errorf("stderr = %q", stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(data), "Animal Panel") {
		t.Errorf("snapshot file lacks default title")
	}
}

func TestSnapshotWithoutCacheDropsDeprecatedTiles(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")
	ctx := context.Background()

	kv, err := kvstore.NewFile(filepath.Join(filepath.Dir(cfg), "store"), 0)
	if err != nil {
		t.Fatal(err)
	}
	duck := tilecache.Key("duck")
	if err := kv.Set(ctx, duck, []byte(`{"image":null,"text":"quack"}`)); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "--config", cfg, "snapshot", "-o", "-", "--no-images", "--no-cache"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, duck); ok {
		t.Error("deprecated duck entry survived a --no-cache snapshot")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, stderr, err := runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
	if !strings.Contains(stderr, "config init") {
		t.Errorf("config path stderr = %q", stderr)
	}

	out, _, err = runCLI(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Created "+path) {
		t.Errorf("config init output = %q", out)
	}
	if _, _, err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second config init succeeded, want refusal to overwrite")
	}

	out, _, err = runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[panel]", "ttl", "[cache]", "[endpoints]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q", want)
		}
	}
}

func TestConfigShowWarnsUnknownKeys(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "\n[ui]\ntheme = \"dark\"\nsparkles = true\n")

	_, stderr, err := runCLI(t, "--config", cfg, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stderr, "unknown config key ui.sparkles") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[panel]\nttl = \"soon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "--config", path, "tiles")
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) || cliErr.Message != "loading config" {
		t.Fatalf("error = %v, want loading config CLIError", err)
	}

	// version and config path still work.
	if _, _, err := runCLI(t, "--config", path, "version"); err != nil {
		t.Errorf("version with broken config: %v", err)
	}
	if _, _, err := runCLI(t, "--config", path, "config", "path"); err != nil {
		t.Errorf("config path with broken config: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "critters dev") {
		t.Errorf("version = %q", out)
	}

	out, _, err = runCLI(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version json: %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != Version || info.Go == "" {
		t.Errorf("version json = %+v", info)
	}
}

func TestBoardNeedsTerminal(t *testing.T) {
	cfg := writeTestConfig(t, newAnimalServer(t), "")

	_, _, err := runCLI(t, "--config", cfg)
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Hint, "snapshot") {
		t.Fatalf("error = %v, want terminal CLIError", err)
	}
}
