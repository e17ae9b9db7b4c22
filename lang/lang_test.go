package lang

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dshills/easyjson/loader"
	"github.com/dshills/easyjson/notify"
)

func writeLang(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const enJSON = `{
	"greeting": "hello",
	"errors": {"not_found": "not found"},
	"count": 42
}`

const deJSON = `{"greeting": "hallo"}`

func TestService_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	path := writeLang(t, dir, "en.json", enJSON)

	s := New()
	if err := s.Load("en", path); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	doc, ok := s.Get("en")
	if !ok {
		t.Fatal("Get(en) not found")
	}
	if got, _ := doc.Get("greeting"); got != "hello" {
		t.Errorf("greeting = %v, want hello", got)
	}
}

func TestService_LoadOverwrites(t *testing.T) {
	dir := t.TempDir()
	first := writeLang(t, dir, "a.json", `{"greeting": "hi", "extra": 1}`)
	second := writeLang(t, dir, "b.json", `{"greeting": "hello"}`)

	s := New()
	if err := s.Load("en", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Load("en", second); err != nil {
		t.Fatal(err)
	}

	doc, _ := s.Get("en")
	if _, ok := doc.Get("extra"); ok {
		t.Error("reload merged with prior content instead of replacing it")
	}
}

func TestService_Translate_ActiveLanguage(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.Load("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatal(err)
	}
	if err := s.Load("de", writeLang(t, dir, "de.json", deJSON)); err != nil {
		t.Fatal(err)
	}

	s.SetActive("en")
	if got := s.Translate("greeting"); got != "hello" {
		t.Errorf("Translate(greeting) = %q, want hello", got)
	}

	s.SetActive("de")
	if got := s.Translate("greeting"); got != "hallo" {
		t.Errorf("Translate(greeting) with active de = %q, want hallo", got)
	}
}

func TestService_Translate_ExplicitName(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.Load("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatal(err)
	}
	if err := s.Load("de", writeLang(t, dir, "de.json", deJSON)); err != nil {
		t.Fatal(err)
	}
	s.SetActive("en")

	// Explicit name wins over the active language.
	if got := s.Translate("greeting", "de"); got != "hallo" {
		t.Errorf("Translate(greeting, de) = %q, want hallo", got)
	}
}

func TestService_Translate_KeyEcho(t *testing.T) {
	dir := t.TempDir()
	s := New()

	// No active language, nothing loaded.
	if got := s.Translate("missing.key"); got != "missing.key" {
		t.Errorf("Translate with nothing loaded = %q, want the key back", got)
	}

	if err := s.Load("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatal(err)
	}
	s.SetActive("en")

	// Loaded language, missing key.
	if got := s.Translate("no.such.key"); got != "no.such.key" {
		t.Errorf("Translate of missing key = %q, want the key back", got)
	}

	// Active language that was never loaded.
	s.SetActive("fr")
	if got := s.Translate("greeting"); got != "greeting" {
		t.Errorf("Translate against unloaded active = %q, want the key back", got)
	}
}

func TestService_Translate_NestedAndNonString(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.Load("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatal(err)
	}
	s.SetActive("en")

	if got := s.Translate("errors.not_found"); got != "not found" {
		t.Errorf("nested key = %q, want %q", got, "not found")
	}
	if got := s.Translate("count"); got != "42" {
		t.Errorf("non-string message = %q, want 42", got)
	}
}

func TestService_TranslateData(t *testing.T) {
	dir := t.TempDir()
	s := New()
	path := writeLang(t, dir, "en.json", `{"welcome": "hello {{.Name}}", "broken": "hi {{.Name"}`)
	if err := s.Load("en", path); err != nil {
		t.Fatal(err)
	}
	s.SetActive("en")

	got := s.TranslateData("welcome", map[string]any{"Name": "Ada"})
	if got != "hello Ada" {
		t.Errorf("TranslateData = %q, want %q", got, "hello Ada")
	}

	// Malformed templates fall back to the raw message.
	got = s.TranslateData("broken", map[string]any{"Name": "Ada"})
	if got != "hi {{.Name" {
		t.Errorf("TranslateData with broken template = %q, want raw message", got)
	}

	// Nil data skips rendering entirely.
	got = s.TranslateData("welcome", nil)
	if got != "hello {{.Name}}" {
		t.Errorf("TranslateData with nil data = %q, want raw message", got)
	}

	if got := s.TranslateData("missing", map[string]any{}); got != "missing" {
		t.Errorf("TranslateData of missing key = %q, want the key back", got)
	}
}

func TestService_SetActive_DoesNotRequireLoaded(t *testing.T) {
	s := New()

	if _, ok := s.Active(); ok {
		t.Error("Active() reports set before SetActive")
	}

	s.SetActive("never-loaded")
	got, ok := s.Active()
	if !ok || got != "never-loaded" {
		t.Errorf("Active() = %q, %v, want never-loaded, true", got, ok)
	}
}

func TestService_RemoveAndClear(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.LoadAll([]loader.Entry{
		{Name: "en", Path: writeLang(t, dir, "en.json", enJSON)},
		{Name: "de", Path: writeLang(t, dir, "de.json", deJSON)},
	}); err != nil {
		t.Fatal(err)
	}
	s.SetActive("en")

	s.Remove("de")
	s.Remove("de") // idempotent
	if _, ok := s.Get("de"); ok {
		t.Error("de still loaded after Remove")
	}

	s.Clear()
	if names := s.Names(); len(names) != 0 {
		t.Errorf("Names() = %v after Clear, want empty", names)
	}

	// Active survives Clear; translation echoes.
	if _, ok := s.Active(); !ok {
		t.Error("active language cleared by Clear")
	}
	if got := s.Translate("greeting"); got != "greeting" {
		t.Errorf("Translate after Clear = %q, want the key back", got)
	}
}

func TestService_RemoveMany(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.LoadAll([]loader.Entry{
		{Name: "en", Path: writeLang(t, dir, "en.json", enJSON)},
		{Name: "de", Path: writeLang(t, dir, "de.json", deJSON)},
	}); err != nil {
		t.Fatal(err)
	}

	s.RemoveMany([]string{"en", "unknown"})

	if _, ok := s.Get("en"); ok {
		t.Error("en still loaded after RemoveMany")
	}
	if _, ok := s.Get("de"); !ok {
		t.Error("de removed by RemoveMany")
	}
}

func TestService_LoadAll_FailFast(t *testing.T) {
	dir := t.TempDir()
	s := New()

	err := s.LoadAll([]loader.Entry{
		{Name: "en", Path: writeLang(t, dir, "en.json", enJSON)},
		{Name: "es", Path: filepath.Join(dir, "missing.json")},
		{Name: "de", Path: writeLang(t, dir, "de.json", deJSON)},
	})
	if err == nil {
		t.Fatal("LoadAll succeeded despite missing member")
	}

	if _, ok := s.Get("en"); !ok {
		t.Error("member loaded before failure was rolled back")
	}
	if _, ok := s.Get("de"); ok {
		t.Error("member after failure was attempted")
	}
}

func TestService_AsyncLoad(t *testing.T) {
	dir := t.TempDir()
	s := New()

	if err := <-s.AsyncLoad("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatalf("AsyncLoad error: %v", err)
	}
	if _, ok := s.Get("en"); !ok {
		t.Error("en not installed after AsyncLoad")
	}
}

func TestService_AsyncLoadAll_RunAll(t *testing.T) {
	dir := t.TempDir()
	s := New()

	err := s.AsyncLoadAll([]loader.Entry{
		{Name: "en", Path: writeLang(t, dir, "en.json", enJSON)},
		{Name: "es", Path: filepath.Join(dir, "missing.json")},
		{Name: "de", Path: writeLang(t, dir, "de.json", deJSON)},
	})
	if err == nil {
		t.Fatal("AsyncLoadAll succeeded despite failing member")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("joined error missing underlying cause: %v", err)
	}

	for _, name := range []string{"en", "de"} {
		if _, ok := s.Get(name); !ok {
			t.Errorf("successful member %q not installed", name)
		}
	}
}

func TestService_Notifications(t *testing.T) {
	dir := t.TempDir()
	n := notify.New()
	defer n.Close()

	var loads, removes atomic.Int32
	n.Subscribe(func(change notify.Change) {
		if change.Domain != notify.DomainLanguage {
			t.Errorf("Domain = %q, want language", change.Domain)
		}
		switch change.Type {
		case notify.ChangeLoad:
			loads.Add(1)
		case notify.ChangeRemove:
			removes.Add(1)
		}
	})

	s := New(WithNotifier(n))
	if err := s.Load("en", writeLang(t, dir, "en.json", enJSON)); err != nil {
		t.Fatal(err)
	}
	s.Remove("en")

	if loads.Load() != 1 || removes.Load() != 1 {
		t.Errorf("loads = %d, removes = %d, want 1, 1", loads.Load(), removes.Load())
	}
}

func TestService_Match(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.LoadAll([]loader.Entry{
		{Name: "en", Path: writeLang(t, dir, "en.json", enJSON)},
		{Name: "de", Path: writeLang(t, dir, "de.json", deJSON)},
	}); err != nil {
		t.Fatal(err)
	}

	if got, ok := s.Match("en-US"); !ok || got != "en" {
		t.Errorf("Match(en-US) = %q, %v, want en, true", got, ok)
	}
	if got, ok := s.Match("de-AT", "en"); !ok || got != "de" {
		t.Errorf("Match(de-AT, en) = %q, %v, want de, true", got, ok)
	}
	if _, ok := s.Match(); ok {
		t.Error("Match() with no preferences = ok")
	}
	if _, ok := s.Match("not a tag !!"); ok {
		t.Error("Match of unparseable preference = ok")
	}
}

func TestService_Match_NothingLoaded(t *testing.T) {
	s := New()
	if _, ok := s.Match("en"); ok {
		t.Error("Match with empty registry = ok")
	}
}
