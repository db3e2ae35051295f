package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/indexcache"
)

const campusCSV = "Question,Answer\n" +
	"What is the fee?,The fee is 50000 per year.\n" +
	"Where is the campus?,The campus is in Virudhunagar.\n"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadOrBuildIndexWritesAndReusesCacheFile(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "faq.csv")
	cachePath := filepath.Join(dir, "faq-index.bin")
	require.NoError(t, os.WriteFile(corpusPath, []byte(campusCSV), 0o644))

	built, err := LoadOrBuildIndex(context.Background(), corpusPath, cachePath, newTestLogger())
	require.NoError(t, err)
	info, err := os.Stat(cachePath)
	require.NoError(t, err)

	reloaded, err := LoadOrBuildIndex(context.Background(), corpusPath, cachePath, newTestLogger())
	require.NoError(t, err)
	after, err := os.Stat(cachePath)
	require.NoError(t, err)
	require.Equal(t, info.ModTime(), after.ModTime(), "cache should not be rewritten")

	for _, q := range []string{"what's the fee", "where is the campus", "tell me a joke"} {
		require.Equal(t, faq.Match(q, built, faq.DefaultThreshold), faq.Match(q, reloaded, faq.DefaultThreshold))
	}
}

func TestLoadOrBuildIndexRebuildsAfterCorpusEdit(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "faq.csv")
	cachePath := filepath.Join(dir, "faq-index.bin")
	require.NoError(t, os.WriteFile(corpusPath, []byte(campusCSV), 0o644))

	_, err := LoadOrBuildIndex(context.Background(), corpusPath, cachePath, newTestLogger())
	require.NoError(t, err)

	edited := "Question,Answer\nWhat is the fee?,The fee is 65000 per year.\n"
	require.NoError(t, os.WriteFile(corpusPath, []byte(edited), 0o644))

	idx, err := LoadOrBuildIndex(context.Background(), corpusPath, cachePath, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())
	require.Equal(t, "The fee is 65000 per year.", faq.Match("what is the fee", idx, faq.DefaultThreshold).Answer)
}

func TestLoadOrBuildIndexRecoversFromCorruptCache(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "faq.csv")
	cachePath := filepath.Join(dir, "faq-index.bin")
	require.NoError(t, os.WriteFile(corpusPath, []byte(campusCSV), 0o644))
	require.NoError(t, os.WriteFile(cachePath, []byte("\x80\x04pickle"), 0o644))

	idx, err := LoadOrBuildIndex(context.Background(), corpusPath, cachePath, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	payload, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	_, err = faq.DecodeIndex(payload)
	require.NoError(t, err)
}

func TestLoadOrBuildIndexMissingCorpus(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadOrBuildIndex(context.Background(), filepath.Join(dir, "missing.csv"), filepath.Join(dir, "c.bin"), newTestLogger())
	require.ErrorIs(t, err, faq.ErrCorpusNotFound)
}

func TestNewIndexStoreSelectsBackend(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Backend: config.CacheBackendMemory}}
	store, closeFn, err := NewIndexStore(context.Background(), cfg, newTestLogger())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &indexcache.MemoryStore{}, store)

	cfg.Cache.Backend = config.CacheBackendNone
	store, _, err = NewIndexStore(context.Background(), cfg, newTestLogger())
	require.NoError(t, err)
	require.IsType(t, indexcache.NoopStore{}, store)

	cfg.Cache.Backend = "pickle"
	_, _, err = NewIndexStore(context.Background(), cfg, newTestLogger())
	require.Error(t, err)
}

func TestBuildIndexFromConfig(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "faq.csv")
	require.NoError(t, os.WriteFile(corpusPath, []byte(campusCSV), 0o644))

	cfg := &config.Config{
		Corpus: config.CorpusConfig{Path: corpusPath},
		Cache:  config.CacheConfig{Backend: config.CacheBackendFile, Path: filepath.Join(dir, "cache", "index.bin")},
	}
	idx, err := BuildIndex(cfg, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())
	require.FileExists(t, cfg.Cache.Path)
}
