package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_readsAllFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ll1gen.toml")
	contents := "grammar_file = \"grammar.ll1\"\nout_file = \"gen.go\"\ncache_dir = \".ll1gen-cache\"\n"
	if !assert.NoError(t, os.WriteFile(path, []byte(contents), 0660)) {
		return
	}

	cfg, err := Load(path)
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "grammar.ll1", cfg.GrammarFile)
	assert.Equal(t, "gen.go", cfg.OutFile)
	assert.Equal(t, ".ll1gen-cache", cfg.CacheDir)
}

func Test_Load_missingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
