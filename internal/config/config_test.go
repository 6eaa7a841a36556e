package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
	"go.uber.org/zap/zapcore"

	"github.com/ezachrisen/kindcore/evaluator"
	"github.com/ezachrisen/kindcore/internal/config"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kindcore.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissing(t *testing.T) {
	is := is.New(t)
	t.Setenv("KINDCORE_HVM", "")
	t.Setenv("KINDCORE_PRELUDE", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	is.NoErr(err)
	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	t.Setenv("KINDCORE_HVM", "")
	t.Setenv("KINDCORE_PRELUDE", "")

	path := write(t, `
coverage: true
select: 'rules > 0'
out_dir: build
evaluator:
  path: /opt/hvm/bin/hvm
  prelude: checker.hvm
logging:
  level: debug
`)

	cfg, err := config.Load(path)
	is.NoErr(err)

	want := config.DefaultConfig()
	want.Coverage = true
	want.Select = "rules > 0"
	want.OutDir = "build"
	want.Evaluator.Path = "/opt/hvm/bin/hvm"
	want.Evaluator.Prelude = "checker.hvm"
	want.Logging.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	l, err := cfg.Level()
	is.NoErr(err)
	is.Equal(l, zapcore.DebugLevel)

	c := cfg.Command()
	is.Equal(c.Path, "/opt/hvm/bin/hvm")
	is.Equal(c.Entry, evaluator.DefaultEntry)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("KINDCORE_HVM", "/usr/local/bin/hvm")
	t.Setenv("KINDCORE_PRELUDE", "/usr/share/kind/checker.hvm")

	cfg, err := config.Load(write(t, "coverage: false\n"))
	is.NoErr(err)
	is.Equal(cfg.Evaluator.Path, "/usr/local/bin/hvm")
	is.Equal(cfg.Evaluator.Prelude, "/usr/share/kind/checker.hvm")
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":     "coverage: [",
		"level":      "logging:\n  level: loud\n",
		"evaluator":  "evaluator:\n  path: ''\n",
		"wrong type": "coverage: sometimes\n",
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			t.Setenv("KINDCORE_HVM", "")
			_, err := config.Load(write(t, content))
			is.True(err != nil)
		})
	}
}
