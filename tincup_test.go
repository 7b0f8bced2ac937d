package tincup_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tincup-go/tincup"
	"github.com/tincup-go/tincup/cpo"
)

type double struct{ cpo.Base[double] }

func (double) Name() cpo.Name { return cpo.MustName("double") }

type stringify struct{ cpo.Base[stringify] }

func (stringify) Name() cpo.Name { return cpo.MustName("stringify") }

func init() {
	cpo.MustImplement[double](func(n int) int { return 2 * n })
	cpo.MustImplement[stringify](func(n int) string { return fmt.Sprint(n) })
}

func TestCompose(t *testing.T) {
	f := tincup.Compose(tincup.Bind(double{}), tincup.Bind(double{}), tincup.Bind(stringify{}))
	got, err := f(3)
	require.NoError(t, err)
	assert.Equal(t, "12", got)

	// stringify then double fails at the second step.
	g := tincup.Compose(tincup.Bind(stringify{}), tincup.Bind(double{}))
	_, err = g(3)
	require.ErrorIs(t, err, cpo.ErrNoImplementation)

	h := tincup.Pipe(func(s string) int { return len(s) }, func(n int) bool { return n > 2 })
	assert.True(t, h("abc"))
	assert.False(t, h("ab"))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(t *testing.T, d cpo.DiagnosticConfig)
		wantErr bool
	}{
		{
			name: "empty",
			yaml: "",
			check: func(t *testing.T, d cpo.DiagnosticConfig) {
				assert.Equal(t, cpo.DefaultDiagnosticConfig().Level, d.Level)
			},
		},
		{
			name: "full",
			yaml: `
level: 2
disable: [order, const]
ignore: ["needs-*"]
color: never
rules:
  - name: all-const
    when: "arity > 0 && const_count == arity"
    message: every argument is read-only
`,
			check: func(t *testing.T, d cpo.DiagnosticConfig) {
				assert.Equal(t, 2, d.Level)
				assert.True(t, d.DisableOrder)
				assert.True(t, d.DisableConst)
				assert.False(t, d.DisablePointer)
				assert.Equal(t, []string{"needs-*"}, d.Ignore)
				assert.Equal(t, cpo.ColorNever, d.Color)
				require.Len(t, d.Rules, 1)
				assert.Equal(t, "all-const", d.Rules[0].Name)
			},
		},
		{
			name: "disable all",
			yaml: "disable: [all]",
			check: func(t *testing.T, d cpo.DiagnosticConfig) {
				assert.False(t, d.Enabled("pointer"))
				assert.False(t, d.Enabled("arity"))
			},
		},
		{name: "unknown field", yaml: "levle: 2", wantErr: true},
		{name: "level out of range", yaml: "level: 7", wantErr: true},
		{name: "unknown category", yaml: "disable: [spelling]", wantErr: true},
		{name: "bad color", yaml: "color: loud", wantErr: true},
		{name: "bad rule", yaml: "rules: [{name: r, when: 'arity +', message: m}]", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tincup.ParseConfig(cpo.DefaultDiagnosticConfig(), []byte(tt.yaml))
			if tt.wantErr {
				require.ErrorIs(t, err, tincup.ErrConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	d, err := tincup.LoadConfig(writeFile(t, "tincup.yaml", "level: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Level)

	_, err = tincup.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type swapped struct{ cpo.Base[swapped] }

func (swapped) Name() cpo.Name { return cpo.MustName("swapped") }

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		_ = cpo.SetDiagnosticConfig(cpo.DefaultDiagnosticConfig())
		cpo.SetLogger(nil)
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path := writeFile(t, "tincup.yaml", "level: 3\ncolor: never\n")
	err := tincup.Configure(
		tincup.WithConfigFile(path),
		tincup.WithDiagnosticLevel(1),
		tincup.WithLogger(logger),
		tincup.WithoutEnv(),
	)
	require.NoError(t, err)

	cfg := cpo.CurrentDiagnosticConfig()
	assert.Equal(t, 1, cfg.Level, "later options win")
	assert.Equal(t, cpo.ColorNever, cfg.Color)

	require.NoError(t, cpo.Implement[swapped](func(int, string) {}))
	_, err = cpo.Invoke[swapped]("a", 1)
	var d *cpo.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, cpo.Unclassified, d.Classification)
	assert.Contains(t, logs.String(), "component=lookup")

	err = tincup.Configure(tincup.WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tincup.Report(&buf, nil))
	assert.Empty(t, buf.String())

	require.NoError(t, tincup.Report(&buf, errors.New("plain")))
	assert.Equal(t, "plain\n", buf.String())

	buf.Reset()
	_, err := cpo.Invoke[double]("x")
	require.NoError(t, tincup.Report(&buf, fmt.Errorf("step 2: %w", err)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "error[unclassified]: double:"), out)
	assert.NotContains(t, out, "\x1b[", "buffers are never coloured")

	assert.True(t, tincup.UseColor(&buf, cpo.ColorAlways))
	assert.False(t, tincup.UseColor(os.Stdout, cpo.ColorNever))
	assert.False(t, tincup.UseColor(&buf, cpo.ColorAuto))
}
