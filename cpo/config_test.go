package cpo_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tincup-go/tincup/cpo"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDiagnosticConfigEnabled(t *testing.T) {
	tests := []struct {
		name   string
		cfg    cpo.DiagnosticConfig
		enable map[string]bool
	}{
		{
			name:   "level 0",
			cfg:    cpo.MinimalDiagnosticConfig(),
			enable: map[string]bool{"pointer": false, "const": false, "order": false, "arity": false},
		},
		{
			name:   "level 1",
			cfg:    cpo.DiagnosticConfig{Level: 1},
			enable: map[string]bool{"pointer": true, "const": true, "order": false, "arity": false},
		},
		{
			name:   "level 2",
			cfg:    cpo.DiagnosticConfig{Level: 2},
			enable: map[string]bool{"pointer": true, "const": true, "order": true, "arity": false},
		},
		{
			name:   "default",
			cfg:    cpo.DefaultDiagnosticConfig(),
			enable: map[string]bool{"pointer": true, "const": true, "order": true, "arity": true},
		},
		{
			name:   "level above range",
			cfg:    cpo.DiagnosticConfig{Level: 9},
			enable: map[string]bool{"pointer": true, "const": true, "order": true, "arity": true},
		},
		{
			name:   "disable flags",
			cfg:    cpo.DiagnosticConfig{Level: 3, DisableConst: true, DisableArity: true},
			enable: map[string]bool{"pointer": true, "const": false, "order": true, "arity": false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for cat, want := range tt.enable {
				assert.Equal(t, want, tt.cfg.Enabled(cat), cat)
			}
			assert.True(t, tt.cfg.Enabled("pattern"))
			assert.False(t, tt.cfg.Enabled("unknown"))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := cpo.DefaultDiagnosticConfig().ApplyEnv(envMap(map[string]string{
		cpo.EnvDiagnosticLevel: "2",
		cpo.EnvDisablePointer:  "yes",
		cpo.EnvDisableOrder:    "off",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Level)
	assert.True(t, cfg.DisablePointer)
	assert.False(t, cfg.DisableOrder, `"off" counts as unset`)

	cfg, err = cpo.DefaultDiagnosticConfig().ApplyEnv(envMap(map[string]string{
		cpo.EnvDiagnosticLevel: "high",
	}))
	assert.Error(t, err)
	assert.Equal(t, 3, cfg.Level, "invalid level leaves the level unchanged")

	for _, lv := range []string{"7", "-1"} {
		cfg, err = cpo.DiagnosticConfig{Level: 2}.ApplyEnv(envMap(map[string]string{
			cpo.EnvDiagnosticLevel: lv,
		}))
		assert.ErrorContains(t, err, "out of range", lv)
		assert.Equal(t, 2, cfg.Level, lv)
	}

	cfg = cpo.ConfigFromEnv(envMap(map[string]string{cpo.EnvMinimal: "1"}))
	for _, cat := range []string{"pointer", "const", "order", "arity"} {
		assert.False(t, cfg.Enabled(cat), cat)
	}

	cfg = cpo.ConfigFromEnv(envMap(map[string]string{cpo.EnvDisableAll: "0"}))
	assert.True(t, cfg.Enabled("arity"), `"0" counts as unset`)
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]cpo.ColorMode{
		"":        cpo.ColorAuto,
		"auto":    cpo.ColorAuto,
		"Always":  cpo.ColorAlways,
		" never ": cpo.ColorNever,
	} {
		got, err := cpo.ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := cpo.ParseColorMode("sometimes")
	assert.Error(t, err)
	assert.Equal(t, "never", cpo.ColorNever.String())
}

func TestValidateRules(t *testing.T) {
	good := cpo.DiagnosticConfig{Rules: []cpo.PatternRule{{Name: "r", When: "arity == 2", Message: "m"}}}
	assert.NoError(t, good.Validate())

	bad := cpo.DiagnosticConfig{Rules: []cpo.PatternRule{{Name: "r", When: "arity +", Message: "m"}}}
	assert.Error(t, bad.Validate())
	assert.Error(t, cpo.SetDiagnosticConfig(bad), "invalid rules are rejected")

	notBool := cpo.DiagnosticConfig{Rules: []cpo.PatternRule{{Name: "r", When: "arity", Message: "m"}}}
	assert.Error(t, notBool.Validate())
}

// reorder is implemented during package initialisation, before the test
// changes the process-wide configuration.
type reorder struct{ cpo.Base[reorder] }

func (reorder) Name() cpo.Name { return cpo.MustName("reorder") }

func init() {
	cpo.MustImplement[reorder](func(int, string) {})
}

func TestConfigReachesInitOperations(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, cpo.SetDiagnosticConfig(cpo.DefaultDiagnosticConfig()))
		cpo.SetLogger(nil)
	})

	_, err := cpo.Invoke[reorder]("a", 1)
	assert.Equal(t, cpo.WrongArgumentOrder, diagnosticOf(t, err).Classification)

	var logs bytes.Buffer
	cpo.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.Level(-8)})))
	require.NoError(t, cpo.SetDiagnosticConfig(cpo.DiagnosticConfig{Level: 1}))

	_, err = cpo.Invoke[reorder]("a", 1)
	assert.Equal(t, cpo.Unclassified, diagnosticOf(t, err).Classification, "order checks are off at level 1")
	assert.Contains(t, logs.String(), "component=lookup")
	assert.Contains(t, logs.String(), "component=diagnose")

	require.NoError(t, cpo.SetDiagnosticConfig(cpo.DefaultDiagnosticConfig()))
	_, err = cpo.Invoke[reorder]("a", 1)
	assert.Equal(t, cpo.WrongArgumentOrder, diagnosticOf(t, err).Classification)
}
