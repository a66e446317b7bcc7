package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/config"
	"github.com/Sumatoshi-tech/tswift/pkg/observability"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tswift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "@tswift/util", cfg.Transpile.RuntimeModule)
	assert.Equal(t, config.DefaultJobs, cfg.Transpile.Jobs)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, config.FormatText, cfg.Logging.Format)
	assert.Empty(t, cfg.Transpile.BuiltinTypes)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
transpile:
  out_dir: build/ts
  jobs: 4
  builtin_types:
    - from: UUID
      to: string
  imports:
    - from: Combine
      to: "@tswift/rx"
logging:
  level: debug
  format: json
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "build/ts", cfg.Transpile.OutDir)
	assert.Equal(t, 4, cfg.Transpile.Jobs)
	assert.Equal(t, []config.Mapping{{From: "UUID", To: "string"}}, cfg.Transpile.BuiltinTypes)

	opts := cfg.TranspileOptions()
	assert.Equal(t, "string", opts.BuiltInTypes["UUID"])
	assert.Equal(t, "number", opts.BuiltInTypes["Int"], "stock entries survive the overlay")
	assert.Equal(t, "@tswift/rx", opts.ImportMap["Combine"])
	assert.Equal(t, "@tswift/ui", opts.ImportMap["SwiftUI"])
	assert.Equal(t, "build/ts", opts.OutDir)
}

func TestLoadConfigMappingKeepsCase(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
transpile:
  builtin_types:
    - from: CGPoint
      to: Point
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Point", cfg.TranspileOptions().BuiltInTypes["CGPoint"])
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("TSWIFT_TRANSPILE_OUT_DIR", "/tmp/env-out")
	t.Setenv("TSWIFT_TRANSPILE_JOBS", "3")
	t.Setenv("TSWIFT_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-out", cfg.Transpile.OutDir)
	assert.Equal(t, 3, cfg.Transpile.Jobs)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative jobs", "transpile:\n  jobs: -1\n", config.ErrSchemaViolation},
		{"bad format", "logging:\n  format: xml\n", config.ErrSchemaViolation},
		{"unknown key", "transpile:\n  outdir: x\n", config.ErrSchemaViolation},
		{"ratio above one", "tracing:\n  sample_ratio: 2\n", config.ErrSchemaViolation},
		{"mapping without target", "transpile:\n  imports:\n    - from: Foo\n", config.ErrSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfigEnvironmentIsValidatedToo(t *testing.T) {
	t.Setenv("TSWIFT_LOGGING_FORMAT", "xml")

	_, err := config.LoadConfig(writeConfig(t, ""))
	require.ErrorIs(t, err, config.ErrInvalidLogFormat)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestObservabilityConversion(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `
logging:
  level: debug
  format: json
tracing:
  otlp_endpoint: localhost:4317
  otlp_headers: "api-key=abc"
  sample_ratio: 0.5
`))
	require.NoError(t, err)

	obs := cfg.Observability("1.2.3", observability.ModeMCP)

	assert.True(t, obs.LogJSON)
	assert.Equal(t, "localhost:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"api-key": "abc"}, obs.OTLPHeaders)
	assert.InDelta(t, 0.5, obs.SampleRatio, 1e-9)
	assert.Equal(t, observability.ModeMCP, obs.Mode)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, "DEBUG", obs.LogLevel.String())
}

func TestDefaultRoundTripsThroughSchema(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, config.Default().WriteYAML(&buf))
	assert.Contains(t, buf.String(), "from: Int")
	require.NoError(t, config.ValidateBytes(buf.Bytes()))

	path := writeConfig(t, buf.String())

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Transpile.BuiltinTypes, cfg.Transpile.BuiltinTypes)
}

func TestValidateBytesListsEveryProblem(t *testing.T) {
	t.Parallel()

	err := config.ValidateBytes([]byte("logging:\n  level: loud\n  format: xml\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "logging.format")
}
