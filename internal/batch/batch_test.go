package batch_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/internal/batch"
	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

var errBroken = errors.New("broken source")

// echoTranslator emits one statement per source and fails on "broken".
type echoTranslator struct {
	outDir string
}

func (e echoTranslator) Transpile(_ context.Context, name string, content []byte) (*tsmodel.SourceFile, error) {
	if strings.Contains(string(content), "broken") {
		return nil, errBroken
	}

	file := tsmodel.NewSourceFile(filepath.Join(e.outDir, strings.TrimSuffix(name, ".swift")+".ts"))
	file.AddStatements("export const source = " + `"` + strings.TrimSpace(string(content)) + `";`)

	return file, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCollect_WalksDirectoriesAndSkipsVendored(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.swift"), "let a = 1\n")
	writeFile(t, filepath.Join(root, "Model", "User.swift"), "struct User {}\n")
	writeFile(t, filepath.Join(root, "Pods", "Lib", "Lib.swift"), "let vendored = 1\n")
	writeFile(t, filepath.Join(root, ".build", "Gen.swift"), "let generated = 1\n")
	writeFile(t, filepath.Join(root, "Carthage", "Checkouts", "Dep.swift"), "let checkout = 1\n")
	writeFile(t, filepath.Join(root, "Model", "Pods", "Nested.swift"), "let nested = 1\n")
	writeFile(t, filepath.Join(root, "README.md"), "# readme\n")

	sources, err := batch.Collect([]string{root})
	require.NoError(t, err)

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}

	assert.Equal(t, []string{"App.swift", filepath.Join("Model", "User.swift")}, names)
	assert.Equal(t, "let a = 1\n", string(sources[0].Content))
}

func TestCollect_ExplicitFileAndErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "One.swift")
	writeFile(t, file, "let one = 1\n")

	sources, err := batch.Collect([]string{file})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "One.swift", sources[0].Name)

	_, err = batch.Collect([]string{t.TempDir()})
	require.ErrorIs(t, err, batch.ErrNoSources)

	_, err = batch.Collect([]string{" "})
	require.ErrorIs(t, err, batch.ErrEmptyPath)

	_, err = batch.Collect([]string{filepath.Join(root, "absent.swift")})
	require.Error(t, err)
}

func TestRun_KeepsOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	sources := []batch.Source{
		{Name: "A.swift", Content: []byte("a")},
		{Name: "B.swift", Content: []byte("broken")},
		{Name: "C.swift", Content: []byte("c")},
	}

	rec := metrics.NewRecorder()

	results, err := batch.Run(context.Background(), echoTranslator{outDir: "out"}, sources, batch.Options{
		Jobs:     2,
		Recorder: rec,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join("out", "A.ts"), results[0].Output)
	assert.True(t, results[0].OK())
	require.ErrorIs(t, results[1].Err, errBroken)
	assert.Equal(t, "C.swift", results[2].Source.Name)
	assert.Equal(t, 1, batch.Failed(results))

	count, err := testutil.GatherAndCount(rec.Gatherer(), "tswift_files_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "ok and failed series")
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.Run(ctx, echoTranslator{}, []batch.Source{{Name: "A.swift", Content: []byte("a")}}, batch.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteOutputsThenCheckDrift(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	tr := echoTranslator{outDir: outDir}
	sources := []batch.Source{
		{Name: "A.swift", Content: []byte("a")},
		{Name: filepath.Join("nested", "B.swift"), Content: []byte("b")},
	}

	results, err := batch.Run(context.Background(), tr, sources, batch.Options{Jobs: 1})
	require.NoError(t, err)

	drifts, err := batch.CheckDrift(results)
	require.NoError(t, err)
	require.Len(t, drifts, 2)
	assert.True(t, drifts[0].Missing)
	assert.True(t, drifts[0].Changed())

	require.NoError(t, batch.WriteOutputs(results))

	drifts, err = batch.CheckDrift(results)
	require.NoError(t, err)

	for _, drift := range drifts {
		assert.False(t, drift.Changed(), drift.Result.Output)
	}

	writeFile(t, filepath.Join(outDir, "A.ts"), `export const source = "stale";`+"\n")

	drifts, err = batch.CheckDrift(results)
	require.NoError(t, err)
	require.True(t, drifts[0].Changed())
	assert.False(t, drifts[1].Changed())

	var buf bytes.Buffer

	require.NoError(t, batch.RenderDiff(&buf, drifts[0].Diffs))
	assert.Contains(t, buf.String(), `-export const source = "stale";`)
	assert.Contains(t, buf.String(), `+export const source = "a";`)
}

func TestLineDiff_EqualTextsHaveNoChanges(t *testing.T) {
	t.Parallel()

	drift := batch.Drift{Diffs: batch.LineDiff("a\nb\n", "a\nb\n")}
	assert.False(t, drift.Changed())
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	sources := []batch.Source{
		{Name: "A.swift", Content: []byte("a")},
		{Name: "B.swift", Content: []byte("broken")},
	}

	results, err := batch.Run(context.Background(), echoTranslator{}, sources, batch.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, batch.WriteSummary(&buf, results))

	out := buf.String()
	assert.Contains(t, out, "A.swift")
	assert.Contains(t, out, "A.ts")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "2 FILES")
}
