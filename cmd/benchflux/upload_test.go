package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchflux/internal/history"
	"benchflux/internal/influx"
	"benchflux/internal/ledger"
	"benchflux/internal/notify"
)

type mockWriter struct {
	pts    []*write.Point
	err    error
	closed bool
}

func (m *mockWriter) WritePoints(ctx context.Context, pts []*write.Point) error {
	m.pts = append(m.pts, pts...)
	return m.err
}

func (m *mockWriter) Close() { m.closed = true }

type mockHistory struct {
	records []history.Upload
}

func (m *mockHistory) Close() error { return nil }

func (m *mockHistory) Record(runID, source string, points int, uploadedAt time.Time) error {
	m.records = append(m.records, history.Upload{
		RunID: runID, Source: source, Points: points, UploadedAt: uploadedAt,
	})
	return nil
}

func (m *mockHistory) Recent(limit int) ([]history.Upload, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

const sampleReport = `{
	"context": {
		"date": "2024/05/01-12:30:00",
		"mhz_per_cpu": 2000,
		"num_cpus": 8,
		"build_type": "Release",
		"git_branch": "main"
	},
	"benchmarks": [
		{"name": "BM_Wedge/1024", "iterations": 1000, "real_time": 1000.0, "cpu_time": 990.0},
		{"name": "BM_Simple", "real_time": 50.0},
		{"name": "BM_Broken", "real_time": 1.0, "error_occurred": true}
	]
}`

// setupUpload points the ledger and history paths at a temp dir, fills in the
// connection env vars and swaps the factories for mocks. Returns the mocks
// and a counter of writer constructions.
func setupUpload(t *testing.T) (*mockWriter, *mockHistory, *int) {
	t.Helper()

	dir := t.TempDir()
	viper.Set("ledger_path", filepath.Join(dir, "uploaded_runs"))
	viper.Set("history_path", filepath.Join(dir, "history.db"))
	viper.Set("pushgateway_url", "")
	t.Cleanup(viper.Reset)

	t.Setenv(influx.EnvHost, "https://influx.example.com")
	t.Setenv(influx.EnvToken, "secret")
	t.Setenv(influx.EnvOrg, "ga")
	t.Setenv(influx.EnvDatabase, "benchmarks")

	writer := &mockWriter{}
	hist := &mockHistory{}
	writerCalls := 0

	origWriter, origHistory, origNotifier := newWriterFunc, newHistoryFunc, newNotifierFunc
	origHostname, origNow := hostnameFunc, nowFunc
	t.Cleanup(func() {
		newWriterFunc, newHistoryFunc, newNotifierFunc = origWriter, origHistory, origNotifier
		hostnameFunc, nowFunc = origHostname, origNow
	})

	newWriterFunc = func(cfg influx.Config) influx.Writer {
		writerCalls++
		return writer
	}
	newHistoryFunc = func(path string) (history.Store, error) { return hist, nil }
	newNotifierFunc = func() *notify.SlackNotifier { return nil }
	hostnameFunc = func() (string, error) { return "ci-runner", nil }
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }

	return writer, hist, &writerCalls
}

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeUpload(t *testing.T, path string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--json", path})
	err := cmd.Execute()
	return buf.String(), err
}

func TestUpload(t *testing.T) {
	writer, hist, calls := setupUpload(t)
	path := writeReport(t, sampleReport)

	out, err := executeUpload(t, path)
	require.NoError(t, err)

	// Errored entry excluded.
	assert.Equal(t, 1, *calls)
	require.Len(t, writer.pts, 2)
	assert.True(t, writer.closed)
	assert.Contains(t, out, "Uploaded 2 points")

	// Ledger written with the content hash.
	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	led, ledErr := ledger.Load(viper.GetString("ledger_path"))
	require.NoError(t, ledErr)
	assert.True(t, led.Contains(ledger.RunID(raw)))

	// History recorded.
	require.Len(t, hist.records, 1)
	assert.Equal(t, 2, hist.records[0].Points)
	assert.Equal(t, path, hist.records[0].Source)
}

func TestUpload_Idempotent(t *testing.T) {
	writer, _, calls := setupUpload(t)
	path := writeReport(t, sampleReport)

	_, err := executeUpload(t, path)
	require.NoError(t, err)
	require.Equal(t, 1, *calls)

	ledgerBefore, err := os.ReadFile(viper.GetString("ledger_path"))
	require.NoError(t, err)

	out, err := executeUpload(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Already uploaded")
	assert.Equal(t, 1, *calls) // no second network call
	assert.Len(t, writer.pts, 2)

	ledgerAfter, err := os.ReadFile(viper.GetString("ledger_path"))
	require.NoError(t, err)
	assert.Equal(t, ledgerBefore, ledgerAfter)
}

func TestUpload_EmptyReport(t *testing.T) {
	_, _, calls := setupUpload(t)
	path := writeReport(t, `{"context": {}, "benchmarks": []}`)

	out, err := executeUpload(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "No benchmark entries found")
	assert.Equal(t, 0, *calls)
	assert.NoFileExists(t, viper.GetString("ledger_path"))
}

func TestUpload_MissingFile(t *testing.T) {
	_, _, calls := setupUpload(t)

	_, err := executeUpload(t, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report")
	assert.Equal(t, 0, *calls)
}

func TestUpload_MalformedJSON(t *testing.T) {
	_, _, calls := setupUpload(t)
	path := writeReport(t, "{broken")

	_, err := executeUpload(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse benchmark report")
	assert.Equal(t, 0, *calls)
}

func TestUpload_MissingEnv(t *testing.T) {
	_, _, calls := setupUpload(t)
	t.Setenv(influx.EnvToken, "")
	path := writeReport(t, sampleReport)

	_, err := executeUpload(t, path)
	require.Error(t, err)

	var cfgErr *influx.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), influx.EnvToken)
	assert.Equal(t, 0, *calls)
	assert.NoFileExists(t, viper.GetString("ledger_path"))
}

func TestUpload_WriteFailure(t *testing.T) {
	writer, hist, _ := setupUpload(t)
	writer.err = &influx.UploadError{StatusCode: 401, Message: "bad token"}
	path := writeReport(t, sampleReport)

	_, err := executeUpload(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	// Ledger untouched so a rerun retries the upload.
	assert.NoFileExists(t, viper.GetString("ledger_path"))
	assert.Empty(t, hist.records)
	assert.True(t, writer.closed)
}

func TestUpload_RequiresJSONFlag(t *testing.T) {
	setupUpload(t)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json")
}
