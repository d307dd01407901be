package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"benchflux/internal/history"
	"benchflux/internal/influx"
	"benchflux/internal/ledger"
	"benchflux/internal/notify"
	"benchflux/internal/points"
	"benchflux/internal/report"
	"benchflux/internal/telemetry"
)

var jsonPath string

// Factory and system hooks, replaceable in tests.
var (
	newWriterFunc = func(cfg influx.Config) influx.Writer {
		return influx.NewClient(cfg)
	}
	newHistoryFunc = func(path string) (history.Store, error) {
		return history.NewSQLiteStore(path)
	}
	newNotifierFunc = func() *notify.SlackNotifier {
		return notify.NewSlackFromEnv()
	}
	hostnameFunc = os.Hostname
	nowFunc      = time.Now
)

func runUpload(cmd *cobra.Command, args []string) error {
	start := nowFunc()
	metrics := telemetry.NewMetrics()

	rep, raw, err := report.Load(jsonPath)
	if err != nil {
		return err
	}

	runID := ledger.RunID(raw)
	led, err := ledger.Load(viper.GetString("ledger_path"))
	if err != nil {
		return err
	}

	if led.Contains(runID) {
		slog.Info("Report already uploaded, skipping", "run_id", shortID(runID))
		fmt.Fprintf(cmd.OutOrStdout(), "Already uploaded run_id=%s, skipping.\n", shortID(runID))
		metrics.RunsSkipped.Inc()
		pushMetrics(metrics)
		return nil
	}

	if len(rep.Benchmarks) == 0 {
		slog.Info("No benchmark entries in report", "path", jsonPath)
		fmt.Fprintln(cmd.OutOrStdout(), "No benchmark entries found in report.")
		return nil
	}

	cfg := influx.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	host, err := hostnameFunc()
	if err != nil {
		host = "unknown"
	}

	pts := points.Build(rep, points.Options{
		Host:          host,
		FallbackRunID: runID,
		Now:           nowFunc(),
	})

	writer := newWriterFunc(cfg)
	defer writer.Close()

	slog.Debug("Writing points", "count", len(pts), "host", cfg.Host, "database", cfg.Database)
	if err := writer.WritePoints(cmd.Context(), pts); err != nil {
		return err
	}

	led.Add(runID)
	if err := led.Save(); err != nil {
		return fmt.Errorf("upload succeeded but ledger update failed: %w", err)
	}

	metrics.PointsUploaded.Add(float64(len(pts)))
	metrics.UploadDuration.Set(time.Since(start).Seconds())

	recordHistory(runID, jsonPath, len(pts))
	pushMetrics(metrics)
	notifyUpload(cmd.Context(), runID, len(pts))

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d points (run_id=%s...).\n", len(pts), shortID(runID))
	return nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// recordHistory is best-effort: a broken local history database must not
// fail a run whose upload already succeeded.
func recordHistory(runID, source string, count int) {
	store, err := newHistoryFunc(viper.GetString("history_path"))
	if err != nil {
		slog.Warn("Failed to open history store", "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(runID, source, count, nowFunc().UTC()); err != nil {
		slog.Warn("Failed to record upload history", "error", err)
	}
}

func pushMetrics(m *telemetry.Metrics) {
	gw := viper.GetString("pushgateway_url")
	if gw == "" {
		return
	}
	if err := m.Push(gw, viper.GetString("pushgateway_job")); err != nil {
		slog.Warn("Failed to push job metrics", "error", err)
	}
}

func notifyUpload(ctx context.Context, runID string, count int) {
	n := newNotifierFunc()
	if n == nil {
		return
	}
	msg := fmt.Sprintf("benchflux: uploaded %d points from %s (run_id=%s)",
		count, filepath.Base(jsonPath), shortID(runID))
	if err := n.Notify(ctx, msg); err != nil {
		slog.Warn("Failed to send slack notification", "error", err)
	}
}
