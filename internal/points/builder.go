// Package points turns parsed benchmark entries into InfluxDB measurement
// points.
package points

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"benchflux/internal/report"
)

// Measurement is the single measurement name all points are written under.
// Dashboards key on it; changing it breaks every existing query.
const Measurement = "ga_benchmark"

// Options carries per-run inputs that do not come from the report itself.
type Options struct {
	// Host is the name of the machine running the upload.
	Host string
	// FallbackRunID identifies the run when the report context carries no
	// run_id of its own (the content hash of the input bytes).
	FallbackRunID string
	// Now is the timestamp used when the report date is absent or unparseable.
	Now time.Time
}

// Build constructs one point per non-errored benchmark entry. Fields are
// attached only when the source value is present, never as zero or null, so
// every field keeps a single consistent type across the run.
func Build(rep *report.Report, opts Options) []*write.Point {
	ctx := rep.Context

	runID := ctx.RunID
	if runID == "" {
		runID = opts.FallbackRunID
	}
	branch := ctx.GitBranch
	if branch == "" {
		// Always tagged; line protocol drops empty tag values, so a report
		// without branch metadata still needs a concrete placeholder.
		branch = "unknown"
	}
	ts := ctx.Timestamp(opts.Now)

	pts := make([]*write.Point, 0, len(rep.Benchmarks))
	for _, b := range rep.Benchmarks {
		if b.ErrorOccurred {
			continue
		}

		suite, arg := report.SplitName(b.Name)

		p := write.NewPointWithMeasurement(Measurement).
			AddTag("benchmark", b.Name).
			AddTag("suite", suite).
			AddTag("arg", arg).
			AddTag("host", opts.Host).
			AddTag("run_id", runID).
			AddTag("git_branch", branch).
			SetTime(ts)

		addTagIfSet(p, "build_type", ctx.BuildType)
		addTagIfSet(p, "compiler", ctx.Compiler)
		addTagIfSet(p, "ga_signature", ctx.GASignature)
		addTagIfSet(p, "git_sha", ctx.GitSHA)
		if ctx.MHzPerCPU != nil {
			p.AddTag("cpu_mhz", strconv.FormatFloat(*ctx.MHzPerCPU, 'f', -1, 64))
		}
		if ctx.NumCPUs != nil {
			p.AddTag("num_cpus", strconv.FormatInt(*ctx.NumCPUs, 10))
		}

		if b.RealTime != nil {
			p.AddField("real_time_ns", *b.RealTime)
		}
		if b.CPUTime != nil {
			p.AddField("cpu_time_ns", *b.CPUTime)
		}
		if b.Iterations != nil {
			p.AddField("iterations", *b.Iterations)
		}
		if b.AllocsPerIter != nil {
			p.AddField("allocs_per_iter", *b.AllocsPerIter)
		}
		if b.MaxBytesUsed != nil {
			p.AddField("max_bytes_used", *b.MaxBytesUsed)
		}
		if b.TotalAllocatedBytes != nil {
			p.AddField("total_allocated_bytes", *b.TotalAllocatedBytes)
		}
		if b.NetHeapGrowth != nil {
			p.AddField("net_heap_growth", *b.NetHeapGrowth)
		}

		// Machine normalization. Both fields carry the same value; existing
		// dashboards query both names.
		if b.RealTime != nil && ctx.MHzPerCPU != nil {
			cycles := *b.RealTime * *ctx.MHzPerCPU * 1e-3
			p.AddField("cycles_estimate", cycles)
			p.AddField("normalized_time_1ghz_ns", cycles)
		}

		pts = append(pts, p)
	}
	return pts
}

func addTagIfSet(p *write.Point, key, value string) {
	if value != "" {
		p.AddTag(key, value)
	}
}
