package report

import (
	"strings"
	"time"
)

// Report is a parsed Google Benchmark JSON document.
type Report struct {
	Context    RunContext `json:"context"`
	Benchmarks []Entry    `json:"benchmarks"`
}

// RunContext carries the run metadata Google Benchmark emits, plus the
// custom fields the benchmark harness injects (compiler, signature, git).
type RunContext struct {
	Date        string   `json:"date,omitempty"`
	HostName    string   `json:"host_name,omitempty"`
	MHzPerCPU   *float64 `json:"mhz_per_cpu,omitempty"`
	NumCPUs     *int64   `json:"num_cpus,omitempty"`
	BuildType   string   `json:"build_type,omitempty"`
	Compiler    string   `json:"compiler,omitempty"`
	GASignature string   `json:"ga_signature,omitempty"`
	GitSHA      string   `json:"git_sha,omitempty"`
	GitBranch   string   `json:"git_branch,omitempty"`
	RunID       string   `json:"run_id,omitempty"`
}

// Entry is one measured benchmark case. Numeric fields are pointers so a
// missing value can be told apart from a measured zero.
type Entry struct {
	Name                string   `json:"name"`
	Iterations          *int64   `json:"iterations,omitempty"`
	RealTime            *float64 `json:"real_time,omitempty"`
	CPUTime             *float64 `json:"cpu_time,omitempty"`
	TimeUnit            string   `json:"time_unit,omitempty"`
	AllocsPerIter       *float64 `json:"allocs_per_iter,omitempty"`
	MaxBytesUsed        *float64 `json:"max_bytes_used,omitempty"`
	TotalAllocatedBytes *float64 `json:"total_allocated_bytes,omitempty"`
	NetHeapGrowth       *float64 `json:"net_heap_growth,omitempty"`
	ErrorOccurred       bool     `json:"error_occurred,omitempty"`
}

// benchDateFormat is the textual timestamp Google Benchmark writes by default.
const benchDateFormat = "2006/01/02-15:04:05"

// Timestamp resolves the report date to UTC. Newer producers emit RFC 3339,
// older ones the slash-separated format; anything unparseable falls back to now.
func (c RunContext) Timestamp(now time.Time) time.Time {
	if c.Date != "" {
		if ts, err := time.Parse(benchDateFormat, c.Date); err == nil {
			return ts.UTC()
		}
		if ts, err := time.Parse(time.RFC3339, c.Date); err == nil {
			return ts.UTC()
		}
	}
	return now.UTC()
}

// SplitName divides a benchmark name into its suite and argument parts.
// "BM_Wedge/1024" -> ("BM_Wedge", "1024"); names without an argument get
// the "N/A" placeholder so the tag is always present.
func SplitName(name string) (suite, arg string) {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, "N/A"
}
