// Package main provides a performance benchmarking tool for the Insight CLI.
// It generates synthetic SQLite datasets of increasing size, measures execution
// times of the main commands with history tracking disabled and enabled,
// running each test multiple times, treating the first successful tracked run as cold
// and averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - insight binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic datasets are generated
package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	UntrackedTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	UntrackedRuns int
	TrackedRuns   int
	Datasets      map[string]int // dataset name -> number of turnover rows
	DatasetOrder  []string
}

// benchmarkCommand is one CLI invocation and the phrase its successful output contains.
type benchmarkCommand struct {
	name    string
	args    []string
	success string
}

var commands = []benchmarkCommand{
	{name: "trend", args: []string{"analyze", "trend", "--source", "turnover", "-p", "valueField=rate"}, success: "Analysis completed in"},
	{name: "anomaly", args: []string{"analyze", "anomaly", "--source", "turnover", "-p", "valueField=rate"}, success: "Analysis completed in"},
	{name: "segmentation", args: []string{"analyze", "segmentation", "--source", "employees", "-p", "segmentBy=department", "-p", "metrics=salary"}, success: "Analysis completed in"},
	{name: "report", args: []string{"report", "workforce"}, success: "Report generated from"},
	{name: "risk", args: []string{"risk", "score", "E1"}, success: "attrition risk"},
}

var departments = []string{"sales", "tech", "finance", "hr", "marketing", "operations"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       2 * time.Minute,
		UntrackedRuns: 3,
		TrackedRuns:   4,
		Datasets:      map[string]int{"small": 1_000, "medium": 50_000, "large": 500_000},
		DatasetOrder:  []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	for _, name := range config.DatasetOrder {
		fmt.Printf("Generating %s dataset (%d rows)...\n", name, config.Datasets[name])
		if err := generateDataset(datasetPath(config, name), config.Datasets[name]); err != nil {
			fmt.Printf("Failed to generate dataset %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the insight binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("insight"); err != nil {
		return fmt.Errorf("insight binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

func datasetPath(config BenchmarkConfig, name string) string {
	return filepath.Join(config.WorkDir, "insight_bench_"+name+".db")
}

// generateDataset writes a synthetic SQLite data file with n turnover rows and n/10 employees.
func generateDataset(path string, n int) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ddl := []string{
		`CREATE TABLE turnover (department TEXT, rate REAL, created_at TEXT)`,
		`CREATE TABLE employees (employee_id TEXT, department TEXT, position TEXT, salary REAL, hire_date TEXT, last_promotion_date TEXT)`,
		`CREATE TABLE performance_reviews (employee_id TEXT, rating INTEGER, review_date TEXT)`,
		`CREATE TABLE survey_responses (employee_id TEXT, survey_type TEXT, rating INTEGER, created_at TEXT)`,
		`CREATE TABLE training_records (employee_id TEXT, status TEXT, completion_date TEXT)`,
		`CREATE TABLE risk_scores (employee_id TEXT, score INTEGER, created_at TEXT)`,
		`CREATE TABLE headcount (count REAL, created_at TEXT)`,
		`CREATE TABLE hiring (hires REAL, created_at TEXT)`,
		`CREATE TABLE training_completion (rate REAL, created_at TEXT)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(42, uint64(n)))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		day := start.Add(time.Duration(i) * time.Hour).Format(time.DateTime)
		dept := departments[i%len(departments)]
		rate := 5 + 2*math.Sin(float64(i)/200) + rng.NormFloat64()*0.5
		if _, err := tx.Exec(`INSERT INTO turnover VALUES (?, ?, ?)`, dept, rate, day); err != nil {
			_ = tx.Rollback()
			return err
		}
		if i%10 != 0 {
			continue
		}
		id := fmt.Sprintf("E%d", i/10+1)
		hire := start.AddDate(0, -rng.IntN(120), 0).Format(time.DateOnly)
		inserts := []struct {
			query string
			args  []any
		}{
			{`INSERT INTO employees VALUES (?, ?, ?, ?, ?, ?)`, []any{id, dept, "staff", 4000 + rng.Float64()*6000, hire, ""}},
			{`INSERT INTO performance_reviews VALUES (?, ?, ?)`, []any{id, 1 + rng.IntN(5), day}},
			{`INSERT INTO survey_responses VALUES (?, ?, ?, ?)`, []any{id, "satisfaction", 1 + rng.IntN(5), day}},
			{`INSERT INTO training_records VALUES (?, ?, ?)`, []any{id, "completed", day}},
			{`INSERT INTO risk_scores VALUES (?, ?, ?)`, []any{id, rng.IntN(100), day}},
			{`INSERT INTO headcount VALUES (?, ?)`, []any{float64(100 + i/10), day}},
			{`INSERT INTO hiring VALUES (?, ?)`, []any{float64(rng.IntN(10)), day}},
			{`INSERT INTO training_completion VALUES (?, ?)`, []any{rng.Float64(), day}},
		}
		for _, ins := range inserts {
			if _, err := tx.Exec(ins.query, ins.args...); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// runBenchmarks executes all benchmark commands across the generated datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, untracked: %d runs, tracked: %d runs\n",
		len(config.DatasetOrder), config.Timeout, config.UntrackedRuns, config.TrackedRuns)

	for _, name := range config.DatasetOrder {
		fmt.Printf("Benchmarking %s\n", name)
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, name, c))
		}
	}
	return results
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset string, c benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", c.name, dataset)
	historyPath := filepath.Join(config.WorkDir, "insight_bench_history.db")
	_ = os.Remove(historyPath)

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		env := []string{
			"INSIGHT_BACKEND=sqlite",
			"INSIGHT_DB_CONNECT=" + datasetPath(config, dataset),
			"INSIGHT_HISTORY_BACKEND=" + historyBackend,
			"INSIGHT_HISTORY_DB_CONNECT=" + historyPath,
		}
		cold, times := runBenchmark(config, c, env, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: Untracked runs
	_, untrackedAvg := runPhase("none", config.UntrackedRuns, "Untracked")

	// Phase 2: Tracked runs
	coldTime, warmAvg := runPhase("sqlite", config.TrackedRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackedAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     c.name,
		UntrackedTime: untrackedAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an insight command multiple times and returns the first time and the remaining times
func runBenchmark(config BenchmarkConfig, c benchmarkCommand, env []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("insight", c.args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), c.success) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
		if len(warmTimes) == 0 {
			warmTimes = times
		}
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("insight_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.UntrackedTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, result := range results {
			if result.Command == c.name {
				fmt.Printf("  %-8s: Untracked: %s, Cold: %s, Warm: %s\n", result.Dataset, result.UntrackedTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
