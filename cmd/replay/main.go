package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/replay"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fuzzy.db (DB mode)")
	system := flag.String("system", "", "system whose logged runs are replayed (DB mode)")
	last := flag.Int("last", 100, "replay N most recent runs (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	tolerance := flag.Float64("tolerance", 0, "override the output tolerance")
	flag.Parse()

	dbMode := *dbPath != "" && *system != ""
	if dbMode == (*fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/fuzzy.db --system name [--last N] [--tolerance t]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json [--tolerance t]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *tolerance)
	} else {
		exitCode = runDBMode(*dbPath, *system, *last, *tolerance)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

// runDBMode replays logged runs against the system's active version, so an
// edited definition can be checked against what earlier versions produced.
func runDBMode(dbPath, system string, last int, tolerance float64) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()
	if err := logging.EnsureSchema(st.DB()); err != nil {
		fmt.Fprintf(os.Stderr, "prepare run log: %v\n", err)
		return 2
	}

	rec, err := st.GetActive(system)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get active system: %v\n", err)
		return 2
	}
	sf, err := config.ParseSystem([]byte(rec.Definition))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse system: %v\n", err)
		return 2
	}
	e, err := sf.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build system: %v\n", err)
		return 2
	}

	runs, err := logging.ListRuns(st.DB(), system, last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		return 2
	}

	// Runs come back newest first; replay in the order they happened.
	// Failed runs only kept their message, so they are not comparable.
	var cases []replay.Case
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		if r.Error != "" {
			continue
		}
		cases = append(cases, replay.Case{ID: shortID(r.RunID), Inputs: r.Inputs, Expected: r.Outputs})
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "no successful runs found")
		return 0
	}

	fmt.Printf("Replaying %d runs of %q against version %s\n\n", len(cases), system, shortID(rec.VersionID))
	cfg := replay.DefaultReplayConfig()
	if tolerance > 0 {
		cfg.Tolerance = tolerance
	}
	return printComparison(e, replay.Replay(e, cases, cfg))
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string, tolerance float64) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	e, err := f.Engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load system: %v\n", err)
		return 2
	}

	cfg := f.ToReplayConfig()
	if tolerance > 0 {
		cfg.Tolerance = tolerance
	}
	if f.Description != "" {
		fmt.Printf("%s\n\n", f.Description)
	}
	return printComparison(e, replay.Replay(e, f.Cases, cfg))
}

// #endregion fixture-mode

// #region output

// printComparison outputs a result table and returns the exit code.
func printComparison(e *fuzzy.Engine, results []replay.CaseResult) int {
	fmt.Printf("%-12s| %-9s| %-10s| %s\n", "Case", "Result", "MaxDiff", "Outputs")
	fmt.Printf("%-12s+%-10s+%-11s+%s\n",
		"------------", "----------", "-----------", "----------------")

	for _, r := range results {
		fmt.Printf("%-12s| %-9s| %-10.4f| %s\n", r.ID, r.Action, r.MaxDiff, formatOutputs(e, r.Outputs))
		if r.Action != "pass" {
			fmt.Printf("%-12s  %s\n", "", r.Reason)
		}
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d pass, %d mismatch, %d error\n",
		s.TotalCases, s.Passed, s.Mismatches, s.Errors)

	if s.Mismatches > 0 || s.Errors > 0 {
		return 1
	}
	return 0
}

func formatOutputs(e *fuzzy.Engine, outputs []float64) string {
	if len(outputs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(outputs))
	for j, v := range outputs {
		name := fmt.Sprintf("out%d", j)
		if j < len(e.Outputs) {
			name = e.Outputs[j].Name
		}
		parts = append(parts, fmt.Sprintf("%s=%.4f", name, v))
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
