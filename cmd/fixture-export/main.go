package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/replay"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fuzzy.db")
	system := flag.String("system", "", "system whose runs are exported")
	last := flag.Int("last", 10, "number of most recent runs to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *system == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --system name --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *system, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

// run writes the active definition next to the fixture and turns the
// system's logged runs for that version into cases.
func run(dbPath, system string, last int, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()
	if err := logging.EnsureSchema(st.DB()); err != nil {
		return err
	}

	rec, err := st.GetActive(system)
	if err != nil {
		return fmt.Errorf("get active system: %w", err)
	}

	runs, err := logging.ListRuns(st.DB(), system, 0)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	// Newest first; keep the last N successful runs of the active version
	var picked []logging.RunEntry
	for _, r := range runs {
		if r.VersionID != rec.VersionID || r.Error != "" {
			continue
		}
		picked = append(picked, r)
		if last > 0 && len(picked) == last {
			break
		}
	}
	if len(picked) == 0 {
		return fmt.Errorf("no successful runs for %s version %s", system, rec.VersionID)
	}

	cases := make([]replay.Case, 0, len(picked))
	for i := len(picked) - 1; i >= 0; i-- {
		r := picked[i]
		cases = append(cases, replay.Case{
			ID:       fmt.Sprintf("run-%d", len(cases)+1),
			Inputs:   r.Inputs,
			Expected: r.Outputs,
		})
	}

	systemFile := slug(system) + ".yaml"
	systemPath := filepath.Join(filepath.Dir(outPath), systemFile)
	if err := os.WriteFile(systemPath, []byte(rec.Definition), 0o644); err != nil {
		return fmt.Errorf("write system: %w", err)
	}

	fixture := &replay.Fixture{
		Description: fmt.Sprintf("%d runs of %s exported from version %s", len(cases), system, rec.VersionID),
		System:      systemFile,
		Cases:       cases,
	}
	if err := replay.WriteFixture(outPath, fixture); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %d cases to %s (system %s)\n", len(cases), outPath, systemPath)
	return nil
}

// slug keeps letters, digits, dashes and underscores; anything else becomes '-'.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.TrimSpace(name))
	if s == "" {
		return "system"
	}
	return s
}

// #endregion extract
