package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
	"github.com/danielpatrickdp/fuzzy-controller/internal/validate"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fuzzy.db")
	system := flag.String("system", "", "list versions of one system")
	last := flag.Int("last", 20, "show N most recent versions or runs")
	version := flag.String("version", "", "show single version detail")
	runs := flag.Bool("runs", false, "list logged runs instead of versions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/fuzzy.db [--system name] [--last N] [--version id] [--runs] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *version != "":
		err = runDetailMode(st, *version, *jsonOut)
	case *runs:
		err = runRunsMode(st, *system, *last, *jsonOut)
	case *system != "":
		err = runVersionsMode(st, *system, *last, *jsonOut)
	default:
		err = runSystemsMode(st, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region systems-mode

type systemRow struct {
	Name      string `json:"name"`
	VersionID string `json:"version_id"`
	CreatedAt string `json:"created_at"`
}

func runSystemsMode(st *store.Store, jsonOut bool) error {
	systems, err := st.ListSystems()
	if err != nil {
		return err
	}
	if len(systems) == 0 {
		fmt.Fprintln(os.Stderr, "no systems found")
		return nil
	}

	rows := make([]systemRow, len(systems))
	for i, s := range systems {
		rows[i] = systemRow{Name: s.Name, VersionID: s.VersionID, CreatedAt: formatTime(s.CreatedAt)}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-20s  %-12s  %s\n", "System", "Active", "Since")
	fmt.Printf("%-20s+-%-12s+-%s\n", "--------------------", "------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-20s  %-12s  %s\n", r.Name, shortID(r.VersionID), r.CreatedAt)
	}
	return nil
}

// #endregion systems-mode

// #region versions-mode

type versionRow struct {
	VersionID string `json:"version_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Active    bool   `json:"active"`
	Inputs    int    `json:"inputs"`
	Outputs   int    `json:"outputs"`
	Rules     int    `json:"rules"`
	CreatedAt string `json:"created_at"`
}

func runVersionsMode(st *store.Store, system string, last int, jsonOut bool) error {
	versions, err := st.ListVersions(system, last)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintf(os.Stderr, "no versions found for %s\n", system)
		return nil
	}

	var activeID string
	if active, err := st.GetActive(system); err == nil {
		activeID = active.VersionID
	}

	rows := make([]versionRow, len(versions))
	for i, v := range versions {
		row := versionRow{
			VersionID: v.VersionID,
			ParentID:  v.ParentID,
			Active:    v.VersionID == activeID,
			CreatedAt: formatTime(v.CreatedAt),
		}
		if sf, err := config.ParseSystem([]byte(v.Definition)); err == nil {
			row.Inputs = len(sf.Inputs)
			row.Outputs = len(sf.Outputs)
			row.Rules = len(sf.Rules)
		}
		rows[i] = row
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-12s  %6s  %7s  %5s  %-6s  %s\n",
		"Version", "Parent", "Inputs", "Outputs", "Rules", "Active", "Time")
	fmt.Printf("%-12s+-%-12s+-%6s+-%7s+-%5s+-%-6s+-%s\n",
		"------------", "------------", "------", "-------", "-----", "------", "--------------------")
	for _, r := range rows {
		active := ""
		if r.Active {
			active = "*"
		}
		fmt.Printf("%-12s  %-12s  %6d  %7d  %5d  %-6s  %s\n",
			shortID(r.VersionID), shortID(r.ParentID), r.Inputs, r.Outputs, r.Rules, active, r.CreatedAt)
	}
	return nil
}

// #endregion versions-mode

// #region detail-mode

type detailOutput struct {
	VersionID  string   `json:"version_id"`
	ParentID   string   `json:"parent_id,omitempty"`
	Name       string   `json:"name"`
	CreatedAt  string   `json:"created_at"`
	Validation string   `json:"validation"`
	Warnings   []string `json:"warnings,omitempty"`
	Definition string   `json:"definition"`
}

func runDetailMode(st *store.Store, versionID string, jsonOut bool) error {
	rec, err := st.GetVersion(versionID)
	if err != nil {
		return err
	}

	out := detailOutput{
		VersionID:  rec.VersionID,
		ParentID:   rec.ParentID,
		Name:       rec.Name,
		CreatedAt:  formatTime(rec.CreatedAt),
		Definition: rec.Definition,
	}

	sf, err := config.ParseSystem([]byte(rec.Definition))
	if err == nil {
		e, buildErr := sf.Build()
		if buildErr != nil {
			err = buildErr
		} else {
			rep := validate.NewValidator(validate.DefaultConfig()).Check(e)
			out.Validation = rep.Reason
			for _, is := range rep.Soft {
				out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", is.Type, is.Reason))
			}
		}
	}
	if err != nil {
		out.Validation = fmt.Sprintf("invalid: %v", err)
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Version:    %s\n", out.VersionID)
	fmt.Printf("Parent:     %s\n", out.ParentID)
	fmt.Printf("System:     %s\n", out.Name)
	fmt.Printf("Created:    %s\n", out.CreatedAt)
	fmt.Printf("Validation: %s\n", out.Validation)
	for _, w := range out.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Printf("\nDefinition:\n%s\n", strings.TrimRight(out.Definition, "\n"))
	return nil
}

// #endregion detail-mode

// #region runs-mode

type runRow struct {
	RunID          string    `json:"run_id"`
	SystemName     string    `json:"system"`
	VersionID      string    `json:"version_id,omitempty"`
	Inputs         []float64 `json:"inputs"`
	Outputs        []float64 `json:"outputs,omitempty"`
	Error          string    `json:"error,omitempty"`
	DurationMicros int64     `json:"duration_us"`
	CreatedAt      string    `json:"created_at"`
}

func runRunsMode(st *store.Store, system string, last int, jsonOut bool) error {
	if err := logging.EnsureSchema(st.DB()); err != nil {
		return err
	}
	entries, err := logging.ListRuns(st.DB(), system, last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]runRow, len(entries))
	for i, r := range entries {
		rows[i] = runRow{
			RunID:          r.RunID,
			SystemName:     r.SystemName,
			VersionID:      r.VersionID,
			Inputs:         r.Inputs,
			Outputs:        r.Outputs,
			Error:          r.Error,
			DurationMicros: r.DurationMicros,
			CreatedAt:      formatTime(r.CreatedAt),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-14s  %-10s  %-24s  %-24s  %8s\n",
		"Run", "System", "Version", "Inputs", "Outputs", "us")
	fmt.Printf("%-10s+-%-14s+-%-10s+-%-24s+-%-24s+-%8s\n",
		"----------", "--------------", "----------", "------------------------", "------------------------", "--------")
	for _, r := range rows {
		outputs := formatFloats(r.Outputs)
		if r.Error != "" {
			outputs = "error: " + r.Error
		}
		fmt.Printf("%-10s  %-14s  %-10s  %-24s  %-24s  %8d\n",
			shortID(r.RunID), r.SystemName, shortID(r.VersionID), formatFloats(r.Inputs), outputs, r.DurationMicros)
	}
	return nil
}

// #endregion runs-mode

// #region output

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.3f", x)
	}
	return strings.Join(parts, " ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
