package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/eval"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
	"github.com/danielpatrickdp/fuzzy-controller/internal/validate"
)

// #region main
func main() {
	systemName := flag.String("system", "", "stored system to run (ignored when FIS_SYSTEM is set)")
	flag.Parse()
	env := config.LoadEnv()

	// Initialize store and run log
	st, err := store.NewStore(env.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	if err := logging.EnsureSchema(st.DB()); err != nil {
		log.Fatalf("failed to prepare run log: %v", err)
	}

	name, versionID, engine := loadEngine(st, env, *systemName)

	// Validate before serving any input
	report := validate.NewValidator(validate.DefaultConfig()).Check(engine)
	for _, is := range report.Soft {
		log.Printf("warning: %s: %s", is.Type, is.Reason)
	}
	if !report.Passed {
		log.Fatalf("system %q failed validation: %s", name, report.Reason)
	}
	harness := eval.NewEvalHarness(eval.DefaultEvalConfig())

	fmt.Println("Fuzzy inference REPL ready.")
	fmt.Printf("  DB: %s | System: %s", env.DBPath, name)
	if versionID != "" {
		fmt.Printf(" (%s)", versionID)
	}
	fmt.Println()
	fmt.Printf("Enter %d values for %s (or 'show', 'quit'):\n", len(engine.Inputs), inputNames(engine))

	scanner := bufio.NewScanner(os.Stdin)
	runNum := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if line == "show" {
			data, err := config.MarshalSystem(config.FromEngine(engine))
			if err != nil {
				log.Printf("show error: %v", err)
				continue
			}
			fmt.Printf("\n%s\n", data)
			continue
		}

		values, err := parseValues(line)
		if err != nil {
			log.Printf("input error: %v", err)
			continue
		}
		runNum++

		start := time.Now()
		res, inferErr := engine.InferDetailed(values)
		run := logging.RunEntry{
			SystemName:     name,
			VersionID:      versionID,
			Inputs:         values,
			Outputs:        res.Outputs,
			Strengths:      res.Strengths,
			DurationMicros: time.Since(start).Microseconds(),
		}
		if inferErr != nil {
			run.Error = inferErr.Error()
		}
		if _, err := logging.LogRun(st.DB(), run); err != nil {
			log.Printf("logging error: %v", err)
		}
		if inferErr != nil {
			log.Printf("inference error: %v", inferErr)
			continue
		}

		fmt.Println()
		for j, out := range engine.Outputs {
			fmt.Printf("  %s = %.4f\n", out.Name, res.Outputs[j])
		}
		result := harness.Run(engine, res)
		fmt.Printf("[run-%d] %s\n\n", runNum, result.Reason)
	}
}

// #endregion main

// #region helpers
// loadEngine prefers the FIS_SYSTEM file, then the named stored system.
func loadEngine(st *store.Store, env config.Env, systemName string) (string, string, *fuzzy.Engine) {
	if env.SystemPath != "" {
		sf, err := config.LoadSystem(env.SystemPath)
		if err != nil {
			log.Fatalf("failed to load system: %v", err)
		}
		if env.Partitions > 0 {
			sf.Partitions = env.Partitions
		}
		e, err := sf.Build()
		if err != nil {
			log.Fatalf("failed to build system: %v", err)
		}
		return e.Name, "", e
	}

	if systemName == "" {
		log.Fatalf("no system: set FIS_SYSTEM to a YAML file or pass --system with a stored name")
	}
	reg, err := registry.New(st, registry.Config{Size: 1, Partitions: env.Partitions})
	if err != nil {
		log.Fatalf("failed to create registry: %v", err)
	}
	entry, err := reg.Engine(systemName)
	if err != nil {
		log.Fatalf("failed to load system %q: %v", systemName, err)
	}
	return entry.Name, entry.VersionID, entry.Engine
}

func parseValues(line string) ([]float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func inputNames(e *fuzzy.Engine) string {
	names := make([]string, len(e.Inputs))
	for i, v := range e.Inputs {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}

// #endregion helpers
