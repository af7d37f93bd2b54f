package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coveragewatch/coverage-sentinel/internal/artifacts"
	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/internal/metrics"
	"github.com/coveragewatch/coverage-sentinel/internal/simulator"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	scenarioFile := flag.String("scenarios", "", "YAML file with extra scenarios")
	artifactsDir := flag.String("artifacts", "artifacts", "directory for report artifacts")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")
	logger.Info("Starting scenario simulator")

	eng, err := engine.New(models.DefaultParams())
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	scenarios := simulator.DefaultScenarios()
	if *scenarioFile != "" {
		scenarios, err = simulator.LoadScenarioFile(*scenarioFile)
		if err != nil {
			return fmt.Errorf("failed to load scenarios: %w", err)
		}
	}

	suite := simulator.New(eng, scenarios)
	report, err := suite.Run()
	if err != nil {
		return fmt.Errorf("scenario suite failed: %w", err)
	}

	metricsReport, err := metrics.NewAggregator(eng).Aggregate(suite.Scenarios(), nil)
	if err != nil {
		return fmt.Errorf("metrics aggregation failed: %w", err)
	}

	store, err := artifacts.NewStore(*artifactsDir)
	if err != nil {
		return fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	if err := store.WriteScenarioReport(report); err != nil {
		return err
	}
	if err := store.WriteMetricsReport(metricsReport); err != nil {
		return err
	}

	for _, res := range report.Results {
		entry := logger.WithField("scenario", res.ID)
		if res.Pass {
			entry.Infof("PASS final_state=%s transitions=%d", res.Result.FinalState, len(res.Result.Transitions))
		} else {
			entry.Errorf("FAIL %s", res.Failure)
		}
	}

	s := report.Summary
	logger.Infof("Suite finished: %d/%d passed, churn=%.2f, reports written to %s",
		s.ScenariosPass, s.ScenariosTotal, s.ChurnRatio, store.Dir())

	if s.ScenariosPass < s.ScenariosTotal {
		return fmt.Errorf("%d scenario(s) failed", s.ScenariosTotal-s.ScenariosPass)
	}
	return nil
}
