package preflight

import (
	"fmt"
	"strings"

	"eafcut/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the input folder, the output folder and the ffmpeg binary
// for a batch run.
func RunAll(cfg *config.Config, inputDir, outputDir string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckReadableDirectory("Input folder", inputDir),
		CheckDirectoryAccess("Output folder", outputDir),
	}
	for _, status := range CheckSystemDeps(cfg) {
		if status.Optional {
			continue
		}
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Path
		}
		results = append(results, result)
	}
	return results
}

// Err folds failed results into a single error, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
}
