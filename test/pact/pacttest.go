//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "bloodlink-api"
	ConsumerName = "donor-portal"

	StateUrgentCallsExist = "urgent calls exist"
	StateBloodDrivesExist = "blood drives exist"
	StateHeroesBaseline   = "donor heroes baseline"
)

const (
	exampleHospitalName  = "Pact General Hospital"
	exampleBloodBankName = "Pact Central Blood Bank"
	examplePhone         = "0223456789"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the donor portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleUrgentCall provides stable test data for appeal interactions.
func ExampleUrgentCall() map[string]any {
	return map[string]any{
		"gov":         "4",
		"city":        "12",
		"description": "Urgent need after a traffic accident",
		"bloodGroup": []map[string]any{
			{"bloodType": "O-", "count": 5},
		},
	}
}

// ExampleBloodDrive provides stable test data for drive interactions.
func ExampleBloodDrive() map[string]any {
	return map[string]any{
		"startDate":   "2026-09-10T09:00:00Z",
		"endDate":     "2026-09-12T17:00:00Z",
		"phone":       examplePhone,
		"description": "Quarterly community blood drive",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
