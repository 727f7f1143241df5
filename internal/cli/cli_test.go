package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSimulateWithPlanFile(t *testing.T) {
	t.Setenv("SARLINK_LLM_BACKEND", "none")
	dir := t.TempDir()
	plans := `{"plans":[{"name":"advance","tasks":[
	  {"description":"Walk to x=15","assignedTo":"Go2-Alpha","type":"SEARCH","priority":"HIGH","targetCoordinates":{"x":15,"y":2,"z":0}},
	  {"description":"Ghost","assignedTo":"Unknown-Bot","type":"WAIT","priority":"LOW"}]}]}`
	planPath := filepath.Join(dir, "plans.json")
	if err := os.WriteFile(planPath, []byte(plans), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"simulate",
		"--config", filepath.Join(dir, "none.yaml"),
		"--log", filepath.Join(dir, "test.log"),
		"--ticks", "60",
		"--plan", planPath,
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"After 60 ticks:",
		"Could not assign task to unknown robot: Unknown-Bot",
		"Go2-Alpha reached waypoint. Starting local search.",
		"assigned=1, unresolved=1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Output missing %q:\n%s", want, got)
		}
	}
}
