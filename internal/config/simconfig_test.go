package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptySimConfigDefaults(t *testing.T) {
	cfg := EmptySimConfig()

	if cfg.GetDtSecs() != 0.1 {
		t.Errorf("GetDtSecs() = %f, want 0.1", cfg.GetDtSecs())
	}
	if cfg.GetTau() != 0.5 {
		t.Errorf("GetTau() = %f, want 0.5", cfg.GetTau())
	}
	if cfg.GetAgentRadius() != 0.35 {
		t.Errorf("GetAgentRadius() = %f, want 0.35", cfg.GetAgentRadius())
	}
	if cfg.GetMaxSpeedMultiplier() != 1.3 {
		t.Errorf("GetMaxSpeedMultiplier() = %f, want 1.3", cfg.GetMaxSpeedMultiplier())
	}
	if cfg.GetResolution() != 10 {
		t.Errorf("GetResolution() = %f, want 10", cfg.GetResolution())
	}
	if !cfg.GetEnableGroup() {
		t.Error("GetEnableGroup() = false, want true")
	}
	if cfg.GetSocialFactor() != 5.1 {
		t.Errorf("GetSocialFactor() = %f, want 5.1", cfg.GetSocialFactor())
	}
	if cfg.GetN() != 2 || cfg.GetNPrime() != 3 {
		t.Errorf("GetN()/GetNPrime() = %d/%d, want 2/3", cfg.GetN(), cfg.GetNPrime())
	}
	if cfg.GetActivationThreshold() != 20.0 {
		t.Errorf("GetActivationThreshold() = %f, want 20.0", cfg.GetActivationThreshold())
	}
	if cfg.GetObstacleFactor() != 10.0 {
		t.Errorf("GetObstacleFactor() = %f, want 10.0", cfg.GetObstacleFactor())
	}
	if cfg.GetGroupGazeFOVDegrees() != 90.0 {
		t.Errorf("GetGroupGazeFOVDegrees() = %f, want 90.0", cfg.GetGroupGazeFOVDegrees())
	}
}

func TestLoadSimConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sim.json")

	testJSON := `{
  "dt_secs": 0.05,
  "tau": 0.4,
  "enable_group": false,
  "social_factor": 3.0
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSimConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetDtSecs() != 0.05 {
		t.Errorf("GetDtSecs() = %f, want 0.05", cfg.GetDtSecs())
	}
	if cfg.GetTau() != 0.4 {
		t.Errorf("GetTau() = %f, want 0.4", cfg.GetTau())
	}
	if cfg.GetEnableGroup() {
		t.Error("GetEnableGroup() = true, want false")
	}
	if cfg.GetSocialFactor() != 3.0 {
		t.Errorf("GetSocialFactor() = %f, want 3.0", cfg.GetSocialFactor())
	}
	// Fields not present in the file keep their defaults.
	if cfg.GetMaxSpeedMultiplier() != 1.3 {
		t.Errorf("GetMaxSpeedMultiplier() = %f, want default 1.3", cfg.GetMaxSpeedMultiplier())
	}
}

func TestLoadSimConfigMissing(t *testing.T) {
	if _, err := LoadSimConfig("/nonexistent/path/sim.json"); err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadSimConfigWrongExtension(t *testing.T) {
	if _, err := LoadSimConfig("sim.yaml"); err == nil {
		t.Error("Expected error for non-JSON extension, got nil")
	}
}

func TestValidate(t *testing.T) {
	neg := -0.1
	zero := 0.0
	huge := 400.0

	tests := []struct {
		name    string
		mutate  func(*SimConfig)
		wantErr bool
	}{
		{"empty is valid", func(c *SimConfig) {}, false},
		{"negative dt", func(c *SimConfig) { c.DtSecs = &neg }, true},
		{"zero dt", func(c *SimConfig) { c.DtSecs = &zero }, true},
		{"negative tau", func(c *SimConfig) { c.Tau = &neg }, true},
		{"zero tau ok", func(c *SimConfig) { c.Tau = &zero }, false},
		{"zero resolution", func(c *SimConfig) { c.Resolution = &zero }, true},
		{"zero sigma", func(c *SimConfig) { c.ObstacleSigma = &zero }, true},
		{"fov over 360", func(c *SimConfig) { c.GroupGazeFOVDegrees = &huge }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := EmptySimConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSceneConfigConversion(t *testing.T) {
	dt := 0.25
	cfg := EmptySimConfig()
	cfg.DtSecs = &dt

	scene := cfg.SceneConfig()
	if scene.DtSecs != 0.25 {
		t.Errorf("SceneConfig().DtSecs = %f, want 0.25", scene.DtSecs)
	}
	if scene.Tau != 0.5 || scene.AgentRadius != 0.35 || scene.MaxSpeedMultiplier != 1.3 {
		t.Errorf("SceneConfig() defaults wrong: %+v", scene)
	}
}
