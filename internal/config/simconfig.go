package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
)

// SimConfig is the root simulation configuration. Fields are pointers so a
// partial JSON file only overrides what it names; the Get* accessors supply
// the defaults for everything else. The same schema serves startup files
// and programmatic overrides.
type SimConfig struct {
	// Scene params
	DtSecs             *float64 `json:"dt_secs,omitempty"`
	Tau                *float64 `json:"tau,omitempty"`
	AgentRadius        *float64 `json:"agent_radius,omitempty"`
	MaxSpeedMultiplier *float64 `json:"max_speed_multiplier,omitempty"`
	Resolution         *float64 `json:"resolution,omitempty"`
	EnableGroup        *bool    `json:"enable_group,omitempty"`

	// Desired (goal attraction) force params
	DesiredFactor        *float64 `json:"desired_factor,omitempty"`
	DesiredGoalThreshold *float64 `json:"desired_goal_threshold,omitempty"`

	// Social (pedestrian repulsion) force params
	SocialFactor        *float64 `json:"social_factor,omitempty"`
	LambdaImportance    *float64 `json:"lambda_importance,omitempty"`
	Gamma               *float64 `json:"gamma,omitempty"`
	N                   *int     `json:"n,omitempty"`
	NPrime              *int     `json:"n_prime,omitempty"`
	ActivationThreshold *float64 `json:"activation_threshold,omitempty"`

	// Obstacle force params
	ObstacleFactor    *float64 `json:"obstacle_factor,omitempty"`
	ObstacleSigma     *float64 `json:"obstacle_sigma,omitempty"`
	ObstacleThreshold *float64 `json:"obstacle_threshold,omitempty"`

	// Group force params
	GroupCoherenceFactor    *float64 `json:"group_coherence_factor,omitempty"`
	GroupRepulsiveFactor    *float64 `json:"group_repulsive_factor,omitempty"`
	GroupRepulsiveThreshold *float64 `json:"group_repulsive_threshold,omitempty"`
	GroupGazeFactor         *float64 `json:"group_gaze_factor,omitempty"`
	GroupGazeFOVDegrees     *float64 `json:"group_gaze_fov_degrees,omitempty"`
}

// EmptySimConfig returns a SimConfig with every field unset; all accessors
// return defaults.
func EmptySimConfig() *SimConfig {
	return &SimConfig{}
}

// LoadSimConfig loads a SimConfig from a JSON file. Fields omitted from the
// file keep their defaults, so partial configs are safe.
func LoadSimConfig(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *SimConfig) Validate() error {
	if c.DtSecs != nil && *c.DtSecs <= 0 {
		return fmt.Errorf("dt_secs must be positive, got %f", *c.DtSecs)
	}
	if c.Tau != nil && *c.Tau < 0 {
		return fmt.Errorf("tau must be non-negative, got %f", *c.Tau)
	}
	if c.MaxSpeedMultiplier != nil && *c.MaxSpeedMultiplier <= 0 {
		return fmt.Errorf("max_speed_multiplier must be positive, got %f", *c.MaxSpeedMultiplier)
	}
	if c.Resolution != nil && *c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %f", *c.Resolution)
	}
	if c.ObstacleSigma != nil && *c.ObstacleSigma <= 0 {
		return fmt.Errorf("obstacle_sigma must be positive, got %f", *c.ObstacleSigma)
	}
	if c.GroupGazeFOVDegrees != nil && (*c.GroupGazeFOVDegrees <= 0 || *c.GroupGazeFOVDegrees > 360) {
		return fmt.Errorf("group_gaze_fov_degrees must be in (0, 360], got %f", *c.GroupGazeFOVDegrees)
	}
	return nil
}

// SceneConfig converts the scene-level parameters into the form consumed
// by crowd.NewPedState.
func (c *SimConfig) SceneConfig() crowd.SceneConfig {
	return crowd.SceneConfig{
		DtSecs:             c.GetDtSecs(),
		Tau:                c.GetTau(),
		AgentRadius:        c.GetAgentRadius(),
		MaxSpeedMultiplier: c.GetMaxSpeedMultiplier(),
	}
}

// GetDtSecs returns the integration timestep or the default.
func (c *SimConfig) GetDtSecs() float64 {
	if c.DtSecs == nil {
		return 0.1
	}
	return *c.DtSecs
}

// GetTau returns the default relaxation time or the default.
func (c *SimConfig) GetTau() float64 {
	if c.Tau == nil {
		return 0.5
	}
	return *c.Tau
}

// GetAgentRadius returns the pedestrian body radius or the default.
func (c *SimConfig) GetAgentRadius() float64 {
	if c.AgentRadius == nil {
		return 0.35
	}
	return *c.AgentRadius
}

// GetMaxSpeedMultiplier returns the speed-cap multiplier or the default.
func (c *SimConfig) GetMaxSpeedMultiplier() float64 {
	if c.MaxSpeedMultiplier == nil {
		return 1.3
	}
	return *c.MaxSpeedMultiplier
}

// GetResolution returns the obstacle sampling density or the default.
func (c *SimConfig) GetResolution() float64 {
	if c.Resolution == nil {
		return 10
	}
	return *c.Resolution
}

// GetEnableGroup reports whether group forces are active.
func (c *SimConfig) GetEnableGroup() bool {
	if c.EnableGroup == nil {
		return true
	}
	return *c.EnableGroup
}

// GetDesiredFactor returns the goal-attraction factor or the default.
func (c *SimConfig) GetDesiredFactor() float64 {
	if c.DesiredFactor == nil {
		return 1.0
	}
	return *c.DesiredFactor
}

// GetDesiredGoalThreshold returns the arrival distance below which agents
// brake instead of accelerating toward the goal.
func (c *SimConfig) GetDesiredGoalThreshold() float64 {
	if c.DesiredGoalThreshold == nil {
		return 0.2
	}
	return *c.DesiredGoalThreshold
}

// GetSocialFactor returns the pedestrian repulsion factor or the default.
func (c *SimConfig) GetSocialFactor() float64 {
	if c.SocialFactor == nil {
		return 5.1
	}
	return *c.SocialFactor
}

// GetLambdaImportance returns the anisotropy weight of relative velocity in
// the social force, or the default.
func (c *SimConfig) GetLambdaImportance() float64 {
	if c.LambdaImportance == nil {
		return 2.0
	}
	return *c.LambdaImportance
}

// GetGamma returns the social-force interaction range scale or the default.
func (c *SimConfig) GetGamma() float64 {
	if c.Gamma == nil {
		return 0.35
	}
	return *c.Gamma
}

// GetN returns the angular falloff exponent for the tangential social-force
// component, or the default.
func (c *SimConfig) GetN() int {
	if c.N == nil {
		return 2
	}
	return *c.N
}

// GetNPrime returns the angular falloff exponent for the radial
// social-force component, or the default.
func (c *SimConfig) GetNPrime() int {
	if c.NPrime == nil {
		return 3
	}
	return *c.NPrime
}

// GetActivationThreshold returns the distance in meters beyond which
// pedestrian pairs are skipped by the social force, or the default.
func (c *SimConfig) GetActivationThreshold() float64 {
	if c.ActivationThreshold == nil {
		return 20.0
	}
	return *c.ActivationThreshold
}

// GetObstacleFactor returns the obstacle repulsion factor or the default.
func (c *SimConfig) GetObstacleFactor() float64 {
	if c.ObstacleFactor == nil {
		return 10.0
	}
	return *c.ObstacleFactor
}

// GetObstacleSigma returns the obstacle repulsion falloff scale or the
// default.
func (c *SimConfig) GetObstacleSigma() float64 {
	if c.ObstacleSigma == nil {
		return 0.2
	}
	return *c.ObstacleSigma
}

// GetObstacleThreshold returns the obstacle interaction threshold (added to
// the agent radius) or the default.
func (c *SimConfig) GetObstacleThreshold() float64 {
	if c.ObstacleThreshold == nil {
		return -0.57
	}
	return *c.ObstacleThreshold
}

// GetGroupCoherenceFactor returns the group cohesion factor or the default.
func (c *SimConfig) GetGroupCoherenceFactor() float64 {
	if c.GroupCoherenceFactor == nil {
		return 3.0
	}
	return *c.GroupCoherenceFactor
}

// GetGroupRepulsiveFactor returns the intra-group repulsion factor or the
// default.
func (c *SimConfig) GetGroupRepulsiveFactor() float64 {
	if c.GroupRepulsiveFactor == nil {
		return 1.0
	}
	return *c.GroupRepulsiveFactor
}

// GetGroupRepulsiveThreshold returns the intra-group comfort distance or
// the default.
func (c *SimConfig) GetGroupRepulsiveThreshold() float64 {
	if c.GroupRepulsiveThreshold == nil {
		return 0.55
	}
	return *c.GroupRepulsiveThreshold
}

// GetGroupGazeFactor returns the group gaze factor or the default.
func (c *SimConfig) GetGroupGazeFactor() float64 {
	if c.GroupGazeFactor == nil {
		return 4.0
	}
	return *c.GroupGazeFactor
}

// GetGroupGazeFOVDegrees returns the field-of-view angle for the gaze force
// or the default.
func (c *SimConfig) GetGroupGazeFOVDegrees() float64 {
	if c.GroupGazeFOVDegrees == nil {
		return 90.0
	}
	return *c.GroupGazeFOVDegrees
}
