package config

import "fmt"

// FloorMode selects how strict the climb floor check is.
type FloorMode string

const (
	// FloorWithinTilt accepts any surface whose tilt is within MaxClimbableDegree.
	FloorWithinTilt FloorMode = "within_tilt"
	// FloorFlat only accepts surfaces within FlatFloorTolerance of level.
	FloorFlat FloorMode = "flat"
)

// ClipConfig names a procedural clip and how long it plays.
type ClipConfig struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"`
}

type ClimbClips struct {
	IdleToClimb    ClipConfig `yaml:"idle_to_climb"`
	ClimbToTop     ClipConfig `yaml:"climb_to_top"`
	ClimbDownLedge ClipConfig `yaml:"climb_down_ledge"`
	Vault          ClipConfig `yaml:"vault"`
	HopUp          ClipConfig `yaml:"hop_up"`
	HopDown        ClipConfig `yaml:"hop_down"`
}

// ClimbTunables configures climbing. Distances are in centimetres, speeds in
// centimetres per second, angles in degrees.
type ClimbTunables struct {
	TraceRadius        float32 `yaml:"trace_radius"`
	TraceHalfHeight    float32 `yaml:"trace_half_height"`
	ForwardTraceOffset float32 `yaml:"forward_trace_offset"`

	MaxClimbSpeed        float32 `yaml:"max_climb_speed"`
	MaxClimbAcceleration float32 `yaml:"max_climb_acceleration"`
	BrakingDeceleration  float32 `yaml:"braking_deceleration"`

	MaxClimbableDegree   float32 `yaml:"max_climbable_degree"`
	MinimumHeightToClimb float32 `yaml:"minimum_height_to_climb"`
	MaximumHeightToReach float32 `yaml:"maximum_height_to_reach"`
	EyeTraceDistance     float32 `yaml:"eye_trace_distance"`

	RotationInterpSpeed       float32 `yaml:"rotation_interp_speed"`
	VerticalVelocityThreshold float32 `yaml:"vertical_velocity_threshold"`
	MinTickTime               float32 `yaml:"min_tick_time"`

	FloorMode          FloorMode `yaml:"floor_mode"`
	FlatFloorTolerance float32   `yaml:"flat_floor_tolerance"`

	VaultTraceHeight float32 `yaml:"vault_trace_height"`
	VaultTraceStep   float32 `yaml:"vault_trace_step"`
	VaultSamples     int     `yaml:"vault_samples"`
	VaultStartIndex  int     `yaml:"vault_start_index"`
	VaultLandIndex   int     `yaml:"vault_land_index"`

	HopThreshold      float32 `yaml:"hop_threshold"`
	HopTraceDistance  float32 `yaml:"hop_trace_distance"`
	HopUpOffset       float32 `yaml:"hop_up_offset"`
	HopUpSafetyOffset float32 `yaml:"hop_up_safety_offset"`
	HopDownOffset     float32 `yaml:"hop_down_offset"`
	HopUpHeight       float32 `yaml:"hop_up_height"`
	HopDownHeight     float32 `yaml:"hop_down_height"`

	ClimbDownForwardOffset float32 `yaml:"climb_down_forward_offset"`

	Clips ClimbClips `yaml:"clips"`
}

func DefaultClimbTunables() ClimbTunables {
	return ClimbTunables{
		TraceRadius:        50,
		TraceHalfHeight:    72,
		ForwardTraceOffset: 30,

		MaxClimbSpeed:        100,
		MaxClimbAcceleration: 300,
		BrakingDeceleration:  400,

		MaxClimbableDegree:   60,
		MinimumHeightToClimb: 50,
		MaximumHeightToReach: 50,
		EyeTraceDistance:     100,

		RotationInterpSpeed:       5,
		VerticalVelocityThreshold: 10,
		MinTickTime:               1e-6,

		FloorMode:          FloorWithinTilt,
		FlatFloorTolerance: 1,

		VaultTraceHeight: 100,
		VaultTraceStep:   100,
		VaultSamples:     5,
		VaultStartIndex:  0,
		VaultLandIndex:   3,

		HopThreshold:      0.9,
		HopTraceDistance:  100,
		HopUpOffset:       -20,
		HopUpSafetyOffset: 150,
		HopDownOffset:     -300,
		HopUpHeight:       100,
		HopDownHeight:     100,

		ClimbDownForwardOffset: 50,

		Clips: ClimbClips{
			IdleToClimb:    ClipConfig{Name: "idle_to_climb", Duration: 0.5},
			ClimbToTop:     ClipConfig{Name: "climb_to_top", Duration: 1.0},
			ClimbDownLedge: ClipConfig{Name: "climb_down_ledge", Duration: 0.8},
			Vault:          ClipConfig{Name: "vault", Duration: 0.9},
			HopUp:          ClipConfig{Name: "hop_up", Duration: 0.5},
			HopDown:        ClipConfig{Name: "hop_down", Duration: 0.5},
		},
	}
}

func (t ClimbTunables) Validate() error {
	positive := []struct {
		name  string
		value float32
	}{
		{"trace_radius", t.TraceRadius},
		{"trace_half_height", t.TraceHalfHeight},
		{"max_climb_speed", t.MaxClimbSpeed},
		{"max_climb_acceleration", t.MaxClimbAcceleration},
		{"braking_deceleration", t.BrakingDeceleration},
		{"minimum_height_to_climb", t.MinimumHeightToClimb},
		{"maximum_height_to_reach", t.MaximumHeightToReach},
		{"eye_trace_distance", t.EyeTraceDistance},
		{"min_tick_time", t.MinTickTime},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidTunables, p.name, p.value)
		}
	}
	if t.MaxClimbableDegree <= 0 || t.MaxClimbableDegree >= 90 {
		return fmt.Errorf("%w: max_climbable_degree must be in (0, 90), got %v", ErrInvalidTunables, t.MaxClimbableDegree)
	}
	if t.TraceHalfHeight < t.TraceRadius {
		return fmt.Errorf("%w: trace_half_height %v is smaller than trace_radius %v", ErrInvalidTunables, t.TraceHalfHeight, t.TraceRadius)
	}
	switch t.FloorMode {
	case FloorWithinTilt, FloorFlat:
	default:
		return fmt.Errorf("%w: unknown floor_mode %q", ErrInvalidTunables, t.FloorMode)
	}
	if t.VaultSamples <= 0 ||
		t.VaultStartIndex < 0 || t.VaultStartIndex >= t.VaultSamples ||
		t.VaultLandIndex < 0 || t.VaultLandIndex >= t.VaultSamples {
		return fmt.Errorf("%w: vault indices %d/%d out of %d samples", ErrInvalidTunables, t.VaultStartIndex, t.VaultLandIndex, t.VaultSamples)
	}
	if t.HopThreshold <= 0 || t.HopThreshold > 1 {
		return fmt.Errorf("%w: hop_threshold must be in (0, 1], got %v", ErrInvalidTunables, t.HopThreshold)
	}
	return nil
}

// LocomotionTunables configures the base character movement.
type LocomotionTunables struct {
	CapsuleRadius     float32 `yaml:"capsule_radius"`
	CapsuleHalfHeight float32 `yaml:"capsule_half_height"`
	EyeHeight         float32 `yaml:"eye_height"`

	MaxWalkSpeed      float32 `yaml:"max_walk_speed"`
	MaxAcceleration   float32 `yaml:"max_acceleration"`
	BrakingDecelWalk  float32 `yaml:"braking_deceleration_walking"`
	BrakingDecelFall  float32 `yaml:"braking_deceleration_falling"`
	GroundFriction    float32 `yaml:"ground_friction"`
	Gravity           float32 `yaml:"gravity"`
	TerminalVelocity  float32 `yaml:"terminal_velocity"`
	AirControl        float32 `yaml:"air_control"`
	JumpVelocity      float32 `yaml:"jump_velocity"`
	RotationRate      float32 `yaml:"rotation_rate"`
	WalkableFloorDeg  float32 `yaml:"walkable_floor_degree"`
	FloorProbeDepth   float32 `yaml:"floor_probe_depth"`
	MaxSlideIteration int     `yaml:"max_slide_iterations"`
}

func DefaultLocomotionTunables() LocomotionTunables {
	return LocomotionTunables{
		CapsuleRadius:     34,
		CapsuleHalfHeight: 96,
		EyeHeight:         64,

		MaxWalkSpeed:      600,
		MaxAcceleration:   2048,
		BrakingDecelWalk:  2048,
		BrakingDecelFall:  0,
		GroundFriction:    8,
		Gravity:           1960,
		TerminalVelocity:  4000,
		AirControl:        0.35,
		JumpVelocity:      420,
		RotationRate:      500,
		WalkableFloorDeg:  45,
		FloorProbeDepth:   2.4,
		MaxSlideIteration: 3,
	}
}

func (t LocomotionTunables) Validate() error {
	if t.CapsuleRadius <= 0 || t.CapsuleHalfHeight < t.CapsuleRadius {
		return fmt.Errorf("%w: capsule radius %v half-height %v", ErrInvalidTunables, t.CapsuleRadius, t.CapsuleHalfHeight)
	}
	if t.MaxWalkSpeed <= 0 || t.MaxAcceleration <= 0 || t.Gravity < 0 {
		return fmt.Errorf("%w: walk speed, acceleration and gravity must be positive", ErrInvalidTunables)
	}
	if t.WalkableFloorDeg <= 0 || t.WalkableFloorDeg >= 90 {
		return fmt.Errorf("%w: walkable_floor_degree must be in (0, 90), got %v", ErrInvalidTunables, t.WalkableFloorDeg)
	}
	if t.FloorProbeDepth <= 0 {
		return fmt.Errorf("%w: floor_probe_depth must be > 0", ErrInvalidTunables)
	}
	return nil
}
