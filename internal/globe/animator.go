package globe

import (
	"math"
	"time"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// Mode represents the camera animation state.
type Mode int

const (
	// ModeIdle leaves the camera untouched; only user input moves it.
	ModeIdle Mode = iota
	// ModeFollowing chases the surface point of the selected location.
	ModeFollowing
	// ModeResetting chases the default pose and settles back to ModeIdle.
	ModeResetting
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeFollowing:
		return "following"
	case ModeResetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Pose is a camera position/target pair.
type Pose struct {
	Position geo.Vec3
	Target   geo.Vec3
}

// AnimatorConfig holds the tunables of the camera animator.
type AnimatorConfig struct {
	SphereRadius   float64
	FollowDistance float64 // radial offset of the camera above the surface point
	MinDistance    float64 // clamp bounds for the follow distance
	MaxDistance    float64
	FollowRate     float64 // exponential smoothing rate while following, per second
	ResetRate      float64 // faster smoothing rate while resetting, per second
	SettleEpsilon  float64 // snap-to-pose threshold in world units
	DefaultPose    Pose
}

// DefaultAnimatorConfig returns the tuning used by the application: a radius-2
// sphere viewed from (0, 0, 5), follow distance 4 clamped to [0.2, 6].
func DefaultAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		SphereRadius:   2,
		FollowDistance: 4,
		MinDistance:    0.2,
		MaxDistance:    6,
		FollowRate:     5.0,
		ResetRate:      9.8,
		SettleEpsilon:  0.05,
		DefaultPose: Pose{
			Position: geo.Vec3{Z: 5},
			Target:   geo.Vec3{},
		},
	}
}

// Animator owns the live camera pose and drives it toward a desired pose with
// frame-rate-independent exponential smoothing. It never leaves the camera in
// a degenerate pose: follow distances are clamped so the camera stays above
// the surface and within reach.
type Animator struct {
	cfg AnimatorConfig

	pose    Pose
	desired Pose
	mode    Mode

	// animating is set on a fresh selection and cleared by user navigation;
	// while Following, interpolation only happens when it is set.
	animating bool
}

// NewAnimator creates an animator starting at the default pose in ModeIdle.
func NewAnimator(cfg AnimatorConfig) *Animator {
	return &Animator{
		cfg:     cfg,
		pose:    cfg.DefaultPose,
		desired: cfg.DefaultPose,
	}
}

// Pose returns the current interpolated camera pose.
func (a *Animator) Pose() Pose {
	return a.pose
}

// DesiredPose returns the pose currently being chased.
func (a *Animator) DesiredPose() Pose {
	return a.desired
}

// Mode returns the current animation mode.
func (a *Animator) Mode() Mode {
	return a.mode
}

// Animating reports whether the follow interpolation is active.
func (a *Animator) Animating() bool {
	return a.animating
}

// SetFollowTarget aims the camera at the surface point for coord: the desired
// target is the surface point itself and the desired position sits along its
// outward normal at the given distance, clamped to the configured bounds.
// Mode becomes Following and the animating flag is set.
func (a *Animator) SetFollowTarget(coord geo.Coordinate, distance float64) {
	a.FollowPoint(geo.LatLonToVector(coord.Lat, coord.Lon, a.cfg.SphereRadius), distance)
}

// FollowPoint is SetFollowTarget for a surface point already in world space,
// e.g. one carrying the globe's current yaw rotation.
func (a *Animator) FollowPoint(surface geo.Vec3, distance float64) {
	normal := surface.Normalized()
	if normal == (geo.Vec3{}) {
		// Zero radius cannot happen with a sane config; keep the camera sane anyway
		normal = geo.Vec3{Z: 1}
	}

	distance = clamp(distance, a.cfg.MinDistance, a.cfg.MaxDistance)

	a.desired = Pose{
		Position: surface.Add(normal.Scale(distance)),
		Target:   surface,
	}
	a.mode = ModeFollowing
	a.animating = true
}

// FollowTarget is SetFollowTarget at the configured default follow distance.
func (a *Animator) FollowTarget(coord geo.Coordinate) {
	a.SetFollowTarget(coord, a.cfg.FollowDistance)
}

// RequestReset aims the camera back at the default pose. Resetting wins over
// Following: it overrides whatever the animator was doing.
func (a *Animator) RequestReset() {
	a.desired = a.cfg.DefaultPose
	a.mode = ModeResetting
	a.animating = false
}

// StopAnimating clears the follow interpolation without changing mode. Called
// when the user starts navigating manually; the design tolerates camera drift
// under user control, with no forced snap-back.
func (a *Animator) StopAnimating() {
	a.animating = false
}

// SetPose overwrites the live pose directly. Used by user orbit/zoom input,
// which shares the frame loop with Tick and never races it.
func (a *Animator) SetPose(p Pose) {
	a.pose = p
}

// Tick advances the camera by one rendered frame. The smoothing factor is
// derived from the elapsed time so convergence speed does not depend on the
// frame rate.
func (a *Animator) Tick(dt time.Duration) {
	switch a.mode {
	case ModeResetting:
		f := smoothingFactor(a.cfg.ResetRate, dt)
		a.pose.Position = a.pose.Position.Lerp(a.desired.Position, f)
		a.pose.Target = a.pose.Target.Lerp(a.desired.Target, f)

		if a.settled() {
			a.pose = a.desired
			a.mode = ModeIdle
		}

	case ModeFollowing:
		if !a.animating {
			return
		}
		f := smoothingFactor(a.cfg.FollowRate, dt)
		a.pose.Position = a.pose.Position.Lerp(a.desired.Position, f)
		a.pose.Target = a.pose.Target.Lerp(a.desired.Target, f)

	case ModeIdle:
		// Free navigation only; the animator must not fight the user.
	}
}

// settled reports whether both position and target are within the epsilon
// distance of the desired pose.
func (a *Animator) settled() bool {
	return a.pose.Position.Sub(a.desired.Position).Norm() <= a.cfg.SettleEpsilon &&
		a.pose.Target.Sub(a.desired.Target).Norm() <= a.cfg.SettleEpsilon
}

// smoothingFactor converts a per-second decay rate into a per-frame lerp
// factor: 1 - e^(-rate·dt).
func smoothingFactor(rate float64, dt time.Duration) float64 {
	f := 1 - math.Exp(-rate*dt.Seconds())
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
