package glowtree

// Tuning holds the animation constants. They are tunables, not contracts.
type Tuning struct {
	// SpeedFactor scales delta into the per-frame lerp fraction.
	SpeedFactor float64
	// RotationSpeed is the group yaw rate (rad/s) outside Text mode.
	RotationSpeed float64
	// StarSpin is the ornament spin rate (rad/s) while visible.
	StarSpin float64
	// ParticleSpin is the per-axis particle spin rate (rad/s).
	ParticleSpin Vec3
}

// DefaultTuning returns the stock animation constants.
func DefaultTuning() Tuning {
	return Tuning{
		SpeedFactor:   3.0,
		RotationSpeed: 0.3,
		StarSpin:      1.2,
		ParticleSpin:  Vec3{X: 0.5, Y: 0.3},
	}
}

// Ornament is the crowning star's animated state.
type Ornament struct {
	Scale float64
	Spin  float64
}

// Driver advances the mode-dependent animation. It owns the mode but not the
// particles; those are passed in per frame so a rebuild can swap them.
type Driver struct {
	Tuning   Tuning
	Mode     Mode
	Elapsed  float64
	Ornament Ornament
	// Group is the Euler orientation of the whole particle group.
	Group Vec3
}

// NewDriver returns a driver in Tree mode with the star fully shown.
func NewDriver(t Tuning) *Driver {
	return &Driver{
		Tuning:   t,
		Mode:     ModeTree,
		Ornament: Ornament{Scale: 1},
	}
}

// Advance moves to the next mode and returns it.
func (d *Driver) Advance() Mode {
	d.Mode = d.Mode.Next()
	return d.Mode
}

// EaseFactor returns the lerp fraction for a frame of dt seconds, clamped to
// [0, 1] so a long frame never overshoots.
func (d *Driver) EaseFactor(dt float64) float64 {
	return clamp(d.Tuning.SpeedFactor*dt, 0, 1)
}

// Update runs one frame: particles ease toward the active targets, the star
// eases in or out, and the group either spins or settles to identity.
// Iteration is bounded by the shorter of particles and targets.
func (d *Driver) Update(g *Generation, dt float64) {
	if dt < 0 {
		dt = 0
	}
	d.Elapsed += dt
	t := d.EaseFactor(dt)

	if g != nil {
		target := g.Targets.For(d.Mode)
		n := min(len(g.Particles), len(target))
		for i := 0; i < n; i++ {
			p := &g.Particles[i]
			p.Position = p.Position.Lerp(target[i], t)
		}
	}

	if d.Mode == ModeTree {
		d.Ornament.Scale = lerp(d.Ornament.Scale, 1, t)
		d.Ornament.Spin = wrapAngle(d.Ornament.Spin + d.Tuning.StarSpin*dt)
	} else {
		d.Ornament.Scale = lerp(d.Ornament.Scale, 0, t)
	}

	if d.Mode == ModeText {
		d.Group = Vec3{
			X: wrapAngle(d.Group.X),
			Y: wrapAngle(d.Group.Y),
			Z: wrapAngle(d.Group.Z),
		}.Lerp(Vec3{}, t)
	} else {
		d.Group.Y = wrapAngle(d.Group.Y + d.Tuning.RotationSpeed*dt)
	}
}

// ParticleRotation returns the cosmetic spin of particle i at the current time.
func (d *Driver) ParticleRotation(i int) Vec3 {
	fi := float64(i)
	return Vec3{
		X: wrapAngle(d.Elapsed*d.Tuning.ParticleSpin.X + fi),
		Y: wrapAngle(d.Elapsed*d.Tuning.ParticleSpin.Y + fi*0.5),
		Z: wrapAngle(d.Elapsed*d.Tuning.ParticleSpin.Z),
	}
}
