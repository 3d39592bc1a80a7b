package satelles

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is a propagated state vector in the TEME frame of epoch.
type State struct {
	Position r3.Vec    // km
	Velocity r3.Vec    // km/s
	Tsince   float64   // minutes since element-set epoch
	Time     time.Time // UTC instant of the state
}

// Speed returns the magnitude of the velocity in km/s.
func (s State) Speed() float64 {
	return r3.Norm(s.Velocity)
}

// Radius returns the distance from the Earth's center in km.
func (s State) Radius() float64 {
	return r3.Norm(s.Position)
}

// Propagator propagates an element set analytically. It is immutable after
// construction: Propagate never writes to the propagator, so a single
// instance may be shared across goroutines.
type Propagator struct {
	elements ElementSet
	model    Model
	ctx      *propagationContext
}

// NewPropagator validates the element set, selects the propagation model and
// computes all time-independent coefficients.
func NewPropagator(e ElementSet) (*Propagator, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	model := SelectModel(e)
	ctx, err := newPropagationContext(e, model)
	if err != nil {
		return nil, err
	}
	return &Propagator{elements: e, model: model, ctx: ctx}, nil
}

// Elements returns the element set the propagator was built from.
func (p *Propagator) Elements() ElementSet { return p.elements }

// Model returns the selected propagation model.
func (p *Propagator) Model() Model { return p.model }

// PropagateAt propagates to an absolute instant.
func (p *Propagator) PropagateAt(t time.Time) (State, error) {
	if p == nil || p.ctx == nil {
		return State{}, &NotInitializedError{}
	}
	return p.Propagate(t.Sub(p.elements.Epoch()).Minutes())
}

// Propagate returns the state vector tsince minutes after the element-set
// epoch. Negative offsets propagate backwards.
func (p *Propagator) Propagate(tsince float64) (State, error) {
	if p == nil || p.ctx == nil {
		return State{}, &NotInitializedError{}
	}
	ctx := p.ctx
	dc := &ctx.drag

	// Secular gravity and drag.
	xmdf := ctx.m + ctx.secular.xmdot*tsince
	argpdf := ctx.argp + ctx.secular.omgdot*tsince
	nodedf := ctx.raan + ctx.secular.xnodot*tsince
	argpm := argpdf
	mm := xmdf
	t2 := tsince * tsince
	nodem := nodedf + ctx.secular.xnodcf*t2
	tempa := 1.0 - dc.c1*tsince
	tempe := ctx.bstar * dc.c4 * tsince
	templ := dc.t2cof * t2

	if !dc.simple {
		delomg := dc.omgcof * tsince
		delm := 0.0
		if dc.eta != 0.0 {
			delm = dc.xmcof * (math.Pow(1.0+dc.eta*math.Cos(xmdf), 3.0) - dc.delmo)
		}
		temp := delomg + delm
		mm = xmdf + temp
		argpm = argpdf - temp
		t3 := t2 * tsince
		t4 := t3 * tsince
		tempa = tempa - dc.d2*t2 - dc.d3*t3 - dc.d4*t4
		tempe += ctx.bstar * dc.c5 * (math.Sin(mm) - dc.sinmo)
		templ += dc.t3cof*t3 + t4*(dc.t4cof+tsince*dc.t5cof)
	}

	nm := ctx.n
	em := ctx.ecc
	inclm := ctx.incl

	var am float64
	if ctx.deep != nil {
		em, argpm, inclm, mm, nodem, nm = ctx.deep.secularContributions(tsince, em, argpm, inclm, mm, nodem, nm)
		if nm <= 0 {
			return State{}, &DegenerateOrbitError{Reason: ReasonMeanMotionNonPositive, Value: nm, Tsince: tsince}
		}
		am = math.Pow(xke/nm, 2.0/3.0) * tempa * tempa
	} else {
		am = ctx.a * tempa * tempa
	}
	// Mean motion consistent with the dragged semi-major axis.
	nm = xke / math.Pow(am, 1.5)

	em -= tempe
	if em >= 1.0 || em < -0.001 {
		return State{}, &DegenerateOrbitError{Reason: ReasonPerturbedEccentricity, Value: em, Tsince: tsince}
	}
	if em < 1.0e-6 {
		em = 1.0e-6
	}

	mm += ctx.n * templ
	xlm := mm + argpm + nodem
	nodem = math.Mod(nodem, twoPi)
	argpm = math.Mod(argpm, twoPi)
	xlm = math.Mod(xlm, twoPi)
	mm = math.Mod(xlm-argpm-nodem, twoPi)

	// Lunar-solar periodics.
	ep := em
	xincp := inclm
	nodep := nodem
	argpp := argpm
	mp := mm
	it := ctx.inclination
	if ctx.deep != nil {
		ep, xincp, nodep, argpp, mp = ctx.deep.applyPeriodics(tsince, ep, xincp, nodep, argpp, mp)
		if xincp < 0.0 {
			xincp = -xincp
			nodep += math.Pi
			argpp -= math.Pi
		}
		if ep < 0.0 || ep >= 1.0 {
			return State{}, &DegenerateOrbitError{Reason: ReasonPerturbedEccentricity, Value: ep, Tsince: tsince}
		}
		// The inclination-dependent terms follow the periodically perturbed
		// inclination in deep space.
		it.sinio = math.Sin(xincp)
		it.cosio = math.Cos(xincp)
		theta2 := it.cosio * it.cosio
		it.x3thm1 = 3.0*theta2 - 1.0
		it.x1mth2 = 1.0 - theta2
		it.x7thm1 = 7.0*theta2 - 1.0
		if math.Abs(it.cosio+1.0) > 1.5e-12 {
			it.xlcof = 0.125 * a3ovk2 * it.sinio * (3.0 + 5.0*it.cosio) / (1.0 + it.cosio)
		} else {
			it.xlcof = 0.125 * a3ovk2 * it.sinio * (3.0 + 5.0*it.cosio) / 1.5e-12
		}
		it.aycof = 0.25 * a3ovk2 * it.sinio
	}

	// Long period periodics.
	axnl := ep * math.Cos(argpp)
	templp := 1.0 / (am * (1.0 - ep*ep))
	aynl := ep*math.Sin(argpp) + templp*it.aycof
	xl := mp + argpp + nodep + templp*it.xlcof*axnl

	// Kepler's equation for the eccentric longitude, Newton-Raphson with a
	// capped step.
	u := math.Mod(xl-nodep, twoPi)
	eo1 := u
	tem5 := math.MaxFloat64
	var sineo1, coseo1 float64
	converged := false
	const keplerTol = 1.0e-12
	const keplerMaxIter = 15
	iters := 0
	for ; iters < keplerMaxIter; iters++ {
		sineo1 = math.Sin(eo1)
		coseo1 = math.Cos(eo1)
		tem5 = 1.0 - coseo1*axnl - sineo1*aynl
		tem5 = (u - aynl*coseo1 + axnl*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			tem5 = math.Copysign(0.95, tem5)
		}
		eo1 += tem5
		if math.Abs(tem5) < keplerTol {
			converged = true
			break
		}
	}
	if !converged {
		return State{}, &KeplerConvergenceError{Iterations: iters, Residual: math.Abs(tem5), Tsince: tsince}
	}

	// Short period preliminary quantities.
	ecose := axnl*coseo1 + aynl*sineo1
	esine := axnl*sineo1 - aynl*coseo1
	el2 := axnl*axnl + aynl*aynl
	pl := am * (1.0 - el2)
	if pl <= 0.0 {
		return State{}, &DegenerateOrbitError{Reason: ReasonSemiLatusRectum, Value: pl, Tsince: tsince}
	}

	rl := am * (1.0 - ecose)
	rdotl := xke * math.Sqrt(am) * esine / rl
	rvdotl := xke * math.Sqrt(pl) / rl
	betal := math.Sqrt(1.0 - el2)
	temp := esine / (1.0 + betal)
	sinu := am / rl * (sineo1 - aynl - axnl*temp)
	cosu := am / rl * (coseo1 - axnl + aynl*temp)
	su := math.Atan2(sinu, cosu)
	sin2u := (cosu + cosu) * sinu
	cos2u := 1.0 - 2.0*sinu*sinu

	// Short period perturbations.
	temp = 1.0 / pl
	temp1 := ck2 * temp
	temp2 := temp1 * temp

	mrt := rl*(1.0-1.5*temp2*betal*it.x3thm1) + 0.5*temp1*it.x1mth2*cos2u
	su -= 0.25 * temp2 * it.x7thm1 * sin2u
	xnode := nodep + 1.5*temp2*it.cosio*sin2u
	xinc := xincp + 1.5*temp2*it.cosio*it.sinio*cos2u
	mvt := rdotl - nm*temp1*it.x1mth2*sin2u
	rvdot := rvdotl + nm*temp1*(it.x1mth2*cos2u+1.5*it.x3thm1)

	// Orientation vectors and the final state.
	sinsu := math.Sin(su)
	cossu := math.Cos(su)
	snod := math.Sin(xnode)
	cnod := math.Cos(xnode)
	sini := math.Sin(xinc)
	cosi := math.Cos(xinc)
	xmx := -snod * cosi
	xmy := cnod * cosi
	ux := xmx*sinsu + cnod*cossu
	uy := xmy*sinsu + snod*cossu
	uz := sini * sinsu
	vx := xmx*cossu - cnod*sinsu
	vy := xmy*cossu - snod*sinsu
	vz := sini * cossu

	if mrt < 1.0 {
		return State{}, &DegenerateOrbitError{Reason: ReasonSatelliteDecayed, Value: mrt, Tsince: tsince}
	}

	vFactor := xkmper / 60.0
	return State{
		Position: r3.Vec{
			X: mrt * ux * xkmper,
			Y: mrt * uy * xkmper,
			Z: mrt * uz * xkmper,
		},
		Velocity: r3.Vec{
			X: (mvt*ux + rvdot*vx) * vFactor,
			Y: (mvt*uy + rvdot*vy) * vFactor,
			Z: (mvt*uz + rvdot*vz) * vFactor,
		},
		Tsince: tsince,
		Time:   p.elements.Epoch().Add(time.Duration(tsince * float64(time.Minute))),
	}, nil
}
