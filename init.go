package satelles

import "math"

// inclinationTerms holds the trigonometric functions of the epoch inclination
// and the long-period coefficients derived from them.
type inclinationTerms struct {
	sinio  float64
	cosio  float64
	x3thm1 float64 // 3*cos^2(i) - 1
	x1mth2 float64 // 1 - cos^2(i)
	x7thm1 float64 // 7*cos^2(i) - 1
	xlcof  float64
	aycof  float64
}

// secularRates holds the J2/J4 secular rates of the mean angles.
type secularRates struct {
	xmdot  float64 // mean anomaly rate, rad/min
	omgdot float64 // argument of perigee rate, rad/min
	xnodot float64 // node rate, rad/min
	xnodcf float64 // drag coupling term for the node
}

// dragCoefficients holds the atmospheric drag series. When simple is set only
// the linear terms apply; the higher-order terms stay zero.
type dragCoefficients struct {
	simple bool
	c1     float64
	c4     float64
	c5     float64
	d2     float64
	d3     float64
	d4     float64
	t2cof  float64
	t3cof  float64
	t4cof  float64
	t5cof  float64
	omgcof float64
	xmcof  float64
	eta    float64
	delmo  float64
	sinmo  float64
}

// propagationContext is the fully initialized, immutable propagation state
// derived once from an element set. All angles are radians, the mean motion is
// rad/min and the semi-major axis is in Earth radii.
type propagationContext struct {
	a     float64 // recovered semi-major axis, ER
	n     float64 // recovered (un-Kozai'd) mean motion, rad/min
	ecc   float64
	incl  float64
	argp  float64
	raan  float64
	m     float64
	bstar float64

	inclination inclinationTerms
	secular     secularRates
	drag        dragCoefficients

	// deep is nil for near-earth orbits.
	deep *deepSpaceContext
}

// newPropagationContext recovers the mean motion and semi-major axis and
// computes every time-independent coefficient the propagation loop needs.
func newPropagationContext(e ElementSet, model Model) (*propagationContext, error) {
	ctx := &propagationContext{
		ecc:   e.Eccentricity,
		incl:  e.Inclination * deg2rad,
		argp:  e.ArgOfPerigee * deg2rad,
		raan:  e.RightAscension * deg2rad,
		m:     e.MeanAnomaly * deg2rad,
		bstar: e.Bstar,
	}

	if ctx.ecc < 0 || ctx.ecc >= 1 {
		return nil, &DegenerateOrbitError{Reason: ReasonEccentricityOutOfRange, Value: ctx.ecc}
	}
	nTle := e.MeanMotionRad()
	if nTle <= 0 {
		return nil, &DegenerateOrbitError{Reason: ReasonMeanMotionNonPositive, Value: nTle}
	}

	ctx.n, ctx.a = recoverKozai(nTle, ctx.incl, ctx.ecc)

	rp := ctx.a * (1.0 - ctx.ecc)
	if rp <= ae {
		return nil, &DegenerateOrbitError{Reason: ReasonPerigeeBelowSurface, Value: rp}
	}

	it := &ctx.inclination
	it.cosio = math.Cos(ctx.incl)
	it.sinio = math.Sin(ctx.incl)
	theta2 := it.cosio * it.cosio
	it.x3thm1 = 3.0*theta2 - 1.0
	it.x1mth2 = 1.0 - theta2
	it.x7thm1 = 7.0*theta2 - 1.0

	// Long-period coefficients. The xlcof denominator is guarded against the
	// retrograde-equatorial singularity at cos(i) = -1.
	if math.Abs(it.cosio+1.0) > 1.5e-12 {
		it.xlcof = 0.125 * a3ovk2 * it.sinio * (3.0 + 5.0*it.cosio) / (1.0 + it.cosio)
	} else {
		it.xlcof = 0.125 * a3ovk2 * it.sinio * (3.0 + 5.0*it.cosio) / 1.5e-12
	}
	it.aycof = 0.25 * a3ovk2 * it.sinio

	eosq := ctx.ecc * ctx.ecc
	betao2 := 1.0 - eosq
	betao := math.Sqrt(betao2)

	// Perigee height selects the density-profile parameters and whether the
	// higher-order drag terms are worth carrying.
	perigeeKm := (rp - ae) * xkmper
	s4 := kS
	qoms24 := qoms2t
	if perigeeKm < 156.0 {
		s4Val := perigeeKm - 78.0
		if perigeeKm < 98.0 {
			s4Val = 20.0
		}
		qoms24 = math.Pow((120.0-s4Val)*ae/xkmper, 4.0)
		s4 = s4Val/xkmper + ae
	}

	pinvsq := 1.0 / (ctx.a * ctx.a * betao2 * betao2)
	tsi := 1.0 / (ctx.a - s4)
	dc := &ctx.drag
	dc.eta = ctx.a * ctx.ecc * tsi
	etasq := dc.eta * dc.eta
	eeta := ctx.ecc * dc.eta
	psisq := math.Abs(1.0 - etasq)
	if psisq == 0 {
		psisq = 1e-12
	}
	coef := qoms24 * math.Pow(tsi, 4.0)
	coef1 := coef / math.Pow(psisq, 3.5)

	c2 := coef1 * ctx.n * (ctx.a*(1.0+1.5*etasq+eeta*(4.0+etasq)) +
		0.75*ck2*tsi/psisq*it.x3thm1*(8.0+3.0*etasq*(8.0+etasq)))
	dc.c1 = ctx.bstar * c2

	dc.c4 = 2.0 * ctx.n * coef1 * ctx.a * betao2 *
		(dc.eta*(2.0+0.5*etasq) + ctx.ecc*(0.5+2.0*etasq) -
			2.0*ck2*tsi/(ctx.a*psisq)*
				(-3.0*it.x3thm1*(1.0-2.0*eeta+etasq*(1.5-0.5*eeta))+
					0.75*it.x1mth2*(2.0*etasq-eeta*(1.0+etasq))*math.Cos(2.0*ctx.argp)))

	theta4 := theta2 * theta2
	temp1 := 3.0 * ck2 * pinvsq * ctx.n
	temp2 := temp1 * ck2 * pinvsq
	temp3 := 1.25 * ck4 * pinvsq * pinvsq * ctx.n

	sr := &ctx.secular
	sr.xmdot = ctx.n + 0.5*temp1*betao*it.x3thm1 +
		0.0625*temp2*betao*(13.0-78.0*theta2+137.0*theta4)

	x1m5th := 1.0 - 5.0*theta2
	sr.omgdot = -0.5*temp1*x1m5th +
		0.0625*temp2*(7.0-114.0*theta2+395.0*theta4) +
		temp3*(3.0-36.0*theta2+49.0*theta4)

	xhdot1 := -temp1 * it.cosio
	sr.xnodot = xhdot1 + (0.5*temp2*(4.0-19.0*theta2)+
		2.0*temp3*(3.0-7.0*theta2))*it.cosio
	sr.xnodcf = 3.5 * betao2 * xhdot1 * dc.c1

	dc.t2cof = 1.5 * dc.c1

	if model == ModelDeepSpace {
		// Deep-space orbits are above the sensible atmosphere; only the linear
		// drag terms apply and the resonance/lunar-solar machinery takes over.
		dc.simple = true
		deep, err := newDeepSpaceContext(e, ctx)
		if err != nil {
			return nil, err
		}
		ctx.deep = deep
		return ctx, nil
	}

	// Near-earth specific coefficients.
	dc.simple = perigeeKm < 220.0

	var c3 float64
	if ctx.ecc > 1.0e-4 {
		c3 = coef * tsi * a3ovk2 * ctx.n * ae * it.sinio / ctx.ecc
	}
	dc.c5 = 2.0 * coef1 * ctx.a * betao2 * (1.0 + 2.75*(etasq+eeta) + eeta*etasq)
	dc.omgcof = ctx.bstar * c3 * math.Cos(ctx.argp)

	if ctx.ecc > 1.0e-4 {
		dc.xmcof = -2.0 / 3.0 * coef * ctx.bstar * ae / eeta
	}
	dc.delmo = math.Pow(1.0+dc.eta*math.Cos(ctx.m), 3.0)
	dc.sinmo = math.Sin(ctx.m)

	if !dc.simple {
		c1sq := dc.c1 * dc.c1
		dc.d2 = 4.0 * ctx.a * tsi * c1sq
		dtemp := dc.d2 * tsi * dc.c1 / 3.0
		dc.d3 = (17.0*ctx.a + s4) * dtemp
		dc.d4 = 0.5 * dtemp * ctx.a * tsi * (221.0*ctx.a + 31.0*s4) * dc.c1
		dc.t3cof = dc.d2 + 2.0*c1sq
		dc.t4cof = 0.25 * (3.0*dc.d3 + dc.c1*(12.0*dc.d2+10.0*c1sq))
		dc.t5cof = 0.2 * (3.0*dc.d4 + 12.0*dc.c1*dc.d3 + 6.0*dc.d2*dc.d2 +
			15.0*c1sq*(2.0*dc.d2+c1sq))
	}

	return ctx, nil
}
