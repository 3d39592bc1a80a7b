package satelles

import "math"

// Deep-space model constants: lunar and solar orientation/amplitude values,
// resonance geopotential coefficients and the integrator step. These are the
// classical SDP4 values and are not tied to the gravity model above.
const (
	zes = 0.01675      // solar eccentricity factor
	zel = 0.05490      // lunar eccentricity factor
	zns = 1.19459e-5   // solar mean motion, rad/min
	znl = 1.5835218e-4 // lunar mean motion, rad/min

	c1ss = 2.9864797e-6
	c1l  = 4.7968065e-7

	zsinis = 0.39785416
	zcosis = 0.91744867
	zcosgs = 0.1945905
	zsings = -0.98088458

	// Earth rotation rate, rad/min.
	rptim = 4.37526908801129966e-3

	// Geopotential resonance coefficients.
	q22    = 1.7891679e-6
	q31    = 2.1460748e-6
	q33    = 2.2123015e-7
	root22 = 1.7891679e-6
	root32 = 3.7393792e-7
	root44 = 7.3636953e-9
	root52 = 1.1428639e-7
	root54 = 2.1765803e-9

	// Synchronous-resonance phase angles.
	fasx2 = 0.13130908
	fasx4 = 2.8843198
	fasx6 = 0.37448087

	// Half-day resonance phase angles.
	g22 = 5.7686396
	g32 = 0.95240898
	g44 = 1.8014998
	g52 = 1.0508330
	g54 = 4.4108898

	// Resonance integrator step (minutes) and its squared half-step.
	stepp = 720.0
	step2 = 259200.0
)

// Resonance regimes.
const (
	rezNone    = 0
	rezSynch   = 1 // one-day (synchronous) resonance
	rezHalfDay = 2 // half-day resonance
)

// deepSpaceContext carries the deep-space perturbation state: lunar-solar
// periodic coefficients, secular rates, and the geopotential resonance terms.
// Like propagationContext it is computed once and never mutated; the resonance
// integration is restarted from epoch on every call so Propagate stays
// read-only.
type deepSpaceContext struct {
	gsto float64 // Greenwich sidereal time at epoch, rad

	// Epoch mean values needed by the resonance integrator.
	argpo   float64
	argpdot float64
	no      float64

	irez int

	// Lunar-solar epoch phases.
	zmol float64
	zmos float64

	// Solar periodic coefficients.
	se2, se3   float64
	si2, si3   float64
	sl2, sl3   float64
	sl4        float64
	sgh2, sgh3 float64
	sgh4       float64
	sh2, sh3   float64

	// Lunar periodic coefficients.
	ee2, e3    float64
	xi2, xi3   float64
	xl2, xl3   float64
	xl4        float64
	xgh2, xgh3 float64
	xgh4       float64
	xh2, xh3   float64

	// Lunar-solar secular rates.
	dedt  float64
	didt  float64
	dmdt  float64
	dnodt float64
	domdt float64

	// Synchronous resonance terms.
	del1, del2, del3 float64

	// Half-day resonance terms.
	d2201, d2211 float64
	d3210, d3222 float64
	d4410, d4422 float64
	d5220, d5232 float64
	d5421, d5433 float64

	xfact float64
	xlamo float64
}

// dscomTerms are the intermediate lunar-solar geometry values shared between
// the periodic-coefficient setup and the secular-rate setup.
type dscomTerms struct {
	sinim, cosim float64
	emsq         float64
	s1, s2, s3, s4, s5, s6, s7         float64
	ss1, ss2, ss3, ss4, ss5, ss6, ss7  float64
	sz1, sz2, sz3                      float64
	sz11, sz12, sz13                   float64
	sz21, sz22, sz23                   float64
	sz31, sz32, sz33                   float64
	z1, z2, z3                         float64
	z11, z12, z13                      float64
	z21, z22, z23                      float64
	z31, z32, z33                      float64
}

// newDeepSpaceContext computes the lunar-solar and resonance state for a
// deep-space orbit at epoch.
func newDeepSpaceContext(e ElementSet, ctx *propagationContext) (*deepSpaceContext, error) {
	d := &deepSpaceContext{
		argpo:   ctx.argp,
		argpdot: ctx.secular.omgdot,
		no:      ctx.n,
	}

	jd := e.JulianDate()
	d.gsto = gstime(jd)

	// Days since 1949 December 31 00:00 UT, the deep-space lunar-solar epoch.
	epoch1950 := jd - 2433281.5

	terms := d.computeLunarSolar(epoch1950, ctx)
	d.computeSecularRates(ctx, terms)
	d.computeResonance(ctx, terms)
	return d, nil
}

// computeLunarSolar evaluates the lunar and solar disturbing geometry at epoch
// and stores the periodic coefficients. The same series is evaluated twice,
// first with solar orientation constants and then with the lunar orientation
// derived from the epoch lunar node.
func (d *deepSpaceContext) computeLunarSolar(epoch1950 float64, ctx *propagationContext) dscomTerms {
	var t dscomTerms

	nm := ctx.n
	em := ctx.ecc
	snodm := math.Sin(ctx.raan)
	cnodm := math.Cos(ctx.raan)
	sinomm := math.Sin(ctx.argp)
	cosomm := math.Cos(ctx.argp)
	t.sinim = math.Sin(ctx.incl)
	t.cosim = math.Cos(ctx.incl)
	t.emsq = em * em
	betasq := 1.0 - t.emsq
	rtemsq := math.Sqrt(betasq)

	day := epoch1950 + 18261.5
	xnodce := math.Mod(4.5236020-9.2422029e-4*day, twoPi)
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1.0 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1.0 - zsinhl*zsinhl)
	gam := 5.8351514 + 0.0019443680*day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)

	zcosg := zcosgs
	zsing := zsings
	zcosi := zcosis
	zsini := zsinis
	zcosh := cnodm
	zsinh := snodm
	cc := c1ss
	xnoi := 1.0 / nm

	for pass := 1; pass <= 2; pass++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := t.cosim*a7 + t.sinim*a8
		a4 := t.cosim*a9 + t.sinim*a10
		a5 := -t.sinim*a7 + t.cosim*a8
		a6 := -t.sinim*a9 + t.cosim*a10

		x1 := a1*cosomm + a2*sinomm
		x2 := a3*cosomm + a4*sinomm
		x3 := -a1*sinomm + a2*cosomm
		x4 := -a3*sinomm + a4*cosomm
		x5 := a5 * sinomm
		x6 := a6 * sinomm
		x7 := a5 * cosomm
		x8 := a6 * cosomm

		t.z31 = 12.0*x1*x1 - 3.0*x3*x3
		t.z32 = 24.0*x1*x2 - 6.0*x3*x4
		t.z33 = 12.0*x2*x2 - 3.0*x4*x4
		t.z1 = 3.0*(a1*a1+a2*a2) + t.z31*t.emsq
		t.z2 = 6.0*(a1*a3+a2*a4) + t.z32*t.emsq
		t.z3 = 3.0*(a3*a3+a4*a4) + t.z33*t.emsq
		t.z11 = -6.0*a1*a5 + t.emsq*(-24.0*x1*x7-6.0*x3*x5)
		t.z12 = -6.0*(a1*a6+a3*a5) + t.emsq*(-24.0*(x2*x7+x1*x8)-6.0*(x3*x6+x4*x5))
		t.z13 = -6.0*a3*a6 + t.emsq*(-24.0*x2*x8-6.0*x4*x6)
		t.z21 = 6.0*a2*a5 + t.emsq*(24.0*x1*x5-6.0*x3*x7)
		t.z22 = 6.0*(a4*a5+a2*a6) + t.emsq*(24.0*(x2*x5+x1*x6)-6.0*(x4*x7+x3*x8))
		t.z23 = 6.0*a4*a6 + t.emsq*(24.0*x2*x6-6.0*x4*x8)
		t.z1 = t.z1 + t.z1 + betasq*t.z31
		t.z2 = t.z2 + t.z2 + betasq*t.z32
		t.z3 = t.z3 + t.z3 + betasq*t.z33
		t.s3 = cc * xnoi
		t.s2 = -0.5 * t.s3 / rtemsq
		t.s4 = t.s3 * rtemsq
		t.s1 = -15.0 * em * t.s4
		t.s5 = x1*x3 + x2*x4
		t.s6 = x2*x3 + x1*x4
		t.s7 = x2*x4 - x1*x3

		if pass == 1 {
			t.ss1, t.ss2, t.ss3, t.ss4 = t.s1, t.s2, t.s3, t.s4
			t.ss5, t.ss6, t.ss7 = t.s5, t.s6, t.s7
			t.sz1, t.sz2, t.sz3 = t.z1, t.z2, t.z3
			t.sz11, t.sz12, t.sz13 = t.z11, t.z12, t.z13
			t.sz21, t.sz22, t.sz23 = t.z21, t.z22, t.z23
			t.sz31, t.sz32, t.sz33 = t.z31, t.z32, t.z33
			zcosg = zcosgl
			zsing = zsingl
			zcosi = zcosil
			zsini = zsinil
			zcosh = zcoshl*cnodm + zsinhl*snodm
			zsinh = snodm*zcoshl - cnodm*zsinhl
			cc = c1l
		}
	}

	d.zmol = math.Mod(4.7199672+0.22997150*day-gam, twoPi)
	d.zmos = math.Mod(6.2565837+0.017201977*day, twoPi)

	// Solar periodic coefficients.
	d.se2 = 2.0 * t.ss1 * t.ss6
	d.se3 = 2.0 * t.ss1 * t.ss7
	d.si2 = 2.0 * t.ss2 * t.sz12
	d.si3 = 2.0 * t.ss2 * (t.sz13 - t.sz11)
	d.sl2 = -2.0 * t.ss3 * t.sz2
	d.sl3 = -2.0 * t.ss3 * (t.sz3 - t.sz1)
	d.sl4 = -2.0 * t.ss3 * (-21.0 - 9.0*t.emsq) * zes
	d.sgh2 = 2.0 * t.ss4 * t.sz32
	d.sgh3 = 2.0 * t.ss4 * (t.sz33 - t.sz31)
	d.sgh4 = -18.0 * t.ss4 * zes
	d.sh2 = -2.0 * t.ss2 * t.sz22
	d.sh3 = -2.0 * t.ss2 * (t.sz23 - t.sz21)

	// Lunar periodic coefficients.
	d.ee2 = 2.0 * t.s1 * t.s6
	d.e3 = 2.0 * t.s1 * t.s7
	d.xi2 = 2.0 * t.s2 * t.z12
	d.xi3 = 2.0 * t.s2 * (t.z13 - t.z11)
	d.xl2 = -2.0 * t.s3 * t.z2
	d.xl3 = -2.0 * t.s3 * (t.z3 - t.z1)
	d.xl4 = -2.0 * t.s3 * (-21.0 - 9.0*t.emsq) * zel
	d.xgh2 = 2.0 * t.s4 * t.z32
	d.xgh3 = 2.0 * t.s4 * (t.z33 - t.z31)
	d.xgh4 = -18.0 * t.s4 * zel
	d.xh2 = -2.0 * t.s2 * t.z22
	d.xh3 = -2.0 * t.s2 * (t.z23 - t.z21)

	return t
}

// computeSecularRates derives the lunar-solar secular rates of the mean
// elements from the epoch disturbing geometry.
func (d *deepSpaceContext) computeSecularRates(ctx *propagationContext, t dscomTerms) {
	ses := t.ss1 * zns * t.ss5
	sis := t.ss2 * zns * (t.sz11 + t.sz13)
	sls := -zns * t.ss3 * (t.sz1 + t.sz3 - 14.0 - 6.0*t.emsq)
	sghs := t.ss4 * zns * (t.sz31 + t.sz33 - 6.0)
	shs := -zns * t.ss2 * (t.sz21 + t.sz23)
	// Node rate is undefined for (near-)equatorial orbits.
	if ctx.incl < 5.2359877e-2 || ctx.incl > math.Pi-5.2359877e-2 {
		shs = 0.0
	}
	if t.sinim != 0.0 {
		shs = shs / t.sinim
	}
	sgs := sghs - t.cosim*shs

	d.dedt = ses + t.s1*znl*t.s5
	d.didt = sis + t.s2*znl*(t.z11+t.z13)
	d.dmdt = sls - znl*t.s3*(t.z1+t.z3-14.0-6.0*t.emsq)
	sghl := t.s4 * znl * (t.z31 + t.z33 - 6.0)
	shll := -znl * t.s2 * (t.z21 + t.z23)
	if ctx.incl < 5.2359877e-2 || ctx.incl > math.Pi-5.2359877e-2 {
		shll = 0.0
	}
	d.domdt = sgs + sghl
	d.dnodt = shs
	if t.sinim != 0.0 {
		d.domdt -= t.cosim / t.sinim * shll
		d.dnodt += shll / t.sinim
	}
}

// computeResonance classifies the orbit's resonance regime and prepares the
// geopotential terms and integrator initial conditions for it.
func (d *deepSpaceContext) computeResonance(ctx *propagationContext, t dscomTerms) {
	nm := ctx.n
	em := ctx.ecc
	emsq := t.emsq

	d.irez = rezNone
	if nm < 0.0052359877 && nm > 0.0034906585 {
		d.irez = rezSynch
	}
	if nm >= 8.26e-3 && nm <= 9.24e-3 && em >= 0.5 {
		d.irez = rezHalfDay
	}
	if d.irez == rezNone {
		return
	}

	sinim := t.sinim
	cosim := t.cosim
	aonv := math.Pow(nm/xke, 2.0/3.0)

	if d.irez == rezHalfDay {
		cosisq := cosim * cosim
		eoc := em * emsq

		g201 := -0.306 - (em-0.64)*0.440
		var g211, g310, g322, g410, g422, g520 float64
		if em <= 0.65 {
			g211 = 3.616 - 13.2470*em + 16.2900*emsq
			g310 = -19.302 + 117.3900*em - 228.4190*emsq + 156.5910*eoc
			g322 = -18.9068 + 109.7927*em - 214.6334*emsq + 146.5816*eoc
			g410 = -41.122 + 242.6940*em - 471.0940*emsq + 313.9530*eoc
			g422 = -146.407 + 841.8800*em - 1629.014*emsq + 1083.4350*eoc
			g520 = -532.114 + 3017.977*em - 5740.032*emsq + 3708.2760*eoc
		} else {
			g211 = -72.099 + 331.819*em - 508.738*emsq + 266.724*eoc
			g310 = -346.844 + 1582.851*em - 2415.925*emsq + 1246.113*eoc
			g322 = -342.585 + 1554.908*em - 2366.899*emsq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*em - 7193.992*emsq + 3651.957*eoc
			g422 = -3581.690 + 16178.110*em - 24462.770*emsq + 12422.520*eoc
			if em > 0.715 {
				g520 = -5149.66 + 29936.92*em - 54087.36*emsq + 31324.56*eoc
			} else {
				g520 = 1464.74 - 4664.75*em + 3763.64*emsq
			}
		}
		var g533, g521, g532 float64
		if em < 0.7 {
			g533 = -919.22770 + 4988.6100*em - 9064.7700*emsq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*em - 8491.4146*emsq + 5337.524*eoc
			g532 = -853.66600 + 4690.2500*em - 8624.7700*emsq + 5341.4*eoc
		} else {
			g533 = -37995.780 + 161616.52*em - 229838.20*emsq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*em - 309468.16*emsq + 146349.42*eoc
			g532 = -40023.880 + 170470.89*em - 242699.48*emsq + 115605.82*eoc
		}

		sini2 := sinim * sinim
		f220 := 0.75 * (1.0 + 2.0*cosim + cosisq)
		f221 := 1.5 * sini2
		f321 := 1.875 * sinim * (1.0 - 2.0*cosim - 3.0*cosisq)
		f322 := -1.875 * sinim * (1.0 + 2.0*cosim - 3.0*cosisq)
		f441 := 35.0 * sini2 * f220
		f442 := 39.3750 * sini2 * sini2
		f522 := 9.84375 * sinim * (sini2*(1.0-2.0*cosim-5.0*cosisq) +
			0.33333333*(-2.0+4.0*cosim+6.0*cosisq))
		f523 := sinim * (4.92187512*sini2*(-2.0-4.0*cosim+10.0*cosisq) +
			6.56250012*(1.0+2.0*cosim-3.0*cosisq))
		f542 := 29.53125 * sinim * (2.0 - 8.0*cosim + cosisq*(-12.0+8.0*cosim+10.0*cosisq))
		f543 := 29.53125 * sinim * (-2.0 - 8.0*cosim + cosisq*(12.0+8.0*cosim-10.0*cosisq))

		xno2 := nm * nm
		ainv2 := aonv * aonv
		temp1 := 3.0 * xno2 * ainv2
		temp := temp1 * root22
		d.d2201 = temp * f220 * g201
		d.d2211 = temp * f221 * g211
		temp1 = temp1 * aonv
		temp = temp1 * root32
		d.d3210 = temp * f321 * g310
		d.d3222 = temp * f322 * g322
		temp1 = temp1 * aonv
		temp = 2.0 * temp1 * root44
		d.d4410 = temp * f441 * g410
		d.d4422 = temp * f442 * g422
		temp1 = temp1 * aonv
		temp = temp1 * root52
		d.d5220 = temp * f522 * g520
		d.d5232 = temp * f523 * g532
		temp = 2.0 * temp1 * root54
		d.d5421 = temp * f542 * g521
		d.d5433 = temp * f543 * g533

		d.xlamo = math.Mod(ctx.m+2.0*ctx.raan-2.0*d.gsto, twoPi)
		d.xfact = ctx.secular.xmdot + d.dmdt +
			2.0*(ctx.secular.xnodot+d.dnodt-rptim) - ctx.n
		return
	}

	// Synchronous resonance.
	g200 := 1.0 + emsq*(-2.5+0.8125*emsq)
	g310 := 1.0 + 2.0*emsq
	g300 := 1.0 + emsq*(-6.0+6.60937*emsq)
	f220 := 0.75 * (1.0 + cosim) * (1.0 + cosim)
	f311 := 0.9375*sinim*sinim*(1.0+3.0*cosim) - 0.75*(1.0+cosim)
	f330 := 1.0 + cosim
	f330 = 1.875 * f330 * f330 * f330
	d.del1 = 3.0 * nm * nm * aonv * aonv
	d.del2 = 2.0 * d.del1 * f220 * g200 * q22
	d.del3 = 3.0 * d.del1 * f330 * g300 * q33 * aonv
	d.del1 = d.del1 * f311 * g310 * q31 * aonv

	xpidot := ctx.secular.omgdot + ctx.secular.xnodot
	d.xlamo = math.Mod(ctx.m+ctx.raan+ctx.argp-d.gsto, twoPi)
	d.xfact = ctx.secular.xmdot + xpidot - rptim + d.dmdt + d.domdt + d.dnodt - ctx.n
}

// secularContributions applies the lunar-solar secular rates and, for
// resonant orbits, integrates the resonance equations from epoch to tsince.
// It returns the perturbed mean elements and mean motion at tsince. The
// integration always restarts at epoch so calls are independent of each
// other.
func (d *deepSpaceContext) secularContributions(tsince float64, em, argpm, inclm, mm, nodem, nm float64) (emOut, argpmOut, inclmOut, mmOut, nodemOut, nmOut float64) {
	theta := math.Mod(d.gsto+tsince*rptim, twoPi)
	em += d.dedt * tsince
	inclm += d.didt * tsince
	argpm += d.domdt * tsince
	nodem += d.dnodt * tsince
	mm += d.dmdt * tsince

	if d.irez == rezNone {
		return em, argpm, inclm, mm, nodem, nm
	}

	// Euler-Maclaurin integration of the resonance equations in fixed
	// 720-minute steps, from epoch to the final partial step.
	atime := 0.0
	xli := d.xlamo
	xni := d.no
	delt := stepp
	if tsince < 0 {
		delt = -stepp
	}

	var xndt, xldot, xnddt float64
	ft := 0.0
	for {
		if d.irez != rezHalfDay {
			xndt = d.del1*math.Sin(xli-fasx2) +
				d.del2*math.Sin(2.0*(xli-fasx4)) +
				d.del3*math.Sin(3.0*(xli-fasx6))
			xldot = xni + d.xfact
			xnddt = d.del1*math.Cos(xli-fasx2) +
				2.0*d.del2*math.Cos(2.0*(xli-fasx4)) +
				3.0*d.del3*math.Cos(3.0*(xli-fasx6))
			xnddt *= xldot
		} else {
			xomi := d.argpo + d.argpdot*atime
			x2omi := xomi + xomi
			x2li := xli + xli
			xndt = d.d2201*math.Sin(x2omi+xli-g22) + d.d2211*math.Sin(xli-g22) +
				d.d3210*math.Sin(xomi+xli-g32) + d.d3222*math.Sin(-xomi+xli-g32) +
				d.d4410*math.Sin(x2omi+x2li-g44) + d.d4422*math.Sin(x2li-g44) +
				d.d5220*math.Sin(xomi+xli-g52) + d.d5232*math.Sin(-xomi+xli-g52) +
				d.d5421*math.Sin(xomi+x2li-g54) + d.d5433*math.Sin(-xomi+x2li-g54)
			xldot = xni + d.xfact
			xnddt = d.d2201*math.Cos(x2omi+xli-g22) + d.d2211*math.Cos(xli-g22) +
				d.d3210*math.Cos(xomi+xli-g32) + d.d3222*math.Cos(-xomi+xli-g32) +
				d.d5220*math.Cos(xomi+xli-g52) + d.d5232*math.Cos(-xomi+xli-g52) +
				2.0*(d.d4410*math.Cos(x2omi+x2li-g44)+d.d4422*math.Cos(x2li-g44)+
					d.d5421*math.Cos(xomi+x2li-g54)+d.d5433*math.Cos(-xomi+x2li-g54))
			xnddt *= xldot
		}

		if math.Abs(tsince-atime) < stepp {
			ft = tsince - atime
			break
		}
		xli = xli + xldot*delt + xndt*step2
		xni = xni + xndt*delt + xnddt*step2
		atime = atime + delt
	}

	nm = xni + xndt*ft + xnddt*ft*ft*0.5
	xl := xli + xldot*ft + xndt*ft*ft*0.5
	if d.irez != rezSynch {
		mm = xl - 2.0*nodem + 2.0*theta
	} else {
		mm = xl - nodem - argpm + theta
	}
	return em, argpm, inclm, mm, nodem, nm
}

// applyPeriodics adds the lunar-solar periodic contributions to the mean
// elements at tsince. Below 0.2 rad inclination the Lyddane modification is
// used to sidestep the small-inclination singularity in the node.
func (d *deepSpaceContext) applyPeriodics(tsince float64, ep, inclp, nodep, argpp, mp float64) (eOut, inclOut, nodeOut, argpOut, mOut float64) {
	// Solar terms.
	zm := d.zmos + zns*tsince
	zf := zm + 2.0*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := d.se2*f2 + d.se3*f3
	sis := d.si2*f2 + d.si3*f3
	sls := d.sl2*f2 + d.sl3*f3 + d.sl4*sinzf
	sghs := d.sgh2*f2 + d.sgh3*f3 + d.sgh4*sinzf
	shs := d.sh2*f2 + d.sh3*f3

	// Lunar terms.
	zm = d.zmol + znl*tsince
	zf = zm + 2.0*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := d.ee2*f2 + d.e3*f3
	sil := d.xi2*f2 + d.xi3*f3
	sll := d.xl2*f2 + d.xl3*f3 + d.xl4*sinzf
	sghl := d.xgh2*f2 + d.xgh3*f3 + d.xgh4*sinzf
	shll := d.xh2*f2 + d.xh3*f3

	pe := ses + sel
	pinc := sis + sil
	pl := sls + sll
	pgh := sghs + sghl
	ph := shs + shll

	inclp += pinc
	ep += pe
	sinip := math.Sin(inclp)
	cosip := math.Cos(inclp)

	if inclp >= 0.2 {
		ph /= sinip
		pgh -= cosip * ph
		argpp += pgh
		nodep += ph
		mp += pl
		return ep, inclp, nodep, argpp, mp
	}

	// Lyddane modification for low inclinations.
	sinop := math.Sin(nodep)
	cosop := math.Cos(nodep)
	alfdp := sinip * sinop
	betdp := sinip * cosop
	dalf := ph*cosop + pinc*cosip*sinop
	dbet := -ph*sinop + pinc*cosip*cosop
	alfdp += dalf
	betdp += dbet
	nodep = math.Mod(nodep, twoPi)
	xls := mp + argpp + cosip*nodep
	dls := pl + pgh - pinc*nodep*sinip
	xls += dls
	xnoh := nodep
	nodep = math.Atan2(alfdp, betdp)
	if math.Abs(xnoh-nodep) > math.Pi {
		if nodep < xnoh {
			nodep += twoPi
		} else {
			nodep -= twoPi
		}
	}
	mp += pl
	argpp = xls - mp - cosip*nodep
	return ep, inclp, nodep, argpp, mp
}
