package curve2d

import (
	"math"

	"honnef.co/go/roadgeom/geom"
)

// Rational approximations of the Fresnel integrals, from the Cephes
// Mathematical Library (fresnl.c).
var (
	// S(x) for x² < 2.5625
	fresnelSN = [...]float64{
		-2.99181919401019853726e3,
		7.08840045257738576863e5,
		-6.29741486205862506537e7,
		2.54890880573376359104e9,
		-4.42979518059697779103e10,
		3.18016297876567817986e11,
	}
	fresnelSD = [...]float64{
		2.81376268889994315696e2,
		4.55847810806532581675e4,
		5.17343888770096400730e6,
		4.19320245898111231129e8,
		2.24411795645340920940e10,
		6.07366389490084639049e11,
	}

	// C(x) for x² < 2.5625
	fresnelCN = [...]float64{
		-4.98843114573573548651e-8,
		9.50428062829859605134e-6,
		-6.45191435683965050962e-4,
		1.88843319396703850064e-2,
		-2.05525900955013891793e-1,
		9.99999999999999998822e-1,
	}
	fresnelCD = [...]float64{
		3.99982968972495980367e-12,
		9.15439215774657478799e-10,
		1.25001862479598821474e-7,
		1.22262789024179030997e-5,
		8.68029542941784300606e-4,
		4.12142090722199792936e-2,
		1.00000000000000000118e0,
	}

	// Auxiliary function f(x)
	fresnelFN = [...]float64{
		4.21543555043677546506e-1,
		1.43407919780758885261e-1,
		1.15220955073585758835e-2,
		3.45017939782574027900e-4,
		4.63613749287867322088e-6,
		3.05568983790257605827e-8,
		1.02304514164907233465e-10,
		1.72010743268161828879e-13,
		1.34283276233062758925e-16,
		3.76329711269987889006e-20,
	}
	fresnelFD = [...]float64{
		7.51586398353378947175e-1,
		1.16888925859191382142e-1,
		6.44051526508858611005e-3,
		1.55934409164153020873e-4,
		1.84627567348930545870e-6,
		1.12699224763999035261e-8,
		3.60140029589371370404e-11,
		5.88754533621578410010e-14,
		4.52001434074129701496e-17,
		1.25443237090011264384e-20,
	}

	// Auxiliary function g(x)
	fresnelGN = [...]float64{
		5.04442073643383265887e-1,
		1.97102833525523411709e-1,
		1.87648584092575249293e-2,
		6.84079380915393090172e-4,
		1.15138826111884280931e-5,
		9.82852443688422223854e-8,
		4.45344415861750144738e-10,
		1.08268041139020870318e-12,
		1.37555460633261799868e-15,
		8.36354435630677421531e-19,
		1.86958710162783235106e-22,
	}
	fresnelGD = [...]float64{
		1.47495759925128324529e0,
		3.37748989120019970451e-1,
		2.53603741420338795122e-2,
		8.14679107184306179049e-4,
		1.27545075667729118702e-5,
		1.04314589657571990585e-7,
		4.60680728146520428211e-10,
		1.10273215066240270757e-12,
		1.38796531259578871258e-15,
		8.39158816283118707363e-19,
		1.86958710162783236342e-22,
	}
)

// polevl evaluates the polynomial with the given coefficients, highest
// degree first.
//
// The explicit conversions prevent fused multiply-add, which would change
// the rounding and break agreement with reference values.
func polevl(x float64, coef []float64) float64 {
	ans := coef[0]
	for _, c := range coef[1:] {
		ans = float64(ans*x) + c
	}
	return ans
}

// p1evl is like polevl, but with an implicit leading coefficient of 1.
func p1evl(x float64, coef []float64) float64 {
	ans := x + coef[0]
	for _, c := range coef[1:] {
		ans = float64(ans*x) + c
	}
	return ans
}

// Fresnel computes the normalized Fresnel integrals
//
//	S(l) = ∫₀ˡ sin(πt²/2) dt
//	C(l) = ∫₀ˡ cos(πt²/2) dt
//
// for any finite l. Both are odd functions and approach 1/2 for large l.
func Fresnel(l float64) (s, c float64) {
	x := math.Abs(l)
	x2 := float64(x * x)

	switch {
	case x2 < 2.5625:
		t := float64(x2 * x2)
		s = float64(float64(x*x2)*polevl(t, fresnelSN[:])) / p1evl(t, fresnelSD[:])
		c = float64(x*polevl(t, fresnelCN[:])) / polevl(t, fresnelCD[:])
	case x > 36974.0:
		s, c = 0.5, 0.5
	default:
		t := float64(math.Pi * x2)
		u := 1.0 / float64(t*t)
		t = 1.0 / t
		f := 1.0 - float64(u*polevl(u, fresnelFN[:]))/p1evl(u, fresnelFD[:])
		g := float64(t*polevl(u, fresnelGN[:])) / p1evl(u, fresnelGD[:])

		sin, cos := math.Sin(float64(math.Pi*0.5)*x2), math.Cos(float64(math.Pi*0.5)*x2)
		t = float64(math.Pi * x)
		c = 0.5 + (float64(f*sin)-float64(g*cos))/t
		s = 0.5 - (float64(f*cos)+float64(g*sin))/t
	}

	if l < 0 {
		s, c = -s, -c
	}
	return s, c
}

// FresnelPoint returns the point (C(l), S(l)) on the normalized clothoid.
func FresnelPoint(l float64) geom.Vec2 {
	s, c := Fresnel(l)
	return geom.Vec2{X: c, Y: s}
}

// StandardSpiral evaluates the clothoid that starts at the origin with
// heading 0 and curvature 0, and whose curvature changes by cdot per unit of
// arc length. It returns the point at arc length s and the tangent angle
// there.
//
// cdot must not be zero.
func StandardSpiral(s, cdot float64) (geom.Vec2, float64) {
	a := 1.0 / math.Sqrt(math.Abs(cdot))
	a *= math.Sqrt(math.Pi)

	fs, fc := Fresnel(s / a)
	p := geom.Vec2{X: fc * a, Y: fs * a}
	if cdot < 0 {
		p.Y = -p.Y
	}
	return p, float64(float64(s*s)*cdot) * 0.5
}
