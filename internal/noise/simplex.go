package noise

import "math"

// grad4 holds the 32 gradient directions of 4D simplex noise.
var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// Table is the permutation state for one noise instance. A Table is
// immutable once built; renders that run concurrently must each own their
// own Table instead of sharing one.
type Table struct {
	perm [512]uint8
}

// NewTable builds the 512-entry permutation table from seed using the
// package PRNG, so the table is a pure function of the seed on every
// platform.
func NewTable(seed uint32) *Table {
	t := &Table{}
	rng := NewSequence(seed)
	p := make([]uint8, 256)
	for i := 0; i < 256; i++ {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := int(rng.Next() * float64(i+1))
		p[i], p[j] = p[j], p[i]
	}
	for i := 0; i < 512; i++ {
		t.perm[i] = p[i&255]
	}
	return t
}

// Raw evaluates seamless noise at normalized coordinates (u,v) and returns
// a value in [-1,1]. Each axis is mapped onto its own circle of radius
// scale/2π, so one full traversal of u or v walks exactly one period of
// the noise and the field wraps without seams on both axes.
func (t *Table) Raw(u, v, scale float64) float64 {
	r := scale / (2 * math.Pi)
	theta := 2 * math.Pi * u
	phi := 2 * math.Pi * v

	return t.eval4(
		math.Cos(theta)*r,
		math.Sin(theta)*r,
		math.Cos(phi)*r,
		math.Sin(phi)*r,
	)
}

// Normalized is Raw rescaled and clamped to [0,1], the form layer fields
// consume directly.
func (t *Table) Normalized(u, v, scale float64) float64 {
	return clamp01((t.Raw(u, v, scale) + 1) * 0.5)
}

const (
	fbmLacunarity = 2.0
	fbmGain       = 0.5
)

// FBM sums octave evaluations of Raw, doubling frequency and halving
// amplitude per octave, renormalized to [-1,1]. One octave reduces to a
// plain Raw call.
func (t *Table) FBM(u, v, scale float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	amp := 0.5
	freq := scale
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += amp * t.Raw(u, v, freq)
		norm += amp
		amp *= fbmGain
		freq *= fbmLacunarity
	}
	return sum / norm
}

// eval4 is 4D simplex noise: the sample point is located within a simplex
// of the skewed lattice, and the five corner contributions
// (0.6-|d|^2)^4 * (grad·d) are summed and scaled by 27 to roughly fill
// [-1,1].
func (t *Table) eval4(x, y, z, w float64) float64 {
	const F4 = 0.30901699437494745
	const G4 = 0.1381966011250105

	s := (x + y + z + w) * F4
	i := fastFloor(x + s)
	j := fastFloor(y + s)
	k := fastFloor(z + s)
	l := fastFloor(w + s)

	unskew := float64(i+j+k+l) * G4
	x0 := x - (float64(i) - unskew)
	y0 := y - (float64(j) - unskew)
	z0 := z - (float64(k) - unskew)
	w0 := w - (float64(l) - unskew)

	// Rank the displacement components to order the simplex traversal.
	rankx, ranky, rankz, rankw := 0, 0, 0, 0
	if x0 > y0 {
		rankx++
	} else {
		ranky++
	}
	if x0 > z0 {
		rankx++
	} else {
		rankz++
	}
	if x0 > w0 {
		rankx++
	} else {
		rankw++
	}
	if y0 > z0 {
		ranky++
	} else {
		rankz++
	}
	if y0 > w0 {
		ranky++
	} else {
		rankw++
	}
	if z0 > w0 {
		rankz++
	} else {
		rankw++
	}

	i1, j1, k1, l1 := 0, 0, 0, 0
	i2, j2, k2, l2 := 0, 0, 0, 0
	i3, j3, k3, l3 := 0, 0, 0, 0
	if rankx >= 3 {
		i1 = 1
	}
	if ranky >= 3 {
		j1 = 1
	}
	if rankz >= 3 {
		k1 = 1
	}
	if rankw >= 3 {
		l1 = 1
	}
	if rankx >= 2 {
		i2 = 1
	}
	if ranky >= 2 {
		j2 = 1
	}
	if rankz >= 2 {
		k2 = 1
	}
	if rankw >= 2 {
		l2 = 1
	}
	if rankx >= 1 {
		i3 = 1
	}
	if ranky >= 1 {
		j3 = 1
	}
	if rankz >= 1 {
		k3 = 1
	}
	if rankw >= 1 {
		l3 = 1
	}

	x1 := x0 - float64(i1) + G4
	y1 := y0 - float64(j1) + G4
	z1 := z0 - float64(k1) + G4
	w1 := w0 - float64(l1) + G4

	x2 := x0 - float64(i2) + 2.0*G4
	y2 := y0 - float64(j2) + 2.0*G4
	z2 := z0 - float64(k2) + 2.0*G4
	w2 := w0 - float64(l2) + 2.0*G4

	x3 := x0 - float64(i3) + 3.0*G4
	y3 := y0 - float64(j3) + 3.0*G4
	z3 := z0 - float64(k3) + 3.0*G4
	w3 := w0 - float64(l3) + 3.0*G4

	x4 := x0 - 1.0 + 4.0*G4
	y4 := y0 - 1.0 + 4.0*G4
	z4 := z0 - 1.0 + 4.0*G4
	w4 := w0 - 1.0 + 4.0*G4

	ii := i & 255
	jj := j & 255
	kk := k & 255
	ll := l & 255

	gi0 := t.perm[ii+int(t.perm[jj+int(t.perm[kk+int(t.perm[ll])])])] % 32
	gi1 := t.perm[ii+i1+int(t.perm[jj+j1+int(t.perm[kk+k1+int(t.perm[ll+l1])])])] % 32
	gi2 := t.perm[ii+i2+int(t.perm[jj+j2+int(t.perm[kk+k2+int(t.perm[ll+l2])])])] % 32
	gi3 := t.perm[ii+i3+int(t.perm[jj+j3+int(t.perm[kk+k3+int(t.perm[ll+l3])])])] % 32
	gi4 := t.perm[ii+1+int(t.perm[jj+1+int(t.perm[kk+1+int(t.perm[ll+1])])])] % 32

	n0, n1, n2, n3, n4 := 0.0, 0.0, 0.0, 0.0, 0.0

	c0 := 0.6 - x0*x0 - y0*y0 - z0*z0 - w0*w0
	if c0 > 0 {
		c0 *= c0
		n0 = c0 * c0 * dot4(grad4[gi0], x0, y0, z0, w0)
	}
	c1 := 0.6 - x1*x1 - y1*y1 - z1*z1 - w1*w1
	if c1 > 0 {
		c1 *= c1
		n1 = c1 * c1 * dot4(grad4[gi1], x1, y1, z1, w1)
	}
	c2 := 0.6 - x2*x2 - y2*y2 - z2*z2 - w2*w2
	if c2 > 0 {
		c2 *= c2
		n2 = c2 * c2 * dot4(grad4[gi2], x2, y2, z2, w2)
	}
	c3 := 0.6 - x3*x3 - y3*y3 - z3*z3 - w3*w3
	if c3 > 0 {
		c3 *= c3
		n3 = c3 * c3 * dot4(grad4[gi3], x3, y3, z3, w3)
	}
	c4 := 0.6 - x4*x4 - y4*y4 - z4*z4 - w4*w4
	if c4 > 0 {
		c4 *= c4
		n4 = c4 * c4 * dot4(grad4[gi4], x4, y4, z4, w4)
	}

	return 27.0 * (n0 + n1 + n2 + n3 + n4)
}

func fastFloor(x float64) int {
	if x >= 0 {
		return int(x)
	}
	return int(x) - 1
}

func dot4(g [4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
