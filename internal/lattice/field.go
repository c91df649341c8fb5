package lattice

import "math"

// Field holds one scalar value per velocity slot per lattice point,
// including ghost layers. Storage is slot-major: each slot is a contiguous
// plane over the padded grid, which keeps the streaming gather a strided
// copy within one plane.
type Field struct {
	Lat   *Lattice
	Q     int
	Slots [][]float64
}

// NewField allocates a zero field with q velocity slots.
func NewField(lat *Lattice, q int) *Field {
	slots := make([][]float64, q)
	n := lat.padded()
	for j := range slots {
		slots[j] = make([]float64, n)
	}
	return &Field{Lat: lat, Q: q, Slots: slots}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := NewField(f.Lat, f.Q)
	for j := range f.Slots {
		copy(c.Slots[j], f.Slots[j])
	}
	return c
}

// At reads slot j at coordinates (ghosts reachable with negative or
// past-the-end indices, up to the ghost width).
func (f *Field) At(j, x, y, z int) float64 {
	return f.Slots[j][f.Lat.index(x, y, z)]
}

// Set writes slot j at coordinates.
func (f *Field) Set(j, x, y, z int, v float64) {
	f.Slots[j][f.Lat.index(x, y, z)] = v
}

// Swap exchanges the storage of two fields on the same lattice. The stepper
// uses it to flip the read and write buffers between steps.
func (f *Field) Swap(g *Field) {
	f.Slots, g.Slots = g.Slots, f.Slots
}

// Gather copies the q slot values of one site into dst.
func (f *Field) Gather(dst []float64, x, y, z int) {
	i := f.Lat.index(x, y, z)
	for j := range f.Slots {
		dst[j] = f.Slots[j][i]
	}
}

// Scatter writes the q slot values of one site from src.
func (f *Field) Scatter(src []float64, x, y, z int) {
	i := f.Lat.index(x, y, z)
	for j := range f.Slots {
		f.Slots[j][i] = src[j]
	}
}

// IsFinite reports whether every interior value is a finite number.
func (f *Field) IsFinite() bool {
	n := f.Lat.Sites()
	for site := 0; site < n; site++ {
		x, y, z := f.Lat.Coord(site)
		i := f.Lat.index(x, y, z)
		for j := range f.Slots {
			v := f.Slots[j][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
