// Package ordertable precomputes, once at process start, every table
// the splatter needs to walk an octree's eight children in
// front-to-back screen order for a given view: which axis separates
// depth the most (Order), which corner is nearest the camera
// (starting octant), and the permutation of present children that
// results (the Sparse/Packed queues).
//
// Every exported table here is read-only after init() runs; nothing
// in this package allocates per frame.
package ordertable

import "github.com/voxsplat/octoscan/fixedpoint"

// Order picks which of the three object axes is treated as
// "outermost" (most depth-correlated) when enumerating octants, down
// to which is innermost (least depth-correlated). The name lists axes
// outer-to-inner.
type Order uint8

const (
	XYZ Order = iota
	XZY
	YXZ
	YZX
	ZXY
	ZYX
	numOrders = 6
)

func (o Order) String() string {
	names := [numOrders]string{"XYZ", "XZY", "YXZ", "YZX", "ZXY", "ZYX"}
	if int(o) < len(names) {
		return names[o]
	}
	return "Order(?)"
}

// axes returns, for each Order, the axis index (0=X,1=Y,2=Z) assigned
// to the outer, middle, and inner loop position.
func (o Order) axes() [3]int {
	switch o {
	case XYZ:
		return [3]int{0, 1, 2}
	case XZY:
		return [3]int{0, 2, 1}
	case YXZ:
		return [3]int{1, 0, 2}
	case YZX:
		return [3]int{1, 2, 0}
	case ZXY:
		return [3]int{2, 0, 1}
	default: // ZYX
		return [3]int{2, 1, 0}
	}
}

func orderFromAxes(outer, mid, inner int) Order {
	switch [3]int{outer, mid, inner} {
	case [3]int{0, 1, 2}:
		return XYZ
	case [3]int{0, 2, 1}:
		return XZY
	case [3]int{1, 0, 2}:
		return YXZ
	case [3]int{1, 2, 0}:
		return YZX
	case [3]int{2, 0, 1}:
		return ZXY
	default:
		return ZYX
	}
}

// SelectOrder picks the Order for a view matrix m by ranking the
// three axes' screen-Z components (|Xz|, |Yz|, |Zz|) from most
// depth-correlated to least: the axis whose object-space step changes
// screen depth the most becomes outermost, so walking it first
// separates near from far children as early as possible. Ties break
// toward the lower axis index (X < Y < Z), so an isometric view
// (all three equal) resolves to XYZ.
func SelectOrder(m fixedpoint.Matrix) Order {
	abs := [3]float64{
		absF(m.Xz), absF(m.Yz), absF(m.Zz),
	}
	idx := [3]int{0, 1, 2}
	// 3-element insertion sort, descending by abs[idx], stable so
	// equal keys keep their original (X<Y<Z) relative order.
	if abs[idx[0]] < abs[idx[1]] {
		idx[0], idx[1] = idx[1], idx[0]
	}
	if abs[idx[1]] < abs[idx[2]] {
		idx[1], idx[2] = idx[2], idx[1]
	}
	if abs[idx[0]] < abs[idx[1]] {
		idx[0], idx[1] = idx[1], idx[0]
	}
	return orderFromAxes(idx[0], idx[1], idx[2])
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// StartingOctant derives the corner nearest the viewer (the first
// octant of every forward queue) from the orientation of the three
// object-space planes (§4.3): each bit is set according to which way
// its corresponding plane faces relative to the other two basis
// vectors. For the identity matrix it is octant 0, the -Z corner.
func StartingOctant(m fixedpoint.Matrix) uint8 {
	var bitX, bitY, bitZ uint8
	if m.Yy*m.Zx > m.Yx*m.Zy {
		bitX = 1
	}
	if m.Zy*m.Xx > m.Zx*m.Xy {
		bitY = 1
	}
	if m.Xy*m.Yx > m.Xx*m.Yy {
		bitZ = 1
	}
	return bitX | bitY<<1 | bitZ<<2
}
