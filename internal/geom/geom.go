package geom

import "math"

// Vec3 is a position or direction in world space. Y is up and Z is forward.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Forward is the unit facing of an unrotated object.
var Forward = Vec3{Z: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) SqrMagnitude() float64 {
	return v.Dot(v)
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Magnitude()
}

// Rotation is an Euler rotation in degrees applied as roll, pitch, then yaw.
type Rotation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Euler builds a rotation from x/y/z degrees in the engine's axis order.
func Euler(x, y, z float64) Rotation {
	return Rotation{Pitch: x, Yaw: y, Roll: z}
}

// Forward returns the unit vector an object with this rotation faces.
// Roll does not change the facing.
func (r Rotation) Forward() Vec3 {
	pitch := r.Pitch * math.Pi / 180
	yaw := r.Yaw * math.Pi / 180
	return Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

const (
	angleEpsilon   = 1e-15
	anglePrecision = 1e6
)

// Angle returns the unsigned angle in degrees between two directions. A zero
// length input yields 0. The result is rounded to micro-degree precision so
// comparisons against whole-degree limits do not flicker on float noise.
func Angle(from, to Vec3) float64 {
	denominator := math.Sqrt(from.SqrMagnitude() * to.SqrMagnitude())
	if denominator < angleEpsilon {
		return 0
	}
	cos := from.Dot(to) / denominator
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	degrees := math.Acos(cos) * 180 / math.Pi
	return math.Round(degrees*anglePrecision) / anglePrecision
}

// Clamp limits value to [min, max].
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
