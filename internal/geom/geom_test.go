package geom

import (
	"math"
	"testing"
)

func direction(degrees float64) Vec3 {
	rad := degrees * math.Pi / 180
	return Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

func TestAngleMatchesConstructedDirections(t *testing.T) {
	cases := []float64{0, 45, 90, 99.9, 100, 135, 180}
	for _, want := range cases {
		got := Angle(direction(want), Forward)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("expected angle %v, got %v", want, got)
		}
	}
}

func TestAngleZeroVectorIsZero(t *testing.T) {
	if got := Angle(Vec3{}, Forward); got != 0 {
		t.Fatalf("expected zero angle for zero vector, got %v", got)
	}
}

func TestRotationForward(t *testing.T) {
	f := Euler(0, 90, 0).Forward()
	if math.Abs(f.X-1) > 1e-9 || math.Abs(f.Z) > 1e-9 {
		t.Fatalf("expected yaw 90 to face +X, got %+v", f)
	}
	back := Euler(0, 180, 0).Forward()
	if math.Abs(back.Z+1) > 1e-9 {
		t.Fatalf("expected yaw 180 to face -Z, got %+v", back)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(150, 10, 100) != 100 || Clamp(5, 10, 100) != 10 || Clamp(50, 10, 100) != 50 {
		t.Fatalf("clamp returned unexpected values")
	}
}
