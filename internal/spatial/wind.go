package spatial

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// Kinematics is the wind / airspeed decomposition of one sample.
type Kinematics struct {
	WindSpeed     float64 // same unit as the wind components
	WindDirection float64 // degrees, π/2 − atan2(u, v)
	Airspeed      float64 // same unit as ground speed
	AirspeedAngle float64 // degrees
}

// WindOptions tunes DecomposeWind.
type WindOptions struct {
	// ConsistentAirspeedAngle evaluates the sine term of the airspeed angle
	// on (track − wind direction) in radians. When false the track is used
	// in degrees inside the sine, which reproduces the historical feature
	// values.
	ConsistentAirspeedAngle bool
}

// DecomposeWind recovers airspeed from the ground velocity (track, gs) and
// the wind vector (u, v) with the law of cosines on the wind triangle.
// Missing inputs and a zero airspeed propagate as NaN.
func DecomposeWind(u, v, trackDeg, groundSpeed float64, opts WindOptions) Kinematics {
	ws := r2.Point{X: u, Y: v}.Norm()
	wd := s1.Angle(math.Pi/2 - math.Atan2(u, v))
	track := s1.Angle(trackDeg) * s1.Degree

	airspeed := math.Sqrt(groundSpeed*groundSpeed + ws*ws -
		2*groundSpeed*ws*math.Cos((track-wd).Radians()))

	sinArg := trackDeg - wd.Radians()
	if opts.ConsistentAirspeedAngle {
		sinArg = (track - wd).Radians()
	}
	drift := s1.Angle(math.Asin(ws * math.Sin(sinArg) / airspeed))

	return Kinematics{
		WindSpeed:     ws,
		WindDirection: wd.Degrees(),
		Airspeed:      airspeed,
		AirspeedAngle: (track + drift).Degrees(),
	}
}
