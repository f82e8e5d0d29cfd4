package prior

import (
	"math"

	"testworth/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Shape identifies one of the supported prior families.
// The set is closed: calculators branch once on this tag.
type Shape string

const (
	ShapeNormal   Shape = "normal"
	ShapeStudentT Shape = "student_t"
	ShapeUniform  Shape = "uniform"
)

// SupportedDF lists the degrees of freedom accepted for Student-t priors
var SupportedDF = []int{3, 5, 10}

// credibleLevel is the probability mass enclosed by a stated interval
const credibleLevel = 0.90

// Prior is the belief over relative lift before any test.
// Parameters are derived once at construction and immutable afterwards.
type Prior interface {
	Shape() Shape
	Mean() float64
	StdDev() float64
	Density(x float64) float64
	CDF(x float64) float64
	Quantile(p float64) float64
}

// Normal is a Gaussian belief over lift
type Normal struct {
	dist distuv.Normal
}

// NewNormal constructs a Normal prior from native parameters
func NewNormal(mu, sigma float64) (*Normal, error) {
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "sigma", sigma)
	}
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "mu", mu)
	}
	return &Normal{dist: distuv.Normal{Mu: mu, Sigma: sigma}}, nil
}

// NewNormalFromInterval derives Normal parameters from a 90% credible interval:
// mu is the midpoint, sigma spans the interval at the z critical value.
func NewNormalFromInterval(lower, upper float64) (*Normal, error) {
	if err := checkInterval(lower, upper); err != nil {
		return nil, err
	}
	z := distuv.UnitNormal.Quantile(0.5 + credibleLevel/2)
	return NewNormal((lower+upper)/2, (upper-lower)/(2*z))
}

func (n *Normal) Shape() Shape              { return ShapeNormal }
func (n *Normal) Mean() float64             { return n.dist.Mu }
func (n *Normal) StdDev() float64           { return n.dist.Sigma }
func (n *Normal) Density(x float64) float64 { return n.dist.Prob(x) }
func (n *Normal) CDF(x float64) float64     { return n.dist.CDF(x) }
func (n *Normal) Quantile(p float64) float64 {
	return n.dist.Quantile(p)
}

// StudentT is a heavy-tailed belief over lift
type StudentT struct {
	dist distuv.StudentsT
	df   int
}

// NewStudentT constructs a Student-t prior from location, scale and df
func NewStudentT(location, scale float64, df int) (*StudentT, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "scale", scale)
	}
	if math.IsNaN(location) || math.IsInf(location, 0) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "location", location)
	}
	if !supportedDF(df) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "df", df)
	}
	return &StudentT{
		dist: distuv.StudentsT{Mu: location, Sigma: scale, Nu: float64(df)},
		df:   df,
	}, nil
}

// NewStudentTFromInterval derives Student-t parameters from a 90% credible
// interval using the t critical value at the given degrees of freedom.
func NewStudentTFromInterval(lower, upper float64, df int) (*StudentT, error) {
	if err := checkInterval(lower, upper); err != nil {
		return nil, err
	}
	if !supportedDF(df) {
		return nil, core.NewFieldError(core.ErrInvalidPrior, "df", df)
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}.Quantile(0.5 + credibleLevel/2)
	return NewStudentT((lower+upper)/2, (upper-lower)/(2*t), df)
}

func (s *StudentT) Shape() Shape              { return ShapeStudentT }
func (s *StudentT) DF() int                   { return s.df }
func (s *StudentT) Mean() float64             { return s.dist.Mu }
func (s *StudentT) Density(x float64) float64 { return s.dist.Prob(x) }
func (s *StudentT) CDF(x float64) float64     { return s.dist.CDF(x) }
func (s *StudentT) Quantile(p float64) float64 {
	return s.dist.Quantile(p)
}

// StdDev returns the standard deviation scale*sqrt(df/(df-2)).
// Finite for all supported df (>= 3).
func (s *StudentT) StdDev() float64 {
	return s.dist.Sigma * math.Sqrt(s.dist.Nu/(s.dist.Nu-2))
}

// Uniform is a bounded flat belief over lift
type Uniform struct {
	dist distuv.Uniform
}

// NewUniform constructs a Uniform prior; the stated bounds are used directly
func NewUniform(lower, upper float64) (*Uniform, error) {
	if err := checkInterval(lower, upper); err != nil {
		return nil, err
	}
	return &Uniform{dist: distuv.Uniform{Min: lower, Max: upper}}, nil
}

func (u *Uniform) Shape() Shape              { return ShapeUniform }
func (u *Uniform) Mean() float64             { return u.dist.Mean() }
func (u *Uniform) StdDev() float64           { return u.dist.StdDev() }
func (u *Uniform) Density(x float64) float64 { return u.dist.Prob(x) }
func (u *Uniform) CDF(x float64) float64     { return u.dist.CDF(x) }
func (u *Uniform) Quantile(p float64) float64 {
	return u.dist.Quantile(p)
}

// Lower returns the lower bound of the support
func (u *Uniform) Lower() float64 { return u.dist.Min }

// Upper returns the upper bound of the support
func (u *Uniform) Upper() float64 { return u.dist.Max }

func supportedDF(df int) bool {
	for _, d := range SupportedDF {
		if df == d {
			return true
		}
	}
	return false
}

func checkInterval(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) {
		return core.NewFieldError(core.ErrInvalidInterval, "bounds", []float64{lower, upper})
	}
	if lower >= upper {
		return core.NewFieldError(core.ErrInvalidInterval, "lower/upper", []float64{lower, upper})
	}
	return nil
}
