package logic

import (
	"errors"
	"math"
)

// ridgeRegression fits y ≈ intercept + Xw with an L2 penalty on w, using
// the closed-form normal equations. Features are standardized internally;
// the returned means/scales must travel with the weights so prediction
// standardizes the same way. At ~35 features the dense solve is trivial.
type ridgeRegression struct {
	lambda float64

	intercept float64
	weights   []float64
	means     []float64
	scales    []float64
}

func newRidgeRegression(lambda float64) *ridgeRegression {
	if lambda <= 0 {
		lambda = 1.0
	}
	return &ridgeRegression{lambda: lambda}
}

var errSingularSystem = errors.New("singular normal equations")

// fit solves (ZᵀZ + λI)w = Zᵀ(y−ȳ) where Z is the standardized design
// matrix. Constant columns get scale 1 so they contribute nothing after
// centering instead of dividing by zero.
func (r *ridgeRegression) fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return errors.New("regression: empty or mismatched training data")
	}
	p := len(x[0])

	r.means = make([]float64, p)
	r.scales = make([]float64, p)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][j]
		}
		r.means[j] = sum / float64(n)

		var ss float64
		for i := 0; i < n; i++ {
			d := x[i][j] - r.means[j]
			ss += d * d
		}
		r.scales[j] = math.Sqrt(ss / float64(n))
		if r.scales[j] == 0 {
			r.scales[j] = 1
		}
	}

	var ySum float64
	for _, v := range y {
		ySum += v
	}
	yMean := ySum / float64(n)

	// Standardize once; the Gram matrix pass below touches every cell p
	// times otherwise.
	z := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			row[j] = (x[i][j] - r.means[j]) / r.scales[j]
		}
		z[i] = row
	}

	a := make([][]float64, p)
	for j := 0; j < p; j++ {
		a[j] = make([]float64, p+1) // augmented column holds Zᵀ(y−ȳ)
	}
	for i := 0; i < n; i++ {
		yc := y[i] - yMean
		for j := 0; j < p; j++ {
			zij := z[i][j]
			for k := j; k < p; k++ {
				a[j][k] += zij * z[i][k]
			}
			a[j][p] += zij * yc
		}
	}
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			a[j][k] = a[k][j]
		}
		a[j][j] += r.lambda
	}

	w, err := solveGaussian(a, p)
	if err != nil {
		return err
	}

	r.weights = w
	r.intercept = yMean
	return nil
}

// predict applies the fitted model to one raw feature row.
func (r *ridgeRegression) predict(row []float64) float64 {
	sum := r.intercept
	for j, w := range r.weights {
		if j >= len(row) {
			break
		}
		sum += w * (row[j] - r.means[j]) / r.scales[j]
	}
	return sum
}

// solveGaussian eliminates the p×(p+1) augmented system in place with
// partial pivoting.
func solveGaussian(a [][]float64, p int) ([]float64, error) {
	for col := 0; col < p; col++ {
		pivot := col
		for row := col + 1; row < p; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errSingularSystem
		}
		a[col], a[pivot] = a[pivot], a[col]

		inv := 1.0 / a[col][col]
		for row := col + 1; row < p; row++ {
			factor := a[row][col] * inv
			if factor == 0 {
				continue
			}
			for k := col; k <= p; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	w := make([]float64, p)
	for col := p - 1; col >= 0; col-- {
		sum := a[col][p]
		for k := col + 1; k < p; k++ {
			sum -= a[col][k] * w[k]
		}
		w[col] = sum / a[col][col]
	}
	return w, nil
}
