package logic

import (
	"math"
	"math/rand"
	"testing"
)

func TestRidgeRecoversLinearSignal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// y = 3 + 2*x0 - 1.5*x1 + small noise
	n := 400
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := rng.NormFloat64() * 2
		x1 := rng.NormFloat64() * 3
		x[i] = []float64{x0, x1}
		y[i] = 3 + 2*x0 - 1.5*x1 + rng.NormFloat64()*0.01
	}

	reg := newRidgeRegression(0.001)
	if err := reg.fit(x, y); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		x0 := rng.NormFloat64() * 2
		x1 := rng.NormFloat64() * 3
		want := 3 + 2*x0 - 1.5*x1
		got := reg.predict([]float64{x0, x1})
		if math.Abs(got-want) > 0.1 {
			t.Fatalf("predict(%v, %v) = %v, want ~%v", x0, x1, got, want)
		}
	}
}

func TestRidgeConstantColumn(t *testing.T) {
	// A constant feature must not blow up standardization, and must carry
	// zero weight after centering.
	x := [][]float64{
		{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}, {6, 7},
	}
	y := []float64{2, 4, 6, 8, 10, 12}

	reg := newRidgeRegression(0.001)
	if err := reg.fit(x, y); err != nil {
		t.Fatal(err)
	}

	if math.Abs(reg.weights[1]) > 1e-9 {
		t.Errorf("constant column weight = %v, want 0", reg.weights[1])
	}
	if got := reg.predict([]float64{3.5, 7}); math.Abs(got-7) > 0.05 {
		t.Errorf("predict at center = %v, want ~7", got)
	}
}

func TestRidgeCorrelatedFeatures(t *testing.T) {
	// Perfectly correlated columns make plain least squares singular; the
	// ridge penalty must keep the solve stable.
	rng := rand.New(rand.NewSource(11))

	n := 200
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := rng.NormFloat64()
		x[i] = []float64{v, v}
		y[i] = 4 * v
	}

	reg := newRidgeRegression(1.0)
	if err := reg.fit(x, y); err != nil {
		t.Fatalf("ridge failed on correlated design: %v", err)
	}

	got := reg.predict([]float64{1, 1})
	if math.Abs(got-4) > 0.2 {
		t.Errorf("predict(1,1) = %v, want ~4", got)
	}
}

func TestRidgeEmptyInput(t *testing.T) {
	reg := newRidgeRegression(1.0)
	if err := reg.fit(nil, nil); err == nil {
		t.Error("expected error on empty training data")
	}
	if err := reg.fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Error("expected error on mismatched lengths")
	}
}
