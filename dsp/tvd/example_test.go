package tvd_test

import (
	"fmt"

	"github.com/cwbudde/algo-tvd/dsp/tvd"
)

func ExampleSolve() {
	// Three noisy levels near 1, 2 and 3.
	y := []float64{1, 1.1, 0.9, 1.1, 0.95, 2.1, 1.95, 2.0, 2.05, 3.11, 2.99, 3.05, 3.0}

	res, err := tvd.Solve(y, []float64{2, 1})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("lambda_max=%.4f\n", res.LambdaMax)
	for _, sol := range res.Path {
		var mean float64
		for _, v := range sol.X {
			mean += v
		}
		mean /= float64(len(sol.X))
		fmt.Printf("lambda=%g solved=%v mean=%.4f\n", sol.Lambda, sol.Solved, mean)
	}

	// Output:
	// lambda_max=4.6808
	// lambda=2 solved=true mean=1.9462
	// lambda=1 solved=true mean=1.9462
}

func ExampleLambdaMax() {
	lmax, _ := tvd.LambdaMax([]float64{1, 3})
	fmt.Printf("%.2f\n", lmax)

	// Output:
	// 1.00
}

func ExampleNewSolver() {
	y := []float64{0, 0, 0, 5, 5, 5}

	s, err := tvd.NewSolver(y, tvd.WithTolerance(1e-6))
	if err != nil {
		fmt.Println(err)
		return
	}
	st := s.NewState()

	// Beyond lambda_max every sample becomes the mean.
	sol, _ := s.SolveLambda(st, 2*s.LambdaMax())
	fmt.Printf("lambda_max=%.1f first=%.2f last=%.2f\n", s.LambdaMax(), sol.X[0], sol.X[len(sol.X)-1])

	// Output:
	// lambda_max=7.5 first=2.50 last=2.50
}
