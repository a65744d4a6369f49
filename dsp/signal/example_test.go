package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-tvd/dsp/signal"
)

func ExampleSteps() {
	x, err := signal.Steps([]float64{0, 1}, []int{2, 3})
	if err != nil {
		panic(err)
	}
	fmt.Println(x)

	// Output:
	// [0 0 1 1 1]
}

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}
