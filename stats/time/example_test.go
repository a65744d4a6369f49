package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-tvd/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f zc=%d\n", s.RMS, s.ZeroCrossings)

	// Output:
	// rms=1.0 zc=3
}

func ExampleMedian() {
	fmt.Println(timestats.Median([]float64{5, 1, 4, 2}))

	// Output:
	// 3
}
