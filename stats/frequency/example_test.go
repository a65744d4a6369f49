package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-tvd/stats/frequency"
)

func ExampleFlatness() {
	fmt.Printf("%.2f\n", frequency.Flatness([]float64{0, 1, 4}))

	// Output:
	// 0.80
}

func ExamplePowerSpectrum() {
	power, err := frequency.PowerSpectrum([]float64{1, 1, 1, 1})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(power), power[0])

	// Output:
	// 3 4
}
