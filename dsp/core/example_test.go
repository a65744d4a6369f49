package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-tvd/dsp/core"
)

func ExampleEnsureLen() {
	buf := make([]float64, 0, 16)
	buf = core.EnsureLen(buf, 8)
	core.Fill(buf, 1)

	fmt.Println(len(buf), cap(buf), core.Mean(buf))

	// Output:
	// 8 16 1
}

func ExamplePowerRatioDB() {
	fmt.Printf("%.1f dB\n", core.PowerRatioDB(1, 0.01))

	// Output:
	// 20.0 dB
}
