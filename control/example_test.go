package control_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/control"
)

func ExamplePitch() {
	p, err := control.NewPitch(1)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := p.Set(-2); err != nil {
		fmt.Println(err)
	}
	_ = p.SetSemitones(12)
	fmt.Printf("%.2f\n", p.Get())

	// Output:
	// control: invalid pitch ratio: -2
	// 2.00
}
