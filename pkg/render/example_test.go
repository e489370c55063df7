package render_test

import (
	"fmt"

	"github.com/matzehuels/cellbars/pkg/bar"
	"github.com/matzehuels/cellbars/pkg/render"
)

func ExampleDataBars() {
	r, err := render.DataBars(render.Config{Commas: true})
	if err != nil {
		panic(err)
	}
	values := bar.Floats(1000, 2500, 5000)
	col := r.Prepare(values)

	for i, v := range values {
		f := col.Cell(v, render.RowContext{Index: i})
		b, _ := f.Bar()
		fmt.Printf("%-6s %5.1f%% %s\n", f.Label(), b.Style.Width, b.Style.Fill)
	}
	// Output:
	// 1,000   20.0% #1e90ff
	// 2,500   50.0% #1e90ff
	// 5,000  100.0% #1e90ff
}

func ExamplePosNegBars() {
	r, err := render.PosNegBars(render.Config{
		Colors:  []string{"#ff0000", "#0000ff"},
		Percent: true,
	})
	if err != nil {
		panic(err)
	}
	col := r.Prepare(bar.Floats(-0.5, 0.25))

	for _, v := range []float64{-0.5, 0.25} {
		f := col.Cell(bar.Number(v), render.RowContext{})
		neg, pos := f.Children[0], f.Children[1]
		fmt.Println(f.Label(), len(neg.Children), len(pos.Children))
	}
	// Output:
	// -50% 1 0
	// 25% 0 1
}
