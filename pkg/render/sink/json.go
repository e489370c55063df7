package sink

import (
	"encoding/json"

	"github.com/matzehuels/cellbars/pkg/render"
)

type jsonOutput struct {
	Title   string       `json:"title,omitempty"`
	Rows    int          `json:"rows"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name  string         `json:"name"`
	Kind  string         `json:"kind"` // "bars" or "text"
	Cells []jsonFragment `json:"cells,omitempty"`
	Text  []string       `json:"text,omitempty"`
}

type jsonFragment struct {
	Kind       string         `json:"kind"`
	Text       string         `json:"text,omitempty"`
	Width      float64        `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Fill       string         `json:"fill,omitempty"`
	Background string         `json:"background,omitempty"`
	Color      string         `json:"color,omitempty"`
	Align      string         `json:"align,omitempty"`
	Code       string         `json:"code,omitempty"`
	Children   []jsonFragment `json:"children,omitempty"`
}

// RenderJSON exports the table's fragment trees as indented JSON. Bar
// columns list one tree per row; text columns list their raw strings.
func RenderJSON(t Table, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)

	out := jsonOutput{
		Title:   o.title,
		Rows:    t.Rows(),
		Columns: make([]jsonColumn, 0, len(t.Columns)),
	}
	for _, c := range t.Columns {
		jc := jsonColumn{Name: c.Name, Kind: "text", Text: c.Text}
		if c.IsBar() {
			jc.Kind = "bars"
			jc.Text = nil
			jc.Cells = make([]jsonFragment, len(c.Cells))
			for i, f := range c.Cells {
				jc.Cells[i] = toJSONFragment(f)
			}
		}
		out.Columns = append(out.Columns, jc)
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONFragment(f render.Fragment) jsonFragment {
	jf := jsonFragment{
		Kind:       f.Kind.String(),
		Text:       f.Text,
		Width:      f.Style.Width,
		Height:     f.Style.Height,
		Fill:       f.Style.Fill,
		Background: f.Style.Background,
		Color:      f.Style.Color,
		Align:      string(f.Style.Align),
		Code:       string(f.Code),
	}
	if len(f.Children) > 0 {
		jf.Children = make([]jsonFragment, len(f.Children))
		for i, c := range f.Children {
			jf.Children[i] = toJSONFragment(c)
		}
	}
	return jf
}
