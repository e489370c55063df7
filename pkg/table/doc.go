// Package table reads tabular input for bar rendering and binds columns to
// renderer configurations.
//
// [ReadCSV] loads a CSV file whose header row names the columns. Every cell
// keeps its raw text and is also parsed into a [bar.Value], so any column
// can be rendered as bars while text columns still display verbatim.
//
// A column spec file selects which columns become bars and how they look:
//
//	[[column]]
//	name = "change"
//	style = "pos_neg"
//	colors = ["#ff3030", "#ffffff", "#1e90ff"]
//	percent = true
//
// [LoadSpec] decodes and validates such a file. The same spec can be
// written in YAML with the entries under a "columns" key; [LoadSpecFile]
// chooses the decoder by file extension. [DefaultSpec] binds plain
// bars to every numeric column when no spec is given.
package table
