// Package ansi turns raw terminal output into styled text runs.
//
// Render runs a fixed pipeline over a complete blob of text:
//
//   - a Scanner splits the input into text, SGR, \r, \n and \b tokens;
//   - Style.Apply folds SGR parameters into the current style;
//   - each line resolves backspaces, then carriage-return overwrites;
//   - adjacent characters with equal style are merged into runs;
//   - optionally, URLs inside each run become link nodes.
//
// The result is a flat []Node where NodeBreak separates lines:
//
//	nodes := ansi.Render("hello \x1b[32mworld", ansi.Options{})
//	// [{text "hello "} {text "world" Fg: green}]
//
// Render is a pure function: it keeps no state between calls and never fails.
// Malformed escape sequences and unknown SGR codes pass through as text or are
// ignored.
//
// Present maps a Style to either CSS-like declarations or class names for a
// presentation layer; the package itself never produces markup.
package ansi
