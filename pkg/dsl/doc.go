/*
Package dsl provides a fluent builder for lienzo canvases.

It is used by tests, presets and tooling to declare a canvas in Go instead of
hand-writing JSON:

	b := dsl.New("welcome")
	b.Start("start").Go("intro")
	b.Screen("intro", "blank").Label("Introducción").Go("q")
	b.Decision("q").Choice("a", "Sí").Choice("b", "No").When("a", "yes").When("b", "fin")
	b.Screen("yes", "blank").Go("fin")
	b.End("fin")
	doc := b.Build()

Build performs no validation; run the result through the validate package.
*/
package dsl
