package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/lienzo/pkg/analysis"
	"github.com/aretw0/lienzo/pkg/dsl"
	"github.com/aretw0/lienzo/pkg/validate"
)

func TestMarkdown(t *testing.T) {
	b := dsl.New("c1").Name("Agua")
	b.Start("start").Go("a")
	b.Screen("a", "blank").Go("ghost")
	doc := b.Build()

	res := validate.Canvas(doc)
	rep := analysis.Analyze(doc)
	md := Markdown(Input{
		Canvas:      doc,
		Validation:  &res,
		Analysis:    &rep,
		Suggestions: analysis.Suggest(doc, &rep),
	})

	assert.True(t, strings.HasPrefix(md, "# Agua (c1)\n"))
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "### Errors")
	assert.Contains(t, md, "## Suggestions")
	assert.Contains(t, md, "[high] **intention**")
}

func TestMarkdown_Clean(t *testing.T) {
	res := validate.Result{OK: true}
	md := Markdown(Input{Validation: &res})

	assert.Contains(t, md, "# canvas")
	assert.Contains(t, md, "No issues found.")
	assert.NotContains(t, md, "## Summary")
	assert.NotContains(t, md, "## Suggestions")
}

func TestRenderer_Plain(t *testing.T) {
	out, err := NewRenderer(false)("# x\n")
	assert.NoError(t, err)
	assert.Equal(t, "# x\n", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "lienzo dev")
	assert.Contains(t, buf.String(), "lienzo dev")
}
