package docio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/dsl"
)

func sample() *domain.Canvas {
	b := dsl.New("c1").Name("Agua")
	b.Start("start").Go("q")
	b.Decision("q").Choice("si", "Sí").Choice("no", "No").When("si", "wait").When("no", "fin")
	b.Delay("wait", 30).Go("fin")
	b.End("fin")
	doc := b.Build()
	doc.Meta = map[string]any{domain.MetaCreatedAt: "2024-05-01T12:00:00Z"}
	return doc
}

func TestCanvasRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, YAML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(sample(), f)
			require.NoError(t, err)

			got, err := ReadCanvas(bytes.NewReader(data), f)
			require.NoError(t, err)

			want, err := ReadCanvas(strings.NewReader(mustJSON(t, sample())), JSON)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := Encode(v, JSON)
	require.NoError(t, err)
	return string(data)
}

func TestEncodeYAML_BlockStyle(t *testing.T) {
	data, err := Encode(sample(), YAML)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "version: \"1.0\"\ncanvas_id: c1\n"), out)
	assert.Contains(t, out, "created_at: \"2024-05-01T12:00:00Z\"", "timestamp-like strings stay strings")
	assert.NotContains(t, out, "{\"")
}

func TestReadRecorrido_KeepsStepOrder(t *testing.T) {
	src := `
id: r1
entry_step_id: zeta
steps:
  zeta:
    screen_template_id: blank
    props: {}
  alfa:
    screen_template_id: ending
    props: {}
edges:
  - from_step_id: zeta
    to_step_id: alfa
    condition: {type: always}
`
	rec, err := ReadRecorrido(strings.NewReader(src), YAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alfa"}, rec.StepIDs())
	require.Len(t, rec.Edges, 1)
	assert.True(t, rec.Edges[0].Always())

	data, err := Encode(rec, JSON)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(data), `"zeta"`), strings.Index(string(data), `"alfa"`))
}

func TestReadRecorrido_EmptySteps(t *testing.T) {
	rec, err := ReadRecorrido(strings.NewReader(`{"entry_step_id": ""}`), JSON)
	require.NoError(t, err)
	assert.NotNil(t, rec.Steps)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, YAML, FormatFor("a/b.YML"))
	assert.Equal(t, JSON, FormatFor("doc"))

	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLoadCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	data, err := Encode(sample(), YAML)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	doc, err := LoadCanvas(path)
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.ID)

	_, err = LoadCanvas(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadCanvas(bad)
	assert.ErrorContains(t, err, "bad.json")
}
