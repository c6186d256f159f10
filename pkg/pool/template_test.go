package pool_test

import (
	"testing"

	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConvertTemplate(t *testing.T) {
	p := newPool(t)
	require.NoError(t, p.Add(pool.Selector{"node1", "name"}, "Ada"))
	require.NoError(t, p.Add(pool.Selector{"node1", "count"}, 3))

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"resolved", "Hello {{#node1.name#}}!", "Hello Ada!"},
		{"unresolved renders empty", "Hello {{#env.missing#}}!", "Hello !"},
		{"number", "{{#node1.count#}} items", "3 items"},
		{"system scope", "Q: {{#sys.query#}}", "Q: what is the weather?"},
		{"adjacent", "{{#node1.name#}}{{#node1.count#}}", "Ada3"},
		{"no placeholders", "plain text", "plain text"},
		{"malformed stays literal", "{{#node1#}} {{node1.name}}", "{{#node1#}} {{node1.name}}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ConvertTemplateText(tt.template))
		})
	}
}

func TestConvertTemplate_Segments(t *testing.T) {
	p := newPool(t)
	require.NoError(t, p.Add(pool.Selector{"node1", "items"}, []any{"a", "b"}))

	group := p.ConvertTemplate("List:\n{{#node1.items#}}\nend")
	parts := group.Segments()
	require.Len(t, parts, 3)
	assert.Equal(t, segment.KindString, parts[0].Kind())
	assert.Equal(t, segment.KindArray, parts[1].Kind())
	assert.Equal(t, segment.KindString, parts[2].Kind())
	assert.Equal(t, "List:\n- a\n- b\nend", group.Markdown())
}

func TestConvertTemplate_FileAttribute(t *testing.T) {
	p := newPool(t)
	require.NoError(t, p.Add(pool.Selector{"upload", "doc"}, testFile()))

	assert.Equal(t, "got report.pdf (2048 bytes)", p.ConvertTemplateText("got {{#upload.doc.name#}} ({{#upload.doc.size#}} bytes)"))
}

func TestReferences(t *testing.T) {
	refs := pool.References("{{#a.b#}} and {{#sys.query#}} but not {{#x#}}")
	assert.Equal(t, []pool.Selector{{"a", "b"}, {"sys", "query"}}, refs)
	assert.Empty(t, pool.References("nothing"))
}

func TestProperty_TemplateWithoutPlaceholdersIsIdentity(t *testing.T) {
	p := newPool(t)
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[^{}#]*`).Draw(rt, "text")
		assert.Equal(rt, text, p.ConvertTemplateText(text))
	})
}
