package fixture_test

import (
	"testing"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/internal/fixture"
	"github.com/aretw0/weft/pkg/coordinator"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	f, err := fixture.Load("testdata/chat.yaml")
	require.NoError(t, err)

	assert.Equal(t, "support-bot", f.Workflow.ID)
	assert.Equal(t, domain.WorkflowTypeChat, f.Workflow.Type)
	assert.Equal(t, domain.UserFromEndUser, f.User.From)
	assert.Equal(t, domain.InvokeFromWebApp, f.InvokeFrom)
	require.Len(t, f.Variables, 2)

	run, err := f.Start(weft.WithRunID("chat-1"))
	require.NoError(t, err)
	p := run.State.Pool()

	assert.Equal(t, "Where is my order? (shipped)", p.ConvertTemplateText("{{#sys.query#}} ({{#lookup.status#}})"))
	assert.Equal(t, "help@example.test", p.ConvertTemplateText("{{#env.support_email#}}"))
	assert.Equal(t, "en", p.ConvertTemplateText("{{#conversation.language#}}"))
	assert.Equal(t, "3", p.ConvertTemplateText("{{#sys.dialogue_count#}}"))
	assert.Equal(t, "A-1009", p.UserInputs()["order_id"])

	file, ok := p.GetFile(pool.Selector{"upload", "invoice"})
	require.True(t, ok)
	assert.Equal(t, int64(5120), file.File().Size)

	ext, ok := p.Get(pool.Selector{"upload", "invoice", "extension"})
	require.True(t, ok)
	assert.Equal(t, ".pdf", ext.Text())
}

func TestLoad_JSONDefaults(t *testing.T) {
	f, err := fixture.Load("testdata/run.json")
	require.NoError(t, err)
	assert.Equal(t, domain.UserFromAccount, f.User.From)
	assert.Equal(t, domain.InvokeFromDebugger, f.InvokeFrom)

	run, err := f.Start()
	require.NoError(t, err)
	rows, ok := run.State.Pool().Get(pool.Selector{"extract", "rows"})
	require.True(t, ok)
	assert.Equal(t, segment.KindArray, rows.Kind())
}

func TestLoad_Missing(t *testing.T) {
	_, err := fixture.Load("testdata/absent.yaml")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "workflow: [unterminated"},
		{"unknown field", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\nextra: 1"},
		{"bad user from", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\nuser: {from: robot}"},
		{"bad invoke from", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\ninvoke_from: cron"},
		{"negative depth", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\ncall_depth: -1"},
		{"short selector", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\nvariables: [{selector: node, value: 1}]"},
		{"empty selector", "workflow: {id: a, tenant_id: t, app_id: x, type: chat}\nvariables: [{value: 1}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownSystemKey(t *testing.T) {
	_, err := fixture.Parse([]byte("workflow: {id: a, tenant_id: t, app_id: x, type: chat}\nsystem: {mood: happy}"))
	assert.ErrorIs(t, err, fixture.ErrUnknownSystemKey)
}

func TestParse_IncompleteWorkflow(t *testing.T) {
	_, err := fixture.Parse([]byte("workflow: {id: a, type: chat}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TenantID")
}

func TestStart_BadOutputLeavesNoRun(t *testing.T) {
	f, err := fixture.Load("testdata/chat.yaml")
	require.NoError(t, err)
	f.Variables = append(f.Variables, fixture.Variable{Selector: "lookup.channel", Value: make(chan int)})

	c := coordinator.New()
	_, err = f.Start(weft.WithCoordinator(c), weft.WithRunID("bad-output"))
	require.ErrorIs(t, err, segment.ErrUnsupportedValue)
	assert.Empty(t, c.Runs())

	f.Variables = append(f.Variables[:len(f.Variables)-1], fixture.Variable{Selector: "short", Value: "x"})
	_, err = f.Start(weft.WithCoordinator(c), weft.WithRunID("bad-selector"))
	require.ErrorIs(t, err, domain.ErrInvalidSelector)
	assert.Empty(t, c.Runs())

	f.Variables = f.Variables[:len(f.Variables)-1]
	run, err := f.Start(weft.WithCoordinator(c), weft.WithRunID("good"))
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, c.Runs())
	assert.Equal(t, "shipped", run.State.Pool().ConvertTemplateText("{{#lookup.status#}}"))
}
