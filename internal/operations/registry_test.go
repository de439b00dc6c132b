package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStage is a minimal Step for registry and manager tests. ExecuteFunc
// and ValidateFunc default to success when nil.
type mockStage struct {
	BaseStage
	ExecuteFunc  func(ctx context.Context, state *OperationState) error
	ValidateFunc func(state *OperationState) error
}

func newMockStage(id string, deps ...string) *mockStage {
	return &mockStage{BaseStage: NewBaseStage(id, "Mock "+id, deps)}
}

func (m *mockStage) Execute(ctx context.Context, state *OperationState) error {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

func (m *mockStage) Validate(state *OperationState) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(state)
	}
	return nil
}

func orderedIDs(steps []Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, 0, registry.Count())

	require.NoError(t, registry.Register(newMockStage("load")))
	require.NoError(t, registry.Register(newMockStage("clean", "load")))

	assert.Equal(t, 2, registry.Count())
	assert.True(t, registry.Has("load"))
	assert.False(t, registry.Has("summarize"))
	assert.Equal(t, []string{"load", "clean"}, registry.ListIDs())

	step, err := registry.Get("clean")
	require.NoError(t, err)
	assert.Equal(t, "clean", step.ID())

	_, err = registry.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(nil)
	assert.ErrorContains(t, err, "nil step")

	err = registry.Register(newMockStage(""))
	assert.ErrorContains(t, err, "cannot be empty")

	require.NoError(t, registry.Register(newMockStage("load")))
	err = registry.Register(newMockStage("load"))
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newMockStage("a")))
	require.NoError(t, registry.Register(newMockStage("b")))

	listed := registry.List()
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].ID())
	assert.Equal(t, "b", listed[1].ID())
}

func TestRegistry_GetDependencyOrder(t *testing.T) {
	tests := []struct {
		name      string
		steps     []*mockStage
		wantOrder []string
		wantErr   string
	}{
		{
			name:      "no dependencies keeps registration order",
			steps:     []*mockStage{newMockStage("a"), newMockStage("b"), newMockStage("c")},
			wantOrder: []string{"a", "b", "c"},
		},
		{
			name: "linear chain",
			steps: []*mockStage{
				newMockStage("load"),
				newMockStage("clean", "load"),
				newMockStage("summarize", "clean"),
			},
			wantOrder: []string{"load", "clean", "summarize"},
		},
		{
			name: "diamond resolves with registration-order ties",
			steps: []*mockStage{
				newMockStage("clean"),
				newMockStage("summarize", "clean"),
				newMockStage("export", "clean", "summarize"),
				newMockStage("charts", "summarize"),
			},
			wantOrder: []string{"clean", "summarize", "export", "charts"},
		},
		{
			name: "dependents wait for late-registered dependency",
			steps: []*mockStage{
				newMockStage("export", "summarize"),
				newMockStage("summarize"),
			},
			wantOrder: []string{"summarize", "export"},
		},
		{
			name: "missing dependency",
			steps: []*mockStage{
				newMockStage("clean", "load"),
			},
			wantErr: "non-existent step",
		},
		{
			name: "cycle detected",
			steps: []*mockStage{
				newMockStage("a", "b"),
				newMockStage("b", "a"),
			},
			wantErr: "cycle detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for _, step := range tt.steps {
				require.NoError(t, registry.Register(step))
			}

			ordered, err := registry.GetDependencyOrder()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, orderedIDs(ordered))
		})
	}
}

func TestRegistry_ValidateDependencies(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newMockStage("load")))
	require.NoError(t, registry.Register(newMockStage("clean", "load")))

	assert.NoError(t, registry.ValidateDependencies())

	require.NoError(t, registry.Register(newMockStage("export", "summarize")))
	assert.ErrorContains(t, registry.ValidateDependencies(), "non-existent step")
}
