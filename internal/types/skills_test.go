//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSet_ZeroValueUsable(t *testing.T) {
	var s SkillSet
	assert.Equal(t, 0, s.Len())
	s.Set("Go", []string{"goroutines"})
	assert.Equal(t, []string{"Go"}, s.Categories())
}

func TestSkillSet_SetPreservesOrder(t *testing.T) {
	s := SkillSetOf(
		SkillCategory{Name: "Frontend", Skills: []string{"React"}},
		SkillCategory{Name: "Backend", Skills: []string{"Go"}},
	)
	s.Set("Frontend", []string{"Vue"})

	assert.Equal(t, []string{"Frontend", "Backend"}, s.Categories())
	got, ok := s.Get("Frontend")
	require.True(t, ok)
	assert.Equal(t, []string{"Vue"}, got)
}

func TestSkillSet_Delete(t *testing.T) {
	s := SkillSetOf(
		SkillCategory{Name: "A", Skills: []string{"1"}},
		SkillCategory{Name: "B", Skills: []string{"2"}},
	)
	s.Delete("A")
	s.Delete("missing")

	assert.Equal(t, []string{"B"}, s.Categories())
	assert.False(t, s.Has("A"))
}

func TestSkillSet_Rename(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		wantOrder []string
		wantTo    []string
	}{
		{
			name:      "new name takes old position",
			from:      "A",
			to:        "Z",
			wantOrder: []string{"Z", "B", "C"},
			wantTo:    []string{"1"},
		},
		{
			name:      "existing target is overwritten",
			from:      "A",
			to:        "C",
			wantOrder: []string{"B", "C"},
			wantTo:    []string{"1"},
		},
		{
			name:      "missing source is a no-op",
			from:      "missing",
			to:        "B",
			wantOrder: []string{"A", "B", "C"},
			wantTo:    []string{"2"},
		},
		{
			name:      "same name is a no-op",
			from:      "B",
			to:        "B",
			wantOrder: []string{"A", "B", "C"},
			wantTo:    []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SkillSetOf(
				SkillCategory{Name: "A", Skills: []string{"1"}},
				SkillCategory{Name: "B", Skills: []string{"2"}},
				SkillCategory{Name: "C", Skills: []string{"3"}},
			)
			s.Rename(tt.from, tt.to)

			assert.Equal(t, tt.wantOrder, s.Categories())
			got, ok := s.Get(tt.to)
			require.True(t, ok)
			assert.Equal(t, tt.wantTo, got)
		})
	}
}

func TestSkillSet_GetReturnsCopy(t *testing.T) {
	s := SkillSetOf(SkillCategory{Name: "A", Skills: []string{"1"}})
	got, _ := s.Get("A")
	got[0] = "changed"

	again, _ := s.Get("A")
	assert.Equal(t, []string{"1"}, again)
}

func TestSkillSet_JSONKeepsOrder(t *testing.T) {
	input := `{"Zeta":["z"],"Alpha":["a","b"],"Mid":[]}`

	var s SkillSet
	require.NoError(t, json.Unmarshal([]byte(input), &s))
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, s.Categories())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, input, string(out))
}

func TestSkillSet_UnmarshalRejectsNonObject(t *testing.T) {
	var s SkillSet
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"A":"not a list"}`), &s))
}

func TestSkillSet_Equal(t *testing.T) {
	a := SkillSetOf(SkillCategory{Name: "A", Skills: []string{"1"}}, SkillCategory{Name: "B"})
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Set("A", []string{"2"})
	assert.False(t, a.Equal(b))

	c := SkillSetOf(SkillCategory{Name: "B"}, SkillCategory{Name: "A", Skills: []string{"1"}})
	assert.False(t, a.Equal(c))
}
