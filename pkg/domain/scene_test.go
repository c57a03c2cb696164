package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := domain.NewCatalog()
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
	})

	t.Run("Blank Name", func(t *testing.T) {
		_, err := domain.NewCatalog(domain.Scene{Name: "a"}, domain.Scene{Name: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidScene)
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		_, err := domain.NewCatalog(domain.Scene{Name: "a"}, domain.Scene{Name: "b"}, domain.Scene{Name: "a"})
		assert.ErrorIs(t, err, domain.ErrDuplicateScene)
		assert.Contains(t, err.Error(), `"a" at #0 and #2`)
	})

	t.Run("Resolves Kinds", func(t *testing.T) {
		c, err := domain.NewCatalog(
			domain.Scene{Name: "Zinc Application"},
			domain.Scene{Name: "custom", Title: "Metal Competition"},
			domain.Scene{Name: "Something Else"},
		)
		require.NoError(t, err)
		s0, _ := c.At(0)
		s1, _ := c.At(1)
		s2, _ := c.At(2)
		assert.Equal(t, domain.KindZincApplication, s0.Kind)
		assert.Equal(t, domain.KindMetalCompetition, s1.Kind)
		assert.Equal(t, domain.KindUnknown, s2.Kind)
	})
}

func TestCatalog_At(t *testing.T) {
	c := domain.MustCatalog(domain.Scene{Name: "a"}, domain.Scene{Name: "b"})

	s, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, "b", s.Name)

	for _, i := range []int{-1, 2, 100} {
		_, err := c.At(i)
		assert.ErrorIs(t, err, domain.ErrOutOfRange, "index %d", i)
	}
}

func TestCatalog_IndexOfAndScenes(t *testing.T) {
	c := domain.MustCatalog(domain.Scene{Name: "a"}, domain.Scene{Name: "b"})

	i, ok := c.IndexOf("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = c.IndexOf("zzz")
	assert.False(t, ok)

	scenes := c.Scenes()
	scenes[0].Name = "mutated"
	first, _ := c.At(0)
	assert.Equal(t, "a", first.Name, "Scenes must return a copy")
}

func TestCatalog_MarshalJSON(t *testing.T) {
	c := domain.MustCatalog(domain.Scene{Name: "Healthy Growth", Icon: "leaf-outline"})
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Healthy Growth","description":"","icon":"leaf-outline","kind":"healthy_growth"}]`, string(data))
}

func TestMustCatalog_Panics(t *testing.T) {
	assert.Panics(t, func() { domain.MustCatalog() })
}

func TestScene_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Name", domain.Scene{Name: "Name"}.DisplayTitle())
	assert.Equal(t, "Title", domain.Scene{Name: "Name", Title: "Title"}.DisplayTitle())
}
