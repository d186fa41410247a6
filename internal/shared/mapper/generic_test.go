package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{}, MapSlice([]int{}, strconv.Itoa))
	assert.Equal(t, []string{"1", "2", "3"}, MapSlice([]int{1, 2, 3}, strconv.Itoa))
}

func TestMapSliceWithError(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		result, err := MapSliceWithError[string, int](nil, strconv.Atoi)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("all rows map", func(t *testing.T) {
		result, err := MapSliceWithError([]string{"4", "5"}, strconv.Atoi)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5}, result)
	})

	t.Run("stops at the first bad row", func(t *testing.T) {
		var numErr *strconv.NumError

		result, err := MapSliceWithError([]string{"4", "x", "y"}, strconv.Atoi)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "item 1")
		assert.True(t, errors.As(err, &numErr))
	})
}
