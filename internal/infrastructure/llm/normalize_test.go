package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("plain JSON passes through", func(t *testing.T) {
		out, ok := Normalize(`{"recommended_daily_calories": 2200}`)
		require.True(t, ok)
		assert.JSONEq(t, `{"recommended_daily_calories": 2200}`, string(out))
	})

	t.Run("strips fenced code block", func(t *testing.T) {
		raw := "```json\n{\"day1\": []}\n```"
		out, ok := Normalize(raw)
		require.True(t, ok)
		assert.JSONEq(t, `{"day1": []}`, string(out))
	})

	t.Run("strips fence without language tag", func(t *testing.T) {
		raw := "```\n{\"notes\": \"ok\"}\n```"
		out, ok := Normalize(raw)
		require.True(t, ok)
		assert.JSONEq(t, `{"notes": "ok"}`, string(out))
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		out, ok := Normalize("\n\n  {\"a\": 1}  \n")
		require.True(t, ok)
		assert.JSONEq(t, `{"a": 1}`, string(out))
	})

	t.Run("idempotent on normalized output", func(t *testing.T) {
		first, ok := Normalize("```json\n{\"a\": 1}\n```")
		require.True(t, ok)
		second, ok := Normalize(string(first))
		require.True(t, ok)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("prose is rejected", func(t *testing.T) {
		_, ok := Normalize("Sure! Here is your menu: breakfast at 8am")
		assert.False(t, ok)
	})

	t.Run("truncated JSON is rejected", func(t *testing.T) {
		_, ok := Normalize(`{"day1": [{"type": "breakfast"`)
		assert.False(t, ok)
	})

	t.Run("empty reply is rejected", func(t *testing.T) {
		_, ok := Normalize("")
		assert.False(t, ok)

		_, ok = Normalize("   \n\t ")
		assert.False(t, ok)
	})

	t.Run("fence with no content is rejected", func(t *testing.T) {
		_, ok := Normalize("```json\n```")
		assert.False(t, ok)
	})
}
