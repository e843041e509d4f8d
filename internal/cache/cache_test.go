package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen"
)

func Test_Key_isStableAndContentAddressed(t *testing.T) {
	a := Key("S -> a;")
	b := Key("S -> a;")
	c := Key("S -> b;")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func Test_Cache_putThenGet_roundTrips(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if !assert.NoError(t, err) {
		return
	}

	entry := Entry{
		Key:         Key("S -> a;"),
		GrammarText: "S -> a;",
		Result: ll1gen.GenerationResult{
			Source:       "package gen\n",
			Terminals:    []string{"a"},
			Nonterminals: []string{"S"},
			First:        map[string][]string{"S": {"a"}},
			Follow:       map[string][]string{"S": {"Eof"}},
			Table: []ll1gen.TableRow{
				{
					Nonterminal: "S",
					Predictions: []ll1gen.Prediction{
						{Lookahead: "a", Alternative: 0, Body: []string{"a"}},
					},
				},
			},
		},
		Created: time.Unix(1700000000, 0),
	}

	if !assert.NoError(t, c.Put(entry)) {
		return
	}

	got, err := c.Get(entry.Key)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, entry, got)
}

func Test_Cache_get_missReturnsErrMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	if !assert.NoError(t, err) {
		return
	}

	_, err = c.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrMiss)
}

func Test_Cache_delete_removesEntry(t *testing.T) {
	c, err := Open(t.TempDir())
	if !assert.NoError(t, err) {
		return
	}

	entry := Entry{Key: Key("S -> a;"), GrammarText: "S -> a;"}
	if !assert.NoError(t, c.Put(entry)) {
		return
	}
	if !assert.NoError(t, c.Delete(entry.Key)) {
		return
	}

	_, err = c.Get(entry.Key)
	assert.ErrorIs(t, err, ErrMiss)
}
