package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

func TestLoad_BundledContent(t *testing.T) {
	c, err := Load("../content", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, c.Cards)
	assert.NotEmpty(t, c.Agendas)

	var postman *types.CardDef
	for i := range c.Cards {
		if c.Cards[i].Title == "Night Postman" {
			postman = &c.Cards[i]
		}
	}
	require.NotNil(t, postman)
	assert.Equal(t, 2, postman.Count)
	assert.Equal(t, state.DiscardImmediate, postman.DiscardCondition)
	require.Len(t, postman.Effects, 1)
	assert.Equal(t, "ArmDelayedEffect", postman.Effects[0].Type)
	assert.Equal(t, true, postman.Effects[0].Params["self_discard_on_trigger"])
}

func TestLoad_BundledContentBuildsCleanly(t *testing.T) {
	c, err := Load("../content", nil)
	require.NoError(t, err)

	deck, agendas := Build(c, rng.New(1), nil)

	want := 0
	for _, def := range c.Cards {
		want += def.Count
	}
	assert.Equal(t, want, deck.Size())
	for _, card := range deck.DrawPile {
		assert.NotEmpty(t, card.Effects, "card %q lost all its effects", card.Title)
	}
	for _, a := range agendas.Cards {
		assert.NotEmpty(t, a.Conditions, "agenda %q lost its conditions", a.Title)
		assert.NotEmpty(t, a.Rewards, "agenda %q lost its rewards", a.Title)
	}
}

func TestLoad_JSONContent(t *testing.T) {
	c, err := Load("testdata/json", nil)
	require.NoError(t, err, "unknown effect types and zero counts are warnings")

	require.Len(t, c.Cards, 3)
	assert.Equal(t, state.DiscardImmediate, c.Cards[0].DiscardCondition)
	assert.Equal(t, state.DiscardPersistent, c.Cards[1].DiscardCondition)
	assert.Equal(t, 2, c.Cards[1].Cost["food"])
	assert.Equal(t, []string{state.FlagTitle}, c.Cards[1].TypeFlags)
	assert.Equal(t, 0, c.Cards[2].Count)

	require.Len(t, c.Agendas, 2)
	assert.Equal(t, 1, c.Agendas[0].Count)
	assert.True(t, c.Agendas[0].DiscardToBox)
	assert.Equal(t, "Stand on an owner's cell.", c.Agendas[0].Objective)
	assert.True(t, c.Agendas[1].Persistent)
}

func TestBuild_SharedTemplatesFreshConditions(t *testing.T) {
	c, err := Load("testdata/json", nil)
	require.NoError(t, err)

	deck, agendas := Build(c, rng.New(4), nil)
	require.Equal(t, 3, deck.Size())

	var postmen []*state.Card
	for _, card := range deck.DrawPile {
		if card.Title == "Почтальон" {
			postmen = append(postmen, card)
		}
		if card.Title == "Гроза дворов" {
			assert.Len(t, card.Effects, 1, "unknown effect dropped, title effect kept")
		}
	}
	require.Len(t, postmen, 2)
	assert.NotEqual(t, postmen[0].ID, postmen[1].ID)
	assert.Same(t, postmen[0].CardTemplate, postmen[1].CardTemplate)

	var friends []*state.AgendaCard
	for _, a := range agendas.Cards {
		if a.Title == "Друг кухни" {
			friends = append(friends, a)
		}
	}
	require.Len(t, friends, 2)
	assert.NotSame(t, friends[0].Conditions[0], friends[1].Conditions[0])
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load("testdata/nope", nil)
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	c, err := LoadFiles("../content/cards.lua", "testdata/json/secret_agendas.json", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Cards)
	assert.Len(t, c.Agendas, 2)
}

func TestLoadString_LuaError(t *testing.T) {
	_, err := LoadString(`Card "Broken" {`, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "executing content"))
}

func TestLoadString_Sandboxed(t *testing.T) {
	for _, src := range []string{
		`dofile("x.lua")`,
		`loadstring("return 1")()`,
		`math.random(6)`,
		`os.exit(1)`,
		`io.write("x")`,
	} {
		_, err := LoadString(src, nil)
		assert.Error(t, err, src)
	}
}

func TestLoadString_ValidationErrors(t *testing.T) {
	_, err := LoadString(`
Card "Twin" { effects = { GainFood(1) } }
Card "Twin" { effects = { GainFood(2) } }
Card "Debt" { count = -1 }
`, nil)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Len(t, ve.Errors, 2)
}
