package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPairOrdersLexicographically(t *testing.T) {
	a, b := CanonicalPair("bob", "alice")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)

	a, b = CanonicalPair("alice", "bob")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)
}

func TestPairKeyForIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKeyFor("alice", "bob"), PairKeyFor("bob", "alice"))
	assert.Equal(t, "PAIR#alice|bob", PairKeyFor("bob", "alice"))
}

func TestFlagAndDislikeAccessorsPickTheRightSide(t *testing.T) {
	m := Match{ProfileA: "alice", ProfileB: "bob"}

	m.SetFlag("bob", true)
	assert.False(t, m.ALiked)
	assert.True(t, m.BLiked)
	assert.True(t, m.FlagFor("bob"))
	assert.False(t, m.FlagFor("alice"))

	m.SetDislike("alice", true)
	assert.True(t, m.DislikedBy("alice"))
	assert.False(t, m.DislikedBy("bob"))

	assert.Equal(t, "bob", m.OtherParty("alice"))
	assert.Equal(t, "alice", m.OtherParty("bob"))
	assert.True(t, m.IsParty("alice"))
	assert.False(t, m.IsParty("mallory"))
}

func TestNormalizeKeywordSet(t *testing.T) {
	got := NormalizeKeywordSet([]string{" Hiking", "coffee", "HIKING", "", "  "})
	assert.Equal(t, []string{"hiking", "coffee"}, got)
	assert.Empty(t, NormalizeKeywordSet(nil))
}
