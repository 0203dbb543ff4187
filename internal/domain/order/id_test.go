package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemID_TaggedSpaces(t *testing.T) {
	p := PersistentID(7)
	tmp := NewTemporaryID()

	assert.False(t, p.IsTemporary())
	assert.True(t, tmp.IsTemporary())
	assert.False(t, p.IsZero())
	assert.False(t, tmp.IsZero())
	assert.True(t, ItemID{}.IsZero())

	n, ok := p.Persistent()
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = tmp.Persistent()
	assert.False(t, ok)
}

func TestItemID_SubmissionID(t *testing.T) {
	p := PersistentID(42)
	require.NotNil(t, p.SubmissionID())
	assert.Equal(t, int64(42), *p.SubmissionID())

	// Temporary identifiers are omitted so the upstream treats the
	// record as an insert.
	assert.Nil(t, NewTemporaryID().SubmissionID())
	assert.Nil(t, ItemID{}.SubmissionID())
}

func TestItemID_Less(t *testing.T) {
	assert.True(t, PersistentID(1).Less(PersistentID(2)))
	assert.False(t, PersistentID(2).Less(PersistentID(1)))

	// Persistent identifiers order before temporary ones
	tmp := NewTemporaryID()
	assert.True(t, PersistentID(999).Less(tmp))
	assert.False(t, tmp.Less(PersistentID(1)))
}

func TestItemID_StringRoundTrip(t *testing.T) {
	for _, id := range []ItemID{PersistentID(7), NewTemporaryID(), {}} {
		parsed, err := ParseItemID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParseItemID_Invalid(t *testing.T) {
	for _, s := range []string{"7", "p:", "p:abc", "p:-1", "p:0", "t:not-a-uuid", "x:1"} {
		_, err := ParseItemID(s)
		assert.Error(t, err, s)
	}
}

func TestItemID_JSON(t *testing.T) {
	id := PersistentID(12)
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"p:12"`, string(data))

	var decoded ItemID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}
