package guid

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaselineKey(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLegacy bool
		wantID     string
		wantEpoch  uint64
	}{
		{
			name:       "legacy key",
			input:      "ff0000000a",
			wantLegacy: true,
			wantID:     "0000000a",
		},
		{
			name:      "modern key",
			input:     "{1000014,1709026242}",
			wantID:    "1000014",
			wantEpoch: 1709026242,
		},
		{
			name:   "live working copy",
			input:  "{null,0}",
			wantID: "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk, err := ParseBaselineKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLegacy, bk.IsLegacy())
			assert.Equal(t, tt.wantID, bk.ID())
			assert.Equal(t, tt.wantEpoch, bk.Epoch())
			assert.False(t, bk.IsZero())
		})
	}

	t.Run("legacy path does not validate length", func(t *testing.T) {
		bk, err := ParseBaselineKey("ff1")
		require.NoError(t, err)
		assert.True(t, bk.IsLegacy())
		assert.Equal(t, "1", bk.ID())
	})

	t.Run("invalid shapes", func(t *testing.T) {
		for _, input := range []string{"", "1000014", "{1000014}", "{a,b,c}", "{null,abc}", "(null,0)"} {
			_, err := ParseBaselineKey(input)
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr, "input %q", input)
		}
	})
}

func TestBaselineKeyRoundTrip(t *testing.T) {
	for _, s := range []string{"ff0000000a", "ffdeadbeef", "{null,0}", "{1000014,1709026242}"} {
		bk, err := ParseBaselineKey(s)
		require.NoError(t, err)
		assert.Equal(t, s, bk.String())
	}
}

func TestBaselineKeyIsLive(t *testing.T) {
	assert.True(t, LiveCopy().IsLive())
	assert.False(t, ModernBaselineKey("1000014", 1709026242).IsLive())
	assert.False(t, LegacyBaselineKey("0000000a").IsLive())
	assert.False(t, BaselineKey{}.IsLive())
}

func TestBaselineKeyEquality(t *testing.T) {
	a, err := ParseBaselineKey("{1000014,1709026242}")
	require.NoError(t, err)
	b := ModernBaselineKey("1000014", 1709026242)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)

	// Legacy and modern keys never compare equal, even with matching IDs.
	assert.False(t, LegacyBaselineKey("null").Equal(ModernBaselineKey("null", 0)))
}

func TestBaselineKeyJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		bk := ModernBaselineKey("1000014", 1709026242)
		data, err := json.Marshal(bk)
		require.NoError(t, err)
		assert.Equal(t, `"{1000014,1709026242}"`, string(data))

		var decoded BaselineKey
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, bk, decoded)
	})

	t.Run("zero value marshals as null", func(t *testing.T) {
		data, err := json.Marshal(BaselineKey{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var decoded BaselineKey
		require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
		assert.True(t, decoded.IsZero())
	})

	t.Run("invalid text", func(t *testing.T) {
		var decoded BaselineKey
		err := json.Unmarshal([]byte(`"bogus"`), &decoded)
		var ferr *FormatError
		assert.True(t, errors.As(err, &ferr))
	})
}
