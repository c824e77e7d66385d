package guid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantDBID     string
		wantTypeCode string
		wantParent   string
		wantObject   string
		wantBaseline string
	}{
		{
			name:         "module with live-copy baseline",
			input:        "AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}",
			wantDBID:     "48beda447cfb0c27",
			wantTypeCode: "21",
			wantParent:   "2100003c20",
			wantObject:   "28ffffffff",
			wantBaseline: "{null,0}",
		},
		{
			name:         "project without baseline",
			input:        "AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff",
			wantDBID:     "48beda447cfb0c27",
			wantTypeCode: "1f",
			wantParent:   "1f0000500d",
			wantObject:   "28ffffffff",
		},
		{
			name:         "object with modern baseline",
			input:        "AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}",
			wantDBID:     "48beda447cfb0c27",
			wantTypeCode: "23",
			wantParent:   "2100003c20",
			wantObject:   "2800000002",
			wantBaseline: "{1000014,1709026242}",
		},
		{
			name:         "folder",
			input:        "AB:48beda447cfb0c27:1f:1f00000003:28ffffffff",
			wantDBID:     "48beda447cfb0c27",
			wantTypeCode: "1f",
			wantParent:   "1f00000003",
			wantObject:   "28ffffffff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDBID, g.DBID())
			assert.Equal(t, tt.wantTypeCode, g.TypeCode())
			assert.Equal(t, tt.wantParent, g.ParentKey())
			assert.Equal(t, tt.wantObject, g.ObjectKey())
			if tt.wantBaseline == "" {
				assert.True(t, g.BaselineKey().IsZero())
			} else {
				assert.Equal(t, tt.wantBaseline, g.BaselineKey().String())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
	}{
		{"missing prefix", "48beda447cfb0c27:21:2100003c20:28ffffffff", "GUID"},
		{"too few components", "AB:48beda447cfb0c27:21:2100003c20", "GUID"},
		{"too many components", "AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}:extra", "GUID"},
		{"short database ID", "AB:48beda447cfb0c2:21:2100003c20:28ffffffff", "database ID"},
		{"non-hex database ID", "AB:48beda447cfb0c2g:21:2100003c20:28ffffffff", "database ID"},
		{"long type code", "AB:48beda447cfb0c27:211:2100003c20:28ffffffff", "type code"},
		{"short parent key", "AB:48beda447cfb0c27:21:21003c20:28ffffffff", "parent key"},
		{"object key without 28 prefix", "AB:48beda447cfb0c27:21:2100003c20:29ffffffff", "object key"},
		{"malformed baseline", "AB:48beda447cfb0c27:21:2100003c20:28ffffffff:bogus", "baseline key"},
		{"empty", "", "GUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.wantField, ferr.Field)
		})
	}
}

func TestParseCanonicalizesCase(t *testing.T) {
	g, err := Parse("AB:48BEDA447CFB0C27:1F:1F0000500D:28FFFFFFFF")
	require.NoError(t, err)
	assert.Equal(t, "48beda447cfb0c27", g.DBID())
	assert.Equal(t, "AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff", g.String())
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}",
		"AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff",
		"AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}",
		"AB:48beda447cfb0c27:23:2100003c20:2800000002:ff0000000a",
		"AB:48beda447cfb0c27:1f:1f00000003:28ffffffff",
	}
	for _, s := range inputs {
		g, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, g.String())
	}
}

func TestResourceType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ResourceType
	}{
		{"module", "AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}", ResourceTypeModule},
		{"object", "AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}", ResourceTypeObject},
		{"project above threshold", "AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff", ResourceTypeProject},
		{"folder below threshold", "AB:48beda447cfb0c27:1f:1f00000003:28ffffffff", ResourceTypeFolder},
		{"folder at threshold minus one", "AB:48beda447cfb0c27:1f:1f00000fff:28ffffffff", ResourceTypeFolder},
		{"project exactly at threshold", "AB:48beda447cfb0c27:1f:1f00001000:28ffffffff", ResourceTypeProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := MustParse(tt.input).ResourceType()
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt)
		})
	}

	t.Run("unknown type code", func(t *testing.T) {
		g, err := New("48beda447cfb0c27", "42", "2100003c20", "28ffffffff", BaselineKey{})
		require.NoError(t, err)
		_, err = g.ResourceType()
		var uerr *UnknownTypeCodeError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "42", uerr.TypeCode)
	})

	t.Run("overridden threshold", func(t *testing.T) {
		g := MustParse("AB:48beda447cfb0c27:1f:1f00000fff:28ffffffff")
		rt, err := g.ResourceTypeAt(0x800)
		require.NoError(t, err)
		assert.Equal(t, ResourceTypeProject, rt)
	})
}

func TestObjectNumber(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
	}{
		{"AB:48beda447cfb0c27:23:2100003e20:2800000ba6:{100001d,1742565471}", 2982},
		{"AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}", 2},
		{"AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}", 4294967295},
		{"AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff", NoObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParse(tt.input).ObjectNumber(), "input %s", tt.input)
	}
}

func TestContainerKey(t *testing.T) {
	assert.Equal(t, "00003c20", MustParse("AB:48beda447cfb0c27:21:2100003c20:28ffffffff").ContainerKey())
	assert.Equal(t, "0000500d", MustParse("AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff").ContainerKey())
}

func TestEqualityAndMapKey(t *testing.T) {
	a := MustParse("AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}")
	b := MustParse("AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}")
	c := MustParse("AB:48beda447cfb0c27:21:2100003c20:28ffffffff")

	assert.True(t, a.Equal(b))
	// Baseline key participates in identity.
	assert.False(t, a.Equal(c))

	seen := map[GUID]int{a: 1}
	assert.Equal(t, 1, seen[b])
	assert.Zero(t, seen[c])
}

func TestGUIDJSON(t *testing.T) {
	g := MustParse("AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}")
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, `"AB:48beda447cfb0c27:23:2100003c20:2800000002:{1000014,1709026242}"`, string(data))

	var decoded GUID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g, decoded)

	var zero GUID
	require.NoError(t, json.Unmarshal([]byte("null"), &zero))
	assert.True(t, zero.IsZero())
}
