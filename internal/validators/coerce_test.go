package validators

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsCoercibleValues(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`1`, 1},
		{`0`, 0},
		{`-3`, -3},
		{`1.0`, 1},
		{`2e1`, 20},
		{`"1"`, 1},
		{`" 7 "`, 7},
		{`"4.0"`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id.Int())
		})
	}
}

func TestIDRejectsNonIntegers(t *testing.T) {
	for _, raw := range []string{`1.5`, `"two"`, `""`, `true`, `[1]`, `{}`, `1e300`} {
		t.Run(raw, func(t *testing.T) {
			var id ID
			assert.Error(t, json.Unmarshal([]byte(raw), &id))
		})
	}
}

func TestTextAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"u1"`, "u1"},
		{`""`, ""},
		{`5`, "5"},
		{`12.50`, "12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var s Text
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.want, s.String())
		})
	}

	var s Text
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`false`), &s))
}

func TestRequestNullIsMissing(t *testing.T) {
	var req FavMuseumRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":null,"fav_id":"3"}`), &req))
	assert.Nil(t, req.UserID)
	require.NotNil(t, req.FavID)
	assert.Equal(t, 3, req.FavID.Int())
}
