package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-03-15", want: NewDate(2024, time.March, 15)},
		{in: " 2024-03-15 ", want: NewDate(2024, time.March, 15)},
		{in: "2024-03-15T10:30:00-03:00", want: NewDate(2024, time.March, 15)},
		{in: "15/03/2024", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.EqualError(t, err, "invalid date \""+CleanString(tt.in)+"\"")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got)
		})
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Data  *Date `json:"data"`
		Vazia Date  `json:"vazia"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data": "2024-03-15", "vazia": ""}`), &payload))
	require.NotNil(t, payload.Data)
	assert.Equal(t, "2024-03-15", payload.Data.String())
	assert.True(t, payload.Vazia.IsZero())
	assert.Equal(t, "", payload.Vazia.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": "2024-03-15", "vazia": null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"data": "lol"}`), &payload))
}
