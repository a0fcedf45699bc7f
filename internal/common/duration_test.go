package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type durationHolder struct {
	Timeout Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "250ms", want: 250 * time.Millisecond},
		{input: "30s", want: 30 * time.Second},
		{input: "1h30m", want: 90 * time.Minute},
		{input: "0s", want: 0},
		{input: "100", wantErr: true},
		{input: "10 days", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_ConfigFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		decode func(out *durationHolder) error
	}{
		{
			name: "json",
			decode: func(out *durationHolder) error {
				return json.Unmarshal([]byte(`{"timeout":"45s"}`), out)
			},
		},
		{
			name: "yaml",
			decode: func(out *durationHolder) error {
				return yaml.Unmarshal([]byte("timeout: 45s\n"), out)
			},
		},
		{
			name: "toml",
			decode: func(out *durationHolder) error {
				_, err := toml.Decode(`timeout = "45s"`, out)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var holder durationHolder
			require.NoError(t, tt.decode(&holder))
			require.Equal(t, 45*time.Second, holder.Timeout.Duration)
		})
	}
}

func TestDuration_MarshalRoundtrip(t *testing.T) {
	t.Parallel()

	in := durationHolder{Timeout: NewDuration(2*time.Minute + 500*time.Millisecond)}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"timeout":"2m0.5s"}`, string(raw))

	var out durationHolder
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, in, out)
}

func TestDuration_JSONSchema(t *testing.T) {
	t.Parallel()

	schema := Duration{}.JSONSchema()
	require.Equal(t, "string", schema.Type)
	require.NotEmpty(t, schema.Examples)
}
