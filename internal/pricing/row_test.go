package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0.0025", 0.0025},
		{" 3 ", 3},
		{"12abc", 12},
		{".5", 0.5},
		{"1e-3", 0.001},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"-2", -2},
		{"0x10", 0},
		{"0x1p-2", 0},
		{"1_000", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePrice(tt.raw))
		})
	}
}

func TestParseField(t *testing.T) {
	tests := map[string]Field{
		"modelName":   FieldModelName,
		"name":        FieldModelName,
		"inputPrice":  FieldInputPrice,
		"input":       FieldInputPrice,
		"outputPrice": FieldOutputPrice,
		"OUTPUT":      FieldOutputPrice,
	}
	for in, want := range tests {
		got, err := ParseField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseField("modelMultiplier")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "inputPrice", FieldInputPrice.String())
	assert.Equal(t, "Field(9)", Field(9).String())
	assert.True(t, FieldOutputPrice.IsPrice())
	assert.False(t, FieldModelName.IsPrice())
}

func TestEncodeDecodeRoundTripDropsSnapshot(t *testing.T) {
	rows := []Row{
		{ModelName: "a", InputPrice: 1, OutputPrice: 2, ModelMultiplier: 500, CompletionMultiplier: 2},
		{ModelName: "b", InputPrice: 3, OutputPrice: 3, Editing: true, Original: &Snapshot{ModelName: "old", InputPrice: 9}},
	}
	data, err := Encode(rows)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "originalValues")
	assert.NotContains(t, string(data), "old")

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rows[0], decoded[0])
	require.NotNil(t, decoded[1].Original)
	assert.Equal(t, Snapshot{ModelName: "b", InputPrice: 3, OutputPrice: 3}, *decoded[1].Original)
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte(`[{"modelName": 12}]`))
	assert.ErrorIs(t, err, ErrCorruptData)
}
