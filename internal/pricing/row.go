package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field names a user-editable column.
type Field int

const (
	FieldModelName Field = iota
	FieldInputPrice
	FieldOutputPrice
)

var fieldNames = map[Field]string{
	FieldModelName:   "modelName",
	FieldInputPrice:  "inputPrice",
	FieldOutputPrice: "outputPrice",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// IsPrice reports whether editing f changes the derived multipliers.
func (f Field) IsPrice() bool {
	return f == FieldInputPrice || f == FieldOutputPrice
}

// ParseField accepts the persisted column names and their short forms.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "modelname", "name", "model":
		return FieldModelName, nil
	case "inputprice", "input":
		return FieldInputPrice, nil
	case "outputprice", "output":
		return FieldOutputPrice, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Snapshot is the committed state of a row captured when editing starts.
type Snapshot struct {
	ModelName   string  `json:"modelName"`
	InputPrice  float64 `json:"inputPrice"`
	OutputPrice float64 `json:"outputPrice"`
}

// Row is one priced model entry.
type Row struct {
	ModelName            string    `json:"modelName"`
	InputPrice           float64   `json:"inputPrice"`
	OutputPrice          float64   `json:"outputPrice"`
	ModelMultiplier      float64   `json:"modelMultiplier"`
	CompletionMultiplier float64   `json:"completionMultiplier"`
	Editing              bool      `json:"editing"`
	Original             *Snapshot `json:"originalValues"`
}

func (r Row) snapshot() *Snapshot {
	return &Snapshot{
		ModelName:   r.ModelName,
		InputPrice:  r.InputPrice,
		OutputPrice: r.OutputPrice,
	}
}

func (r Row) clone() Row {
	if r.Original != nil {
		s := *r.Original
		r.Original = &s
	}
	return r
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parsePrice reads the leading decimal number of raw. Anything unparsable,
// or not finite, becomes 0.
func parsePrice(raw string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
