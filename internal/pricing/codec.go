package pricing

import (
	"encoding/json"
	"fmt"
)

// storedRow is the persisted shape of a Row. The edit snapshot is never
// written.
type storedRow struct {
	ModelName            string  `json:"modelName"`
	InputPrice           float64 `json:"inputPrice"`
	OutputPrice          float64 `json:"outputPrice"`
	ModelMultiplier      float64 `json:"modelMultiplier"`
	CompletionMultiplier float64 `json:"completionMultiplier"`
	Editing              bool    `json:"editing"`
}

// Encode serializes rows for the data slot.
func Encode(rows []Row) ([]byte, error) {
	out := make([]storedRow, len(rows))
	for i, r := range rows {
		out[i] = storedRow{
			ModelName:            r.ModelName,
			InputPrice:           r.InputPrice,
			OutputPrice:          r.OutputPrice,
			ModelMultiplier:      r.ModelMultiplier,
			CompletionMultiplier: r.CompletionMultiplier,
			Editing:              r.Editing,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding rows: %w", err)
	}
	return data, nil
}

// Decode parses the data slot. Rows persisted mid-edit get a snapshot of
// their stored values so that cancel still has something to restore.
func Decode(data []byte) ([]Row, error) {
	var stored []storedRow
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	rows := make([]Row, len(stored))
	for i, s := range stored {
		r := Row{
			ModelName:            s.ModelName,
			InputPrice:           s.InputPrice,
			OutputPrice:          s.OutputPrice,
			ModelMultiplier:      s.ModelMultiplier,
			CompletionMultiplier: s.CompletionMultiplier,
			Editing:              s.Editing,
		}
		if r.Editing {
			r.Original = r.snapshot()
		}
		rows[i] = r
	}
	return rows, nil
}
