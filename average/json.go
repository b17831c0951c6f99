package average

import (
	"encoding/json"
	"fmt"
	"math"
)

// JSON has no NaN literal, but a partial computed without dropping
// missing values legitimately carries one. NaN is encoded as the
// string "NaN" on the wire and decoded back.

const nanLiteral = `"NaN"`

func encodeFloat(v float64) json.RawMessage {
	if math.IsNaN(v) {
		return json.RawMessage(nanLiteral)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("0")
	}

	return data
}

func decodeFloat(data json.RawMessage) (float64, error) {
	if string(data) == nanLiteral {
		return math.NaN(), nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("invalid numeric value %s: %w", data, err)
	}

	return v, nil
}

func (p Partial) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sum   json.RawMessage `json:"sum"`
		Count int64           `json:"count"`
	}{
		Sum:   encodeFloat(p.Sum),
		Count: p.Count,
	})
}

func (p *Partial) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sum   json.RawMessage `json:"sum"`
		Count int64           `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	sum := 0.0
	if len(raw.Sum) > 0 {
		v, err := decodeFloat(raw.Sum)
		if err != nil {
			return err
		}
		sum = v
	}

	p.Sum = sum
	p.Count = raw.Count

	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Average json.RawMessage `json:"average"`
	}{
		Average: encodeFloat(r.Average),
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Average json.RawMessage `json:"average"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Average) == 0 {
		r.Average = 0

		return nil
	}

	v, err := decodeFloat(raw.Average)
	if err != nil {
		return err
	}
	r.Average = v

	return nil
}
