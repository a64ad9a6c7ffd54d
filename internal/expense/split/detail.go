package split

import (
	"encoding/json"
	"fmt"
)

// Detail records how a participant's share was derived. Exactly one
// concrete type is active per split method.
type Detail interface {
	// SplitMethod returns the method that produced this detail
	SplitMethod() Method
}

// EqualDetail records the participant count the amount was divided by
type EqualDetail struct {
	Count int `json:"count"`
}

func (EqualDetail) SplitMethod() Method { return MethodEqual }

// PercentageDetail records the percentage assigned to this participant
type PercentageDetail struct {
	Percentage float64 `json:"percentage"`
}

func (PercentageDetail) SplitMethod() Method { return MethodPercentage }

// SharesDetail records this participant's weight and the total weight
// across the expense.
type SharesDetail struct {
	Weight      float64 `json:"weight"`
	TotalWeight float64 `json:"total_weight"`
}

func (SharesDetail) SplitMethod() Method { return MethodShares }

// CustomDetail records the raw monetary amount assigned to this participant
type CustomDetail struct {
	Amount float64 `json:"amount"`
}

func (CustomDetail) SplitMethod() Method { return MethodCustom }

// detailEnvelope is the wire/storage form: the method tag plus the payload
type detailEnvelope struct {
	Method Method          `json:"method"`
	Data   json.RawMessage `json:"data"`
}

// EncodeDetail serializes a detail into its tagged JSON envelope
func EncodeDetail(d Detail) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(detailEnvelope{Method: d.SplitMethod(), Data: data})
}

// DecodeDetail deserializes a tagged JSON envelope back into the concrete
// detail type for its method.
func DecodeDetail(raw []byte) (Detail, error) {
	var env detailEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode split detail: %w", err)
	}

	switch env.Method {
	case MethodEqual:
		var d EqualDetail
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case MethodPercentage:
		var d PercentageDetail
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case MethodShares:
		var d SharesDetail
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case MethodCustom:
		var d CustomDetail
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown split method in detail: %s", env.Method)
	}
}
