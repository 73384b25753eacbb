package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// ratioInfinity is the wire encoding of the +Inf buy/sell ratio sentinel.
// JSON has no Infinity literal, and the sentinel must survive persistence.
const ratioInfinity = `"Infinity"`

// MarshalJSON encodes the metrics with the ratio sentinel as "Infinity".
func (m *BehavioralMetrics) MarshalJSON() ([]byte, error) {
	type alias BehavioralMetrics
	out := struct {
		*alias
		BuySellRatio json.RawMessage
	}{alias: (*alias)(m)}

	if math.IsInf(m.BuySellRatio, 1) {
		out.BuySellRatio = json.RawMessage(ratioInfinity)
	} else {
		encoded, err := json.Marshal(m.BuySellRatio)
		if err != nil {
			return nil, fmt.Errorf("marshal buy/sell ratio: %w", err)
		}
		out.BuySellRatio = encoded
	}

	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *BehavioralMetrics) UnmarshalJSON(data []byte) error {
	type alias BehavioralMetrics
	aux := struct {
		*alias
		BuySellRatio json.RawMessage
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case len(aux.BuySellRatio) == 0:
		m.BuySellRatio = 0
	case string(aux.BuySellRatio) == ratioInfinity:
		m.BuySellRatio = math.Inf(1)
	default:
		if err := json.Unmarshal(aux.BuySellRatio, &m.BuySellRatio); err != nil {
			return fmt.Errorf("unmarshal buy/sell ratio: %w", err)
		}
	}
	return nil
}
