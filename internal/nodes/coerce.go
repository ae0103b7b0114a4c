package nodes

import (
	"encoding/json"
	"fmt"
	"math"
)

// Input values reach a node either as decoded JSON literals (string,
// float64, bool) or as whatever Go value the producing node returned. These
// helpers accept both.

func stringInput(in map[string]any, name string) (string, error) {
	v, ok := in[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("input '%s': expected string, got %T", name, v)
	}
	return s, nil
}

func floatInput(in map[string]any, name string) (float64, error) {
	v, ok := in[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("input '%s' is required", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("input '%s': expected number, got %T", name, v)
	}
}

func intInput(in map[string]any, name string) (int64, error) {
	v, ok := in[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("input '%s' is required", name)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	}
	f, err := floatInput(in, name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("input '%s': expected integer, got %v", name, f)
	}
	return int64(f), nil
}

// optionalInput returns the input as T. Missing and nil inputs report false.
func optionalInput[T any](in map[string]any, name string) (T, bool, error) {
	var zero T
	v, ok := in[name]
	if !ok || v == nil {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("input '%s': expected %T, got %T", name, zero, v)
	}
	return t, true, nil
}

// slotInputs collects name_1..name_n for n slots. Absent slots stay nil so
// that gaps remain visible to play.CompactSlots.
func slotInputs[T any](in map[string]any, name string, n int) ([]*T, error) {
	slots := make([]*T, n)
	for i := range slots {
		v, ok, err := optionalInput[*T](in, fmt.Sprintf("%s_%d", name, i+1))
		if err != nil {
			return nil, err
		}
		if ok {
			slots[i] = v
		}
	}
	return slots, nil
}

func slotNames(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%d", name, i+1)
	}
	return out
}
