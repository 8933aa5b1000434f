// Package conformance loads the per-opcode JSON single-step test
// vectors described in spec.md §6 and drives a bare cpu.CPU through
// each case, diffing the resulting state against the vector's
// declared final state.
package conformance

import (
	"encoding/json"
	"fmt"
	"os"
)

// State is one side (initial or final) of a test case: the CPU
// registers plus every RAM byte the case cares about.
type State struct {
	PC  uint16   `json:"pc"`
	S   uint8    `json:"s"`
	A   uint8    `json:"a"`
	X   uint8    `json:"x"`
	Y   uint8    `json:"y"`
	P   uint8    `json:"p"`
	RAM [][2]int `json:"ram"`
}

// BusAccess records one bus read or write performed while executing a
// case's single instruction.
type BusAccess struct {
	Addr uint16
	Val  uint8
	Kind string // "read" or "write"
}

// UnmarshalJSON decodes a BusAccess from its wire form, a 3-element
// heterogeneous array: [addr, val, "read"|"write"].
func (b *BusAccess) UnmarshalJSON(data []byte) error {
	var raw [3]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	addr, ok := raw[0].(float64)
	if !ok {
		return fmt.Errorf("conformance: cycle entry address not a number: %v", raw[0])
	}
	val, ok := raw[1].(float64)
	if !ok {
		return fmt.Errorf("conformance: cycle entry value not a number: %v", raw[1])
	}
	kind, ok := raw[2].(string)
	if !ok {
		return fmt.Errorf("conformance: cycle entry kind not a string: %v", raw[2])
	}
	b.Addr, b.Val, b.Kind = uint16(addr), uint8(val), kind
	return nil
}

// Case is a single named test case from a per-opcode JSON vector file.
type Case struct {
	Name    string      `json:"name"`
	Initial State       `json:"initial"`
	Final   State       `json:"final"`
	Cycles  []BusAccess `json:"cycles"`
}

// LoadCases decodes one per-opcode JSON vector file into its cases.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("conformance: reading %s: %w", path, err)
	}
	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("conformance: decoding %s: %w", path, err)
	}
	return cases, nil
}
