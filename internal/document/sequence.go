package document

import "fmt"

// Direction is the neighbor a move swaps with.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q (valid: up, down)", s)
}

// Move returns a copy of items with the entry at index swapped with its
// neighbor. Moves past either end report false and return items unchanged.
func Move[T any](items []T, index int, dir Direction) ([]T, bool) {
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if index < 0 || index >= len(items) || target < 0 || target >= len(items) {
		return items, false
	}
	out := make([]T, len(items))
	copy(out, items)
	out[index], out[target] = out[target], out[index]
	return out, true
}

// Remove returns a copy of items without the entry at index. Out-of-range
// indexes report false and return items unchanged.
func Remove[T any](items []T, index int) ([]T, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), true
}

// Append returns a copy of items with item added at the end.
func Append[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}
