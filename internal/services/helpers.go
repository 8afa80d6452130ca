package services

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"amazonia/pkg/utils"
)

// storeErr passes domain errors through and wraps anything else as a
// database failure.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, utils.ErrDatabaseError) {
		return err
	}
	if code, _ := utils.Classify(err); code != http.StatusInternalServerError {
		return err
	}
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

type located[T any] struct {
	item     T
	distance float64
}

// sortByDistance measures every item from origin, drops those outside
// radius (when radius > 0) and orders the rest nearest first.
func sortByDistance[T any](items []T, origin utils.Coordinate, radius float64, at func(T) utils.Coordinate) []located[T] {
	out := make([]located[T], 0, len(items))
	for _, it := range items {
		d := utils.HaversineMeters(origin, at(it))
		if radius > 0 && d > radius {
			continue
		}
		out = append(out, located[T]{item: it, distance: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].distance < out[j].distance })
	return out
}

func pageSlice[T any](items []T, p utils.Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func distancePtr(d float64) *float64 {
	return &d
}
