package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, ErrEmptyValue
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	// Spreadsheet exports sometimes write integers as "42.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.Trunc(f) != f || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, ErrEmptyValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number")
	}
	return f, nil
}

func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "1.0", "true", "yes", "y":
		return true, nil
	case "0", "0.0", "false", "no", "n":
		return false, nil
	case "":
		return false, ErrEmptyValue
	}
	return false, fmt.Errorf("not a 0/1 flag")
}
