// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-02

// Package status defines the total order over project board status names.
// Every "did we advance or regress" decision goes through Order.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a status name is not part of the configured order.
var ErrUnknownStatus = errors.New("unknown status")

// Order is an ordered list of status names, earliest first.
type Order []string

// NewOrder validates names and returns them as an Order.
// Names must be non-empty and appear exactly once.
func NewOrder(names []string) (Order, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("status order cannot be empty")
	}

	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("status order entry %d is empty", i)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("status %q appears more than once in status order", name)
		}
		seen[name] = struct{}{}
	}

	order := make(Order, len(names))
	copy(order, names)
	return order, nil
}

// Index returns the position of name in the order.
func (o Order) Index(name string) (int, error) {
	for i, s := range o {
		if s == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w in order list: %q", ErrUnknownStatus, name)
}

// Contains reports whether name is part of the order.
func (o Order) Contains(name string) bool {
	_, err := o.Index(name)
	return err == nil
}

// Compare returns -1 if a comes before b, 0 if they are the same status
// and +1 if a comes after b.
func (o Order) Compare(a, b string) (int, error) {
	ia, err := o.Index(a)
	if err != nil {
		return 0, err
	}
	ib, err := o.Index(b)
	if err != nil {
		return 0, err
	}

	switch {
	case ia == ib:
		return 0, nil
	case ia < ib:
		return -1, nil
	default:
		return 1, nil
	}
}

// IsAtOrAfter reports whether current is the same as or later than target.
func (o Order) IsAtOrAfter(current, target string) (bool, error) {
	cmp, err := o.Compare(current, target)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// Max returns the later of a and b, or a when they are equal.
func (o Order) Max(a, b string) (string, error) {
	cmp, err := o.Compare(a, b)
	if err != nil {
		return "", err
	}
	if cmp >= 0 {
		return a, nil
	}
	return b, nil
}
