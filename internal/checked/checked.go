// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package checked provides overflow-checked unsigned 64-bit arithmetic.
// Every amount calculation in the issuance and compliance paths goes
// through these helpers so that overflow always fails the operation
// instead of wrapping.
package checked

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned when a calculation would exceed the uint64 range
var ErrOverflow = errors.New("math overflow")

// Add returns a+b, or ErrOverflow if the sum wraps
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrOverflow if the result would be negative
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// MulDiv returns a*b/div using a 128-bit intermediate product so the
// multiplication cannot overflow before the division. Requires the
// quotient to fit in 64 bits, which holds whenever b <= div.
func MulDiv(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, ErrOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return 0, ErrOverflow
	}
	quot, _ := bits.Div64(hi, lo, div)
	return quot, nil
}

// Sum adds all values, or returns ErrOverflow if the total wraps
func Sum(values []uint64) (uint64, error) {
	var total uint64
	for _, v := range values {
		var err error
		total, err = Add(total, v)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
