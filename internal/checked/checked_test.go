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

package checked_test

import (
	"math"
	"testing"

	"github.com/openstable-io/ingot/internal/checked"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	sum, err := checked.Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)
	sum, err = checked.Add(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)
	_, err = checked.Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, checked.ErrOverflow)
}

func TestSub(t *testing.T) {
	diff, err := checked.Sub(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), diff)
	diff, err = checked.Sub(5, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff)
	_, err = checked.Sub(3, 5)
	assert.ErrorIs(t, err, checked.ErrOverflow)
}

func TestMulDiv(t *testing.T) {
	// Basis-point fee path
	fee, err := checked.MulDiv(1000000, 50, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), fee)
	// The 128-bit intermediate keeps a*b from wrapping
	fee, err = checked.MulDiv(math.MaxUint64, 5000, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/2), fee)
	// Truncating division
	fee, err = checked.MulDiv(999, 50, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), fee)
	_, err = checked.MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, checked.ErrOverflow)
	// Quotient too large for 64 bits
	_, err = checked.MulDiv(math.MaxUint64, 10001, 10000)
	assert.ErrorIs(t, err, checked.ErrOverflow)
}

func TestSum(t *testing.T) {
	total, err := checked.Sum([]uint64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, uint64(60), total)
	total, err = checked.Sum(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	_, err = checked.Sum([]uint64{math.MaxUint64, 1})
	assert.ErrorIs(t, err, checked.ErrOverflow)
}
