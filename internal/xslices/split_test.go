package xslices_test

import (
	"slices"
	"testing"

	. "github.com/WinPooh32/svgicon/internal/xslices"
	"github.com/stretchr/testify/assert"
)

func Test_split(t *testing.T) {
	t.Parallel()

	type args struct {
		s []string
		n int
	}

	tests := []struct {
		name string
		args args
		want [][]string
	}{
		// 1 is the special case
		{"len(s) = 1 n = 1", args{[]string{"a"}, 1}, [][]string{{"a"}}},
		{"len(s) = 2 n = 1", args{[]string{"a", "b"}, 1}, [][]string{{"a", "b"}}},
		{"len(s) = 3 n = 1", args{[]string{"a", "b", "c"}, 1}, [][]string{{"a", "b", "c"}}},
		// Even n
		{"len(s) = 1 n = 2", args{[]string{"a"}, 2}, [][]string{{"a"}}},
		{"len(s) = 2 n = 2", args{[]string{"a", "b"}, 2}, [][]string{{"a"}, {"b"}}},
		{"len(s) = 3 n = 2", args{[]string{"a", "b", "c"}, 2}, [][]string{{"a", "b"}, {"c"}}},
		{"len(s) = 4 n = 2", args{[]string{"a", "b", "c", "d"}, 2}, [][]string{{"a", "b"}, {"c", "d"}}},
		{"len(s) = 5 n = 2", args{[]string{"a", "b", "c", "d", "e"}, 2}, [][]string{{"a", "b", "c"}, {"d", "e"}}},
		// Odd n
		{"len(s) = 1 n = 3", args{[]string{"a"}, 3}, [][]string{{"a"}}},
		{"len(s) = 2 n = 3", args{[]string{"a", "b"}, 3}, [][]string{{"a"}, {"b"}}},
		{"len(s) = 3 n = 3", args{[]string{"a", "b", "c"}, 3}, [][]string{{"a"}, {"b"}, {"c"}}},
		{"len(s) = 4 n = 3", args{[]string{"a", "b", "c", "d"}, 3}, [][]string{{"a"}, {"b"}, {"c", "d"}}},
		{"len(s) = 5 n = 3", args{[]string{"a", "b", "c", "d", "e"}, 3}, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}},

		{"len(s) = 5 n = 5", args{[]string{"a", "b", "c", "d", "e"}, 5}, [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}},
		{
			"len(s) = 6 n = 5",
			args{[]string{"a", "b", "c", "d", "e", "f"}, 5},
			[][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e", "f"}},
		},
		// More parts than rounding can fill
		{
			"len(s) = 9 n = 6",
			args{[]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, 6},
			[][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}, {"g", "h"}, {"i"}},
		},
		{"len(s) = 0 n = 4", args{[]string{}, 4}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotParts := slices.Collect(Split(tt.args.s, tt.args.n))

			assert.Equal(t, tt.want, gotParts)
		})
	}
}

func TestSplit_Capacity(t *testing.T) {
	t.Parallel()

	s := []int{1, 2, 3, 4}

	for part := range Split(s, 2) {
		assert.Equal(t, len(part), cap(part))
	}

	assert.Panics(t, func() {
		for range Split(s, 0) {
		}
	})
}
