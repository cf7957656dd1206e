package repository

import (
	"reflect"
	"testing"
)

func TestSetDiff(t *testing.T) {
	tests := []struct {
		name       string
		desired    []int64
		current    []int64
		wantAdd    []int64
		wantRemove []int64
	}{
		{
			name:       "no change",
			desired:    []int64{1, 2},
			current:    []int64{1, 2},
			wantAdd:    nil,
			wantRemove: nil,
		},
		{
			name:       "all new",
			desired:    []int64{1, 2},
			current:    nil,
			wantAdd:    []int64{1, 2},
			wantRemove: nil,
		},
		{
			name:       "all removed",
			desired:    nil,
			current:    []int64{1, 2},
			wantAdd:    nil,
			wantRemove: []int64{1, 2},
		},
		{
			name:       "mixed",
			desired:    []int64{2, 3},
			current:    []int64{1, 2},
			wantAdd:    []int64{3},
			wantRemove: []int64{1},
		},
		{
			name:       "duplicate desired ids collapse",
			desired:    []int64{3, 3, 3},
			current:    nil,
			wantAdd:    []int64{3},
			wantRemove: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAdd, gotRemove := setDiff(tt.desired, tt.current)
			if !reflect.DeepEqual(gotAdd, tt.wantAdd) {
				t.Errorf("setDiff() toAdd = %v, want %v", gotAdd, tt.wantAdd)
			}
			if !reflect.DeepEqual(gotRemove, tt.wantRemove) {
				t.Errorf("setDiff() toRemove = %v, want %v", gotRemove, tt.wantRemove)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}

	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
