package cmd

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    orb.Bound
		wantErr bool
	}{
		{
			name:  "valid bbox",
			input: "0,0,8,4",
			want:  orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{8, 4}},
		},
		{
			name:  "valid bbox with spaces",
			input: "1.5, 2, 3.25, 4",
			want:  orb.Bound{Min: orb.Point{1.5, 2}, Max: orb.Point{3.25, 4}},
		},
		{
			name:  "negative coordinates",
			input: "-4,-2,0,2",
			want:  orb.Bound{Min: orb.Point{-4, -2}, Max: orb.Point{0, 2}},
		},
		{
			name:  "whole world",
			input: "world",
			want:  orb.Bound{Max: orb.Point{16, 16}},
		},
		{
			name:    "too few values",
			input:   "0,0,8",
			wantErr: true,
		},
		{
			name:    "too many values",
			input:   "0,0,8,8,8",
			wantErr: true,
		},
		{
			name:    "invalid number",
			input:   "abc,0,8,8",
			wantErr: true,
		},
		{
			name:    "x0 >= x1",
			input:   "8,0,8,8",
			wantErr: true,
		},
		{
			name:    "y0 >= y1",
			input:   "0,9,8,8",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBBox(tt.input, 16)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseBBox(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("parseBBox(%q) unexpected error: %v", tt.input, err)
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseBBox(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
