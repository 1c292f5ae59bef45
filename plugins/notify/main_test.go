package main

import (
	"encoding/json"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr bool
	}{
		{
			name: "all cleared",
			req:  Request{Event: "all_cleared"},
			want: "All bodies cleared!",
		},
		{
			name: "shape committed",
			req: Request{
				Event:  "shape_committed",
				Params: json.RawMessage(`{"kind":"shape_committed","shape":[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}`),
			},
			want: "Shape closed with 3 points",
		},
		{
			name:    "bad params",
			req:     Request{Event: "shape_committed", Params: json.RawMessage(`[`)},
			wantErr: true,
		},
		{
			name:    "unknown event",
			req:     Request{Event: "bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := message(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("message() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("message() = %q, want %q", got, tt.want)
			}
		})
	}
}
