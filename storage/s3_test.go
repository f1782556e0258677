package storage

import "testing"

func TestParseDurationMS(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]string
		want *int64
	}{
		{"missing", map[string]string{}, nil},
		{"valid", map[string]string{"duration-ms": "120000"}, int64p(120000)},
		{"zero", map[string]string{"duration-ms": "0"}, int64p(0)},
		{"garbage", map[string]string{"duration-ms": "abc"}, nil},
		{"negative", map[string]string{"duration-ms": "-5"}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := parseDurationMS(c.meta)
			switch {
			case got == nil && c.want == nil:
			case got == nil || c.want == nil:
				t.Fatalf("parseDurationMS = %v; want %v", got, c.want)
			case *got != *c.want:
				t.Fatalf("parseDurationMS = %d; want %d", *got, *c.want)
			}
		})
	}
}

func int64p(n int64) *int64 { return &n }
