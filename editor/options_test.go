package editor

import (
	"errors"
	"testing"
)

func TestNormalizeClamping(t *testing.T) {
	cases := []struct {
		name string
		raw  Options
		want Options
	}{
		{
			"all in range",
			Options{Trim: TrimRange{10, 90}, VolumePct: 150, FadeInSec: 2, FadeOutSec: 3, Speed: 1.5, Quality: QualityHigh},
			Options{Trim: TrimRange{10, 90}, VolumePct: 150, FadeInSec: 2, FadeOutSec: 3, Speed: 1.5, Quality: QualityHigh},
		},
		{
			"everything out of range",
			Options{Trim: TrimRange{-20, 140}, VolumePct: 900, FadeInSec: -1, FadeOutSec: 99, Speed: 10, Quality: QualityLow},
			Options{Trim: TrimRange{0, 100}, VolumePct: 200, FadeInSec: 0, FadeOutSec: 10, Speed: 2.0, Quality: QualityLow},
		},
		{
			"negative volume and slow speed",
			Options{Trim: TrimRange{0, 100}, VolumePct: -50, Speed: 0.1, Quality: QualityMedium},
			Options{Trim: TrimRange{0, 100}, VolumePct: 0, Speed: 0.5, Quality: QualityMedium},
		},
		{
			"unknown quality falls back to medium",
			Options{Trim: TrimRange{0, 100}, VolumePct: 100, Speed: 1, Quality: Quality("ultra")},
			Options{Trim: TrimRange{0, 100}, VolumePct: 100, Speed: 1, Quality: QualityMedium},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Normalize(c.raw)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if got != c.want {
				t.Fatalf("Normalize = %+v; want %+v", got, c.want)
			}
		})
	}
}

func TestNormalizeEmptySelection(t *testing.T) {
	cases := []struct {
		name string
		trim TrimRange
	}{
		{"inverted", TrimRange{80, 20}},
		{"equal", TrimRange{50, 50}},
		{"equal after clamping", TrimRange{150, 300}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Normalize(Options{Trim: c.trim, VolumePct: 100, Speed: 1, Quality: QualityMedium})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Normalize(%+v) error = %v; want ValidationError", c.trim, err)
			}
		})
	}
}

func TestQualityLadder(t *testing.T) {
	cases := []struct {
		q      Quality
		crf    int
		preset string
	}{
		{QualityLow, 28, "fast"},
		{QualityMedium, 23, "medium"},
		{QualityHigh, 18, "slow"},
	}
	for _, c := range cases {
		if c.q.CRF() != c.crf || c.q.Preset() != c.preset {
			t.Errorf("%s quality = (%d, %s); want (%d, %s)", c.q, c.q.CRF(), c.q.Preset(), c.crf, c.preset)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	got := DefaultOptions()
	if _, err := Normalize(got); err != nil {
		t.Fatalf("defaults do not normalize cleanly: %v", err)
	}
	want := Options{Trim: TrimRange{0, 100}, VolumePct: 100, Speed: 1.0, Quality: QualityMedium}
	if got != want {
		t.Fatalf("DefaultOptions = %+v; want %+v", got, want)
	}
}
