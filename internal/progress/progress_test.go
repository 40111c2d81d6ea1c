package progress

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestOfferable(t *testing.T) {
	tests := []struct {
		name     string
		position int64
		duration *int64
		want     bool
	}{
		{"nil-safe", 0, nil, false},
		{"too early", 10, nil, false},
		{"just past threshold", 11, nil, true},
		{"unknown duration", 600, nil, true},
		{"zero duration treated as unknown", 600, ptr(int64(0)), true},
		{"mid-film", 2700, ptr(int64(5400)), true},
		{"nearly finished", 5200, ptr(int64(5400)), false},
		{"exactly at cutoff", 5130, ptr(int64(5400)), false},
		{"just under cutoff", 5129, ptr(int64(5400)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{PositionSeconds: tt.position, DurationSeconds: tt.duration}
			assert.Equal(t, tt.want, Offerable(r))
		})
	}

	assert.False(t, Offerable(nil))
}

// A record is offerable exactly when the position clears the minimum
// and, if duration is known and positive, sits under 95% of it.
func TestOfferableProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("resume offer thresholds hold", prop.ForAll(
		func(position int64, duration int64, hasDuration bool) bool {
			r := &Record{PositionSeconds: position}
			if hasDuration {
				r.DurationSeconds = &duration
			}

			got := Offerable(r)

			want := position > 10
			if want && hasDuration && duration > 0 {
				want = float64(position)/float64(duration) < 0.95
			}
			return got == want
		},
		gen.Int64Range(0, 20000),
		gen.Int64Range(0, 20000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
