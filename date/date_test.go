package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-31", want: New(2024, time.January, 31)},
		{in: "2024-1-3", want: New(2024, time.January, 3)},
		{in: "not-a-date", wantErr: true},
		{in: "2024-13-01", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected an error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	got := New(2024, time.December, 31).Add(1)
	want := New(2025, time.January, 1)
	if got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestOf(t *testing.T) {
	on := Of(time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC))
	if want := New(2024, time.March, 5); on != want {
		t.Errorf("Of() = %v, want %v", on, want)
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(New(2024, time.February, 27), New(2024, time.March, 1))
	var got []Date
	for on := range r.Days() {
		got = append(got, on)
	}
	want := []Date{
		New(2024, time.February, 27),
		New(2024, time.February, 28),
		New(2024, time.February, 29), // leap year
		New(2024, time.March, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("Days() yielded %d dates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	on := New(2024, time.July, 4)
	data, err := on.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != on {
		t.Errorf("round trip = %v, want %v", back, on)
	}
}
