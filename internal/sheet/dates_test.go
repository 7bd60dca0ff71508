package sheet

import "testing"

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		null  bool
	}{
		{name: "epoch seconds", input: "1700000000", want: "2023-11-14"},
		{name: "year month single digit", input: "2017-9", want: "2017-09-01"},
		{name: "year month double digit", input: "2017-11", want: "2017-11-01"},
		{name: "iso date passthrough", input: "2020-05-01", want: "2020-05-01"},
		{name: "us date", input: "06/15/2021", want: "2021-06-15"},
		{name: "us date short", input: "6/5/2021", want: "2021-06-05"},
		{name: "timestamp", input: "2021-03-04 10:20:30", want: "2021-03-04"},
		{name: "padded input", input: "  2020-05-01  ", want: "2020-05-01"},
		{name: "blank", input: "", null: true},
		{name: "whitespace only", input: "   ", null: true},
		{name: "free text", input: "pending review", null: true},
		{name: "short number", input: "12345", null: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeDate(tt.input)
			if tt.null {
				if got != nil {
					t.Fatalf("NormalizeDate(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("NormalizeDate(%q) = nil, want %q", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, *got, tt.want)
			}
		})
	}
}
