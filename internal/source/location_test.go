package source

import "testing"

func TestLocationContains(t *testing.T) {
	loc := NewLocation("test.sig", Position{Line: 1, Column: 1}, Position{Line: 3, Column: 5})

	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"start", Position{Line: 1, Column: 1}, true},
		{"middle", Position{Line: 2, Column: 10}, true},
		{"end", Position{Line: 3, Column: 5}, true},
		{"before", Position{Line: 1, Column: 0}, false},
		{"after", Position{Line: 3, Column: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loc.Contains(tt.pos); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestLocationText(t *testing.T) {
	cache := NewCache()
	cache.AddSource("test.sig", "processor P {\n  output stream out: float;\n}\n")

	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "single line",
			loc:  NewLocation("test.sig", Position{Line: 1, Column: 1}, Position{Line: 1, Column: 10}),
			want: "processor",
		},
		{
			name: "multi line",
			loc:  NewLocation("test.sig", Position{Line: 1, Column: 1}, Position{Line: 2, Column: 3}),
			want: "processor P {\n  ",
		},
		{
			name: "unknown file",
			loc:  NewLocation("missing.sig", Position{Line: 1, Column: 1}, Position{Line: 1, Column: 2}),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.Text(cache); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocationString(t *testing.T) {
	loc := NewLocation("test.sig", Position{Line: 4, Column: 2}, Position{Line: 4, Column: 9})
	if got, want := loc.String(), "test.sig:4:2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
