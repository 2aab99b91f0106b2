package sanitize

import "testing"

func TestAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  123 Main St  ", "123 Main St"},
		{"<b>Dam 1</b>,\n 1012 JS Amsterdam", "Dam 1, 1012 JS Amsterdam"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Kalverstraat", "alert(1)Kalverstraat"},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := Address(tc.in); got != tc.want {
			t.Errorf("Address(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
