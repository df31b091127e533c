package parser

import "testing"

func TestExtractProductID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "https://site.tld/dp/B084TSLMC6/ref=xyz", want: "B084TSLMC6", ok: true},
		{in: "https://site.tld/gp/product/b084tslmc6", want: "B084TSLMC6", ok: true},
		{in: "https://site.tld/Some-Name/product/B084TSLMC6?th=1", want: "B084TSLMC6", ok: true},
		{in: "https://site.tld/s?asin=b084tslmc6&tag=x", want: "B084TSLMC6", ok: true},
		{in: "B084TSLMC6", want: "B084TSLMC6", ok: true},
		{in: "  b084tslmc6 ", want: "B084TSLMC6", ok: true},
		{in: "not-an-id", ok: false},
		{in: "B084TSLMC6X", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range cases {
		got, ok := ExtractProductID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractProductID(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
