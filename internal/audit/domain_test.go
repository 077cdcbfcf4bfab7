package audit

import "testing"

func TestDomainToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"https://www.example.gov/page", "example"},
		{"http://energy.gov", "energy"},
		{"HTTPS://WWW.GSA.GOV/", "GSA"},
		{"www.doe.gov/inventory.csv", "doe"},
		{"treasury.gov", "treasury"},
		{"not a url", EmptyToken},
		{"", EmptyToken},
		{"https://", EmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := DomainToken(tt.input); got != tt.want {
				t.Errorf("DomainToken(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBaseGovDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"example.gov", "example.gov"},
		{"www.example.gov", "example.gov"},
		{"a.b.example.gov", "example.gov"},
		{"https://www.example.gov/", "example.gov"},
		{"example.com", "example.com"},
		{"www.example.gov.uk", "www.example.gov.uk"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := BaseGovDomain(tt.input); got != tt.want {
				t.Errorf("BaseGovDomain(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsUnacceptableURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.gov", false},
		{"HTTPS://example.gov/page", false},
		{"example.gov", false},
		{"example.gov:8080", true},
		{"http:example.gov", true},
		{`http:\\example.gov`, true},
		{`example.gov\page`, true},
		{"www.example.gov", true},
		{"https://example.gov?x=1", true},
		{"example.gov/page", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := IsUnacceptableURL(tt.input); got != tt.want {
				t.Errorf("IsUnacceptableURL(%q) = %v, expected %v", tt.input, got, tt.want)
			}
		})
	}
}
