package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "source only",
			key:  Key{Source: "chronam"},
			want: "harvest:chronam",
		},
		{
			name: "endpoint normalized",
			key: Key{
				Source:   "chronam",
				Endpoint: "/search/pages/results/",
			},
			want: "harvest:chronam:search/pages/results",
		},
		{
			name: "params sorted",
			key: Key{
				Source:   "chronam",
				Endpoint: "/search/pages/results/",
				Params: map[string]string{
					"page":    "3",
					"andtext": "mining",
					"format":  "json",
				},
			},
			want: "harvest:chronam:search/pages/results:andtext=mining:format=json:page=3",
		},
		{
			name: "page index distinguishes entries",
			key: Key{
				Source:   "newsapi",
				Endpoint: "v2/everything",
				Params:   map[string]string{"q": "bitcoin", "page": "2"},
			},
			want: "harvest:newsapi:v2/everything:page=2:q=bitcoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Source:   "chronam",
		Endpoint: "search/pages/results",
		Params: map[string]string{
			"z": "1", "a": "2", "m": "3", "page": "0",
		},
	}

	first := key.String()
	for i := 0; i < 50; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q != %q", got, first)
		}
	}
}
