package db

import "testing"

func TestTagFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter map[string]string
		want   string
	}{
		{"empty", nil, ""},
		{"single", map[string]string{"category": "returns"}, "@category:{returns}"},
		{
			"multiple ANDed in key order",
			map[string]string{"source": "rag-node", "category": "faq"},
			"@category:{faq} @source:{rag\\-node}",
		},
		{
			"escaped value",
			map[string]string{"category": "rag-module-node 1"},
			"@category:{rag\\-module\\-node\\ 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagFilter(tt.filter); got != tt.want {
				t.Errorf("TagFilter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexDefinitionValidate(t *testing.T) {
	def := IndexDefinition{Name: "idx", Prefix: "blitz:doc:", VectorDim: 384}
	if err := def.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []IndexDefinition{
		{Prefix: "p", VectorDim: 1},
		{Name: "idx", VectorDim: 1},
		{Name: "idx", Prefix: "p"},
	}
	for i, def := range bad {
		if err := def.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
