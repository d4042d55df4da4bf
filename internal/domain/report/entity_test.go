package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLogLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"未指定はデフォルト", 0, DefaultLogLimit},
		{"負数はデフォルト", -5, DefaultLogLimit},
		{"範囲内はそのまま", 50, 50},
		{"上限ちょうど", MaxLogLimit, MaxLogLimit},
		{"上限超過は上限に丸める", 1000, MaxLogLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLogLimit(tt.limit))
		})
	}
}
