package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func pageContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"defaults return everything under the limit", "", items},
		{"offset skips", "offset=7", []int{7, 8, 9}},
		{"limit caps", "limit=3", []int{0, 1, 2}},
		{"offset and limit combine", "offset=4&limit=2", []int{4, 5}},
		{"offset past the end is empty", "offset=50", []int{}},
		{"negative offset is clamped", "offset=-3&limit=2", []int{0, 1}},
		{"zero limit falls back to default", "limit=0", items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginate(pageContext(t, tt.query), items)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d items, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d: expected %d, got %d", i, tt.want[i], got[i])
				}
			}
		})
	}
}
