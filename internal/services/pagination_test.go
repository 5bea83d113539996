package services

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{}, Pagination{PageSize: 10, PageNumber: 1}},
		{"negative", Pagination{PageSize: -3, PageNumber: -1}, Pagination{PageSize: 10, PageNumber: 1}},
		{"capped", Pagination{PageSize: 500, PageNumber: 2}, Pagination{PageSize: 100, PageNumber: 2}},
		{"kept", Pagination{PageSize: 25, PageNumber: 4}, Pagination{PageSize: 25, PageNumber: 4}},
		{"page number capped", Pagination{PageSize: 20, PageNumber: math.MaxInt64 / 10}, Pagination{PageSize: 20, PageNumber: MaxPageNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPagination_SkipStaysPositiveForHugePages(t *testing.T) {
	p := Pagination{PageSize: 100, PageNumber: math.MaxInt64 / 10}.Normalize()

	assert.Equal(t, (MaxPageNumber-1)*MaxPageSize, p.Skip())
}

func TestPagination_Info(t *testing.T) {
	p := Pagination{PageSize: 10, PageNumber: 3}

	info := p.Info(21)

	assert.Equal(t, 20, info.Skip)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 21, info.TotalCount)
	assert.Equal(t, 0, p.TotalPages(0))
}

func TestCodes(t *testing.T) {
	invite := newInviteCode()
	assert.Len(t, invite, 8)
	assert.NotEqual(t, invite, newInviteCode())

	assert.Regexp(t, regexp.MustCompile(`^task-[0-9a-f]{8}$`), newTaskCode())
}
