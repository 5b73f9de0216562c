package models

import "testing"

func TestReplaceRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		next    Rating
		want    int
		wantOf  map[string]int
	}{
		{
			name:   "first rating",
			next:   Rating{UserID: "u1", Value: 4},
			want:   1,
			wantOf: map[string]int{"u1": 4},
		},
		{
			name: "same user replaces",
			ratings: []Rating{
				{UserID: "u1", Value: 2},
				{UserID: "u2", Value: 5},
			},
			next:   Rating{UserID: "u1", Value: 4},
			want:   2,
			wantOf: map[string]int{"u1": 4, "u2": 5},
		},
		{
			name: "new user appends",
			ratings: []Rating{
				{UserID: "u1", Value: 3},
			},
			next:   Rating{UserID: "u2", Value: 1},
			want:   2,
			wantOf: map[string]int{"u1": 3, "u2": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReplaceRating(tt.ratings, tt.next)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, r := range got {
				if want, ok := tt.wantOf[r.UserID]; !ok || r.Value != want {
					t.Errorf("user %s value = %d, want %d", r.UserID, r.Value, want)
				}
			}
		})
	}
}

func TestReplaceRatingLeavesInputIntact(t *testing.T) {
	ratings := []Rating{
		{UserID: "u1", Value: 2},
		{UserID: "u2", Value: 5},
	}

	got := ReplaceRating(ratings, Rating{UserID: "u1", Value: 4})

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// The input slice keeps its original contents and order.
	if ratings[0].UserID != "u1" || ratings[0].Value != 2 {
		t.Errorf("ratings[0] = %+v, want u1/2", ratings[0])
	}
	if ratings[1].UserID != "u2" || ratings[1].Value != 5 {
		t.Errorf("ratings[1] = %+v, want u2/5", ratings[1])
	}
}

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Errorf("empty set average = %v, want 0", got)
	}

	ratings := []Rating{
		{UserID: "u1", Value: 3},
		{UserID: "u2", Value: 4},
		{UserID: "u3", Value: 5},
	}
	if got := AverageRating(ratings); got != 4 {
		t.Errorf("average = %v, want 4", got)
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page, limit int
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{name: "15 items over 10 per page", total: 15, page: 1, limit: 10, wantPages: 2, wantNext: true, wantPrev: false},
		{name: "last page", total: 15, page: 2, limit: 10, wantPages: 2, wantNext: false, wantPrev: true},
		{name: "empty", total: 0, page: 1, limit: 10, wantPages: 0, wantNext: false, wantPrev: false},
		{name: "exact fit", total: 20, page: 2, limit: 10, wantPages: 2, wantNext: false, wantPrev: true},
		{name: "zero limit defaults", total: 5, page: 0, limit: 0, wantPages: 1, wantNext: false, wantPrev: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageInfo(tt.total, tt.page, tt.limit)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", got.HasNextPage, tt.wantNext)
			}
			if got.HasPrevPage != tt.wantPrev {
				t.Errorf("HasPrevPage = %v, want %v", got.HasPrevPage, tt.wantPrev)
			}
		})
	}
}
