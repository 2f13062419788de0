package models

import (
	"testing"
	"time"
)

func TestMovie(t *testing.T) {
	t.Run("ReleaseYear", func(t *testing.T) {
		tc := []struct {
			date   string
			want   int
			wantOK bool
		}{
			{date: "2010-07-15", want: 2010, wantOK: true},
			{date: "1999", want: 1999, wantOK: true},
			{date: "", wantOK: false},
			{date: "TBA", wantOK: false},
		}

		for _, tt := range tc {
			got, ok := Movie{ReleaseDate: tt.date}.ReleaseYear()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ReleaseYear(%q) = %d, %v; want %d, %v", tt.date, got, ok, tt.want, tt.wantOK)
			}
		}
	})

	t.Run("Label", func(t *testing.T) {
		if got := (Movie{Title: "Inception", ReleaseDate: "2010-07-15"}).Label(); got != "Inception (2010)" {
			t.Errorf("Label() = %q", got)
		}
		if got := (Movie{Title: "Untitled"}).Label(); got != "Untitled" {
			t.Errorf("Label() = %q", got)
		}
	})
}

func TestUser(t *testing.T) {
	user := NewUser(1, "  Ada@Example.com ", "hash")
	if user.Email() != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email())
	}

	if err := user.Validate(); err == nil {
		t.Error("expected error without id")
	}

	user.SetID("user-1")
	if err := user.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if NewUser(1, "nope", "hash").IsDeleted() {
		t.Error("new user should not be deleted")
	}
}

func TestRating(t *testing.T) {
	movie := Movie{ID: 27205, Title: "Inception"}

	tc := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "lowest", score: 1},
		{name: "highest", score: 10},
		{name: "zero", score: 0, wantErr: true},
		{name: "eleven", score: 11, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRating(1, "user-1", movie, tt.score)
			r.SetID("rating-1")
			if err := r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionAndResetToken(t *testing.T) {
	now := time.Now()

	session := Session{ExpiresAt: now.Add(time.Hour)}
	if session.Expired(now) {
		t.Error("session should be valid")
	}
	if !session.Expired(now.Add(time.Hour)) {
		t.Error("session should expire at ExpiresAt")
	}

	token := ResetToken{ExpiresAt: now.Add(time.Hour)}
	if !token.Usable(now) {
		t.Error("fresh token should be usable")
	}
	token.UsedAt = &now
	if token.Usable(now) {
		t.Error("used token should not be usable")
	}
}
