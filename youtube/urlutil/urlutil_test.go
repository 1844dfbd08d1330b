package urlutil

import (
	"errors"
	"testing"

	"github.com/DjDeveloperr/ytdl-core/errs"
)

const testID = "dQw4w9WgXcQ"

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "valid id", id: testID, valid: true},
		{name: "valid with dash and underscore", id: "a-b_c-d_e-f", valid: true},
		{name: "too short", id: "abc", valid: false},
		{name: "too long", id: "abcdefghijkl", valid: false},
		{name: "illegal character", id: "abcdefghij!", valid: false},
		{name: "empty", id: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateID(tt.id); got != tt.valid {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestGetVideoIDIdentity(t *testing.T) {
	got, err := GetVideoID(testID)
	if err != nil {
		t.Fatalf("GetVideoID() error: %v", err)
	}
	if got != testID {
		t.Errorf("GetVideoID(%q) = %q, want identity", testID, got)
	}
}

func TestGetVideoIDFromURLShapes(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{name: "watch", link: "https://www.youtube.com/watch?v=" + testID},
		{name: "watch mobile", link: "https://m.youtube.com/watch?v=" + testID},
		{name: "watch music", link: "https://music.youtube.com/watch?v=" + testID},
		{name: "watch gaming", link: "https://gaming.youtube.com/watch?v=" + testID},
		{name: "short link", link: "https://youtu.be/" + testID},
		{name: "embed", link: "https://www.youtube.com/embed/" + testID},
		{name: "v path", link: "https://www.youtube.com/v/" + testID},
		{name: "shorts", link: "https://www.youtube.com/shorts/" + testID},
		{name: "watch with extra params", link: "https://www.youtube.com/watch?v=" + testID + "&t=10s"},
		{name: "plain http", link: "http://www.youtube.com/watch?v=" + testID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetVideoID(tt.link)
			if err != nil {
				t.Fatalf("GetVideoID(%q) error: %v", tt.link, err)
			}
			if got != testID {
				t.Errorf("GetVideoID(%q) = %q, want %q", tt.link, got, testID)
			}
		})
	}
}

func TestGetVideoIDErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "random string", input: "not an id", want: errs.ErrNoVideoID},
		{name: "short id", input: "abc", want: errs.ErrNoVideoID},
		{name: "other domain", input: "https://example.com/watch?v=" + testID, want: errs.ErrNotYouTubeDomain},
		{name: "url without id", input: "https://www.youtube.com/watch", want: errs.ErrNoVideoID},
		{name: "url with malformed id", input: "https://www.youtube.com/watch?v=abc", want: errs.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetVideoID(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("GetVideoID(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if !ValidateURL("https://www.youtube.com/watch?v=" + testID) {
		t.Errorf("Expected valid watch URL to pass")
	}
	if ValidateURL("https://example.com/watch?v=" + testID) {
		t.Errorf("Expected foreign domain to fail")
	}
	if ValidateURL(testID) {
		t.Errorf("Bare id is not a URL")
	}
}
