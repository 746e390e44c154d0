package batch

import (
	"strings"
	"testing"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/proxy"
)

func TestBuildChannelURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/@handle/videos", "https://www.youtube.com/@handle/videos"},
		{"http://youtube.com/c/legacy", "http://youtube.com/c/legacy"},
		{"@handle", "https://www.youtube.com/@handle/videos"},
		{"barename", "https://www.youtube.com/@barename/videos"},
		{"  @padded  ", "https://www.youtube.com/@padded/videos"},
	}
	for _, tc := range cases {
		if got := buildChannelURL(tc.in); got != tc.want {
			t.Fatalf("buildChannelURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChannelURLSortModes(t *testing.T) {
	l := &Lister{}

	got := l.channelURL(ChannelJob{Identifier: "@chan", SortMode: model.SortRecency})
	if got != "https://www.youtube.com/@chan/videos?sort=dd" {
		t.Fatalf("recency URL mismatch: %q", got)
	}

	got = l.channelURL(ChannelJob{Identifier: "@chan", SortMode: model.SortPopularity})
	if got != "https://www.youtube.com/@chan/videos?sort=p" {
		t.Fatalf("popularity URL mismatch: %q", got)
	}

	var out strings.Builder
	l.Out = &out
	got = l.channelURL(ChannelJob{Name: "chan", Identifier: "@chan", SortMode: "views"})
	if got != "https://www.youtube.com/@chan/videos" {
		t.Fatalf("unknown sort mode must leave the URL unmodified: %q", got)
	}
	if !strings.Contains(out.String(), "unknown sort mode") {
		t.Fatalf("expected a warning for unknown sort mode, got %q", out.String())
	}
}

func TestListTruncatesToMaxVideos(t *testing.T) {
	eng := &fakeEngine{
		listing: Listing{Videos: []model.Video{
			{ID: "v1"}, {ID: "v2"}, {ID: "v3"},
		}},
	}
	l := &Lister{Engine: eng}

	videos, err := l.List(ChannelJob{Identifier: "@chan", MaxVideos: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
}

func TestListMarksProxyFailedOnError(t *testing.T) {
	eng := &fakeEngine{listErr: errForTest("tls handshake failure")}
	rot := proxy.NewRotator([]string{"http://p1:8080"})
	l := &Lister{Engine: eng, Proxies: rot}

	if _, err := l.List(ChannelJob{Identifier: "@chan"}); err == nil {
		t.Fatalf("expected listing error to surface")
	}
	if rot.FailedCount() != 1 {
		t.Fatalf("expected failed proxy to be marked, got %d", rot.FailedCount())
	}
}

type errForTest string

func (e errForTest) Error() string { return string(e) }
