package util

import (
	"regexp"
	"strings"
)

const (
	MediaYouTube = "youtube"
	MediaVimeo   = "vimeo"
	MediaDirect  = "direct"
)

var youtubeIDPattern = regexp.MustCompile(`[?&]v=([^&]+)`)

// Media 章节只有一个视频面板时，前端切换为播放器模式
type Media struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func IsVideoURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, ext := range VideoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, host := range VideoHosts {
		if strings.Contains(raw, host) {
			return true
		}
	}
	return false
}

// DetectMedia 返回 nil 表示按图片轮播处理
func DetectMedia(panels []string) *Media {
	if len(panels) != 1 {
		return nil
	}
	raw := strings.TrimSpace(panels[0])
	if !IsVideoURL(raw) {
		return nil
	}

	switch {
	case strings.Contains(raw, "youtube.com/watch"):
		id := ""
		if m := youtubeIDPattern.FindStringSubmatch(raw); m != nil {
			id = m[1]
		}
		return &Media{Type: MediaYouTube, URL: youtubeEmbed(id)}
	case strings.Contains(raw, "youtu.be/"):
		parts := strings.Split(raw, "youtu.be/")
		id := strings.SplitN(parts[len(parts)-1], "?", 2)[0]
		return &Media{Type: MediaYouTube, URL: youtubeEmbed(id)}
	case strings.Contains(raw, "vimeo.com/"):
		parts := strings.Split(strings.TrimRight(raw, "/"), "/")
		return &Media{Type: MediaVimeo, URL: "https://player.vimeo.com/video/" + parts[len(parts)-1] + "?api=1"}
	default:
		return &Media{Type: MediaDirect, URL: raw}
	}
}

func youtubeEmbed(id string) string {
	return "https://www.youtube.com/embed/" + id + "?enablejsapi=1&rel=0"
}
